package observability

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// exportedKeys and exportedPrefixes list the span attributes sent to the
// collector. Anything else, such as file paths or author identities of the
// analyzed repository, stays on the machine.
var (
	exportedKeys     = map[attribute.Key]bool{"error": true, "git.commit": true}
	exportedPrefixes = []string{"langtrends.", "trend.", "error.", "exception."}
)

func exported(key attribute.Key) bool {
	if exportedKeys[key] {
		return true
	}

	for _, prefix := range exportedPrefixes {
		if strings.HasPrefix(string(key), prefix) {
			return true
		}
	}

	return false
}

// redactor is a SpanProcessor that removes unexported attributes from ended
// spans before handing them to next.
type redactor struct {
	next   sdktrace.SpanProcessor
	logger *slog.Logger

	mu       sync.Mutex
	reported map[attribute.Key]bool
}

// NewRedactor returns a SpanProcessor that drops span attributes not meant for
// export. With a non-nil logger each dropped key is reported once.
func NewRedactor(next sdktrace.SpanProcessor, logger *slog.Logger) sdktrace.SpanProcessor {
	return &redactor{next: next, logger: logger, reported: make(map[attribute.Key]bool)}
}

func (r *redactor) OnStart(ctx context.Context, span sdktrace.ReadWriteSpan) {
	r.next.OnStart(ctx, span)
}

func (r *redactor) OnEnd(span sdktrace.ReadOnlySpan) {
	attrs := span.Attributes()
	kept := make([]attribute.KeyValue, 0, len(attrs))

	for _, kv := range attrs {
		if exported(kv.Key) {
			kept = append(kept, kv)
		} else {
			r.report(kv.Key)
		}
	}

	if len(kept) == len(attrs) {
		r.next.OnEnd(span)

		return
	}

	r.next.OnEnd(redactedSpan{ReadOnlySpan: span, attrs: kept})
}

func (r *redactor) Shutdown(ctx context.Context) error {
	return r.next.Shutdown(ctx)
}

func (r *redactor) ForceFlush(ctx context.Context) error {
	return r.next.ForceFlush(ctx)
}

func (r *redactor) report(key attribute.Key) {
	if r.logger == nil {
		return
	}

	r.mu.Lock()
	seen := r.reported[key]
	r.reported[key] = true
	r.mu.Unlock()

	if !seen {
		r.logger.Warn("span attribute not exported", "key", string(key))
	}
}

// redactedSpan is an ended span with a reduced attribute set.
type redactedSpan struct {
	sdktrace.ReadOnlySpan

	attrs []attribute.KeyValue
}

func (s redactedSpan) Attributes() []attribute.KeyValue {
	return s.attrs
}
