package output

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/langtrends/pkg/trend"
)

// dateColumnPlaceholder fills the header cell above the YYYY-MM-DD dates.
var dateColumnPlaceholder = strings.Repeat(" ", len("YYYY-MM-DD"))

// Separated writes rows as tab or comma separated values.
type Separated struct {
	dest *Destination
	sep  string
	w    *bufio.Writer
}

// NewSeparated creates a delimited text sink.
func NewSeparated(dest *Destination, sep string) *Separated {
	return &Separated{dest: dest, sep: sep}
}

// Start writes the header row.
func (s *Separated) Start(columns []string) error {
	w, err := s.dest.Open()
	if err != nil {
		return err
	}

	s.w = w

	w.WriteString(dateColumnPlaceholder)

	for _, column := range columns {
		w.WriteString(s.sep)
		w.WriteString(column)
	}

	return s.endLine()
}

// AddRow writes one data row.
func (s *Separated) AddRow(columns []string, row trend.Row) error {
	s.w.WriteString(row.Date)

	for _, column := range columns {
		s.w.WriteString(s.sep)
		s.w.WriteString(FormatValue(row.Value(column)))
	}

	return s.endLine()
}

// Finish flushes the output.
func (s *Separated) Finish() error {
	return s.dest.Commit()
}

// Abort discards partial output.
func (s *Separated) Abort() error {
	return s.dest.Abort()
}

func (s *Separated) endLine() error {
	// bufio.Writer keeps the first write error, so checking here covers the
	// whole line.
	err := s.w.WriteByte('\n')
	if err != nil {
		return fmt.Errorf("write row: %w", err)
	}

	return nil
}
