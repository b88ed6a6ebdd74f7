package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const outputDirPerm = 0o755

var errNotOpen = errors.New("output not open")

// Destination is where a sink writes. File output goes to a temporary file next
// to the target and is renamed into place on Commit, so a failed run never
// leaves a half written file behind.
type Destination struct {
	path    string
	stdout  io.Writer
	notices io.Writer

	tmp *os.File
	buf *bufio.Writer
}

func newDestination(opts Options) *Destination {
	d := &Destination{path: opts.Path, stdout: opts.Stdout, notices: opts.Notices}
	if IsStdout(opts.Path) {
		d.path = ""
	}

	if d.stdout == nil {
		d.stdout = os.Stdout
	}

	return d
}

// NewWriterDestination returns a Destination that writes to w.
func NewWriterDestination(w io.Writer) *Destination {
	return &Destination{stdout: w}
}

// Open prepares the destination and returns its buffered writer.
func (d *Destination) Open() (*bufio.Writer, error) {
	if d.buf != nil {
		return d.buf, nil
	}

	if d.path == "" {
		d.buf = bufio.NewWriter(d.stdout)

		return d.buf, nil
	}

	dir := filepath.Dir(d.path)

	err := os.MkdirAll(dir, outputDirPerm)
	if err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	d.tmp = tmp
	d.buf = bufio.NewWriter(tmp)

	return d.buf, nil
}

// Commit flushes the output and moves a file into place.
func (d *Destination) Commit() error {
	if d.buf == nil {
		return errNotOpen
	}

	err := d.buf.Flush()
	if err != nil {
		d.discard()

		return fmt.Errorf("flush output: %w", err)
	}

	if d.tmp == nil {
		return nil
	}

	err = d.tmp.Close()
	if err != nil {
		d.discard()

		return fmt.Errorf("close output: %w", err)
	}

	err = os.Rename(d.tmp.Name(), d.path)
	if err != nil {
		d.discard()

		return fmt.Errorf("move output into place: %w", err)
	}

	d.tmp = nil

	if d.notices != nil {
		fmt.Fprintf(d.notices, "\nWrote output to file:\n\n    %s\n\n", d.path)
	}

	return nil
}

// Abort drops any partial file output.
func (d *Destination) Abort() error {
	if d.tmp == nil {
		return nil
	}

	name := d.tmp.Name()
	d.tmp.Close()
	d.tmp = nil

	err := os.Remove(name)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove partial output: %w", err)
	}

	return nil
}

func (d *Destination) discard() {
	_ = d.Abort() //nolint:errcheck // already failing, the first error wins.
}
