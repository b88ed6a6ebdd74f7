package trend

// Row is the result for one sampled commit.
type Row struct {
	// Date is the commit day, YYYY-MM-DD in UTC.
	Date string
	// Values holds line counts, or percentages in relative mode. Columns
	// without data are absent.
	Values map[string]float64
}

// Value returns the value of column, 0 when absent.
func (r Row) Value(column string) float64 {
	return r.Values[column]
}

// Sink consumes the rows of a run. Start is called once before any row, AddRow
// once per sampled commit oldest first, and Finish once after the last row.
type Sink interface {
	Start(columns []string) error
	AddRow(columns []string, row Row) error
	Finish() error
}

// Aborter is implemented by sinks that can discard partial output when a run
// fails after Start.
type Aborter interface {
	Abort() error
}
