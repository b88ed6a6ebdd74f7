package trend

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ExcludedExtension is never picked by auto detection.
const ExcludedExtension = ".lock"

// DefaultTopN is the number of columns picked by auto detection.
const DefaultTopN = 3

// ColumnSeparator joins extensions summed into one column.
const ColumnSeparator = "+"

// ErrInvalidColumn is returned for a column spec with an empty extension.
var ErrInvalidColumn = errors.New("invalid column")

// Column is an output bucket of one or more summed extensions.
type Column struct {
	// Name is the column spec as given, e.g. ".c+.h".
	Name       string
	Extensions []string
}

// ParseColumn parses ".ext" or ".ext1+.ext2".
func ParseColumn(spec string) (Column, error) {
	parts := strings.Split(spec, ColumnSeparator)

	for _, part := range parts {
		if part == "" {
			return Column{}, fmt.Errorf("%w: %q", ErrInvalidColumn, spec)
		}
	}

	return Column{Name: spec, Extensions: parts}, nil
}

// ParseColumns parses every spec in order.
func ParseColumns(specs []string) ([]Column, error) {
	columns := make([]Column, 0, len(specs))

	for _, spec := range specs {
		column, err := ParseColumn(spec)
		if err != nil {
			return nil, err
		}

		columns = append(columns, column)
	}

	return columns, nil
}

// ColumnNames returns the names of columns in order.
func ColumnNames(columns []Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}

	return names
}

// ExtensionToColumn maps each extension to the name of its column. When an
// extension appears in several columns the last one wins, so
// [".h", ".c+.h"] counts .h files in ".c+.h" only.
func ExtensionToColumn(columns []Column) map[string]string {
	extToColumn := make(map[string]string)

	for _, column := range columns {
		for _, ext := range column.Extensions {
			extToColumn[ext] = column.Name
		}
	}

	return extToColumn
}

// SortedByPopularity orders the keys of counts by descending count. Equal
// counts are ordered by name so the result is deterministic.
func SortedByPopularity(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}

		return strings.Compare(a, b)
	})

	return keys
}

// TopExtensions returns up to n of the most popular extensions, skipping
// ExcludedExtension.
func TopExtensions(counts map[string]int, n int) []string {
	top := make([]string, 0, n)

	for _, ext := range SortedByPopularity(counts) {
		if len(top) == n {
			break
		}

		if ext == ExcludedExtension {
			continue
		}

		top = append(top, ext)
	}

	return top
}
