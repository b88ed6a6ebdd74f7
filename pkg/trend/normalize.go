package trend

import "math"

const percent = 100

// Absolute converts counts to row values unchanged.
func Absolute(columnToLines map[string]int) map[string]float64 {
	values := make(map[string]float64, len(columnToLines))
	for column, lines := range columnToLines {
		values[column] = float64(lines)
	}

	return values
}

// Relative converts counts to percentages of the row total, rounded to two
// decimals. A zero total yields 0 for every column.
func Relative(columnToLines map[string]int) map[string]float64 {
	total := 0
	for _, lines := range columnToLines {
		total += lines
	}

	values := make(map[string]float64, len(columnToLines))

	for column, lines := range columnToLines {
		if total == 0 {
			values[column] = 0

			continue
		}

		values[column] = round2(float64(lines) / float64(total) * percent)
	}

	return values
}

func round2(v float64) float64 {
	return math.Round(v*percent) / percent
}
