// Copyright © 2018 The ELPS authors

package telan

import (
	"fmt"
	"math"
	"strconv"
)

// ParseNumber parses the text of a NUMBER token.
func ParseNumber(text string) (float64, error) {
	x, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %q", text)
	}
	if math.IsNaN(x) {
		return 0, fmt.Errorf("invalid number: %q", text)
	}
	return x, nil
}

// FormatNumber returns the shortest decimal text that parses back to x.
// Integral values have no fractional part.
func FormatNumber(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// parseIndex converts NUMBER text to a non-negative integer index.
func parseIndex(text string) (int, bool) {
	x, err := ParseNumber(text)
	if err != nil || x < 0 || x != math.Trunc(x) || x > math.MaxInt32 {
		return 0, false
	}
	return int(x), true
}
