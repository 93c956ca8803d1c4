package render

import (
	"math"
	"strconv"
	"strings"
)

const (
	trillion = 1e12
	billion  = 1e9
)

// formatGDP renders large values as "1.23 Trillion" / "4.56 Billion" and
// everything else as a comma-grouped number with at most three decimals.
func formatGDP(v float64) string {
	switch {
	case v >= trillion:
		return groupDigits(strconv.FormatFloat(v/trillion, 'f', 2, 64)) + " Trillion"
	case v >= billion:
		return groupDigits(strconv.FormatFloat(v/billion, 'f', 2, 64)) + " Billion"
	}

	s := strconv.FormatFloat(math.Round(v*1000)/1000, 'f', 3, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	if s == "-0" {
		s = "0"
	}
	return groupDigits(s)
}

// groupDigits inserts thousands separators into the integer part of s.
func groupDigits(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}
