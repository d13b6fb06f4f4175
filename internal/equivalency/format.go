package equivalency

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer groups thousands the English way.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatInt formats n with thousand separators: 18248 -> "18,248".
func FormatInt(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat rounds f to precision decimals and groups the integer part:
// FormatFloat(1234.567, 2) -> "1,234.57".
func FormatFloat(f float64, precision int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	precision = max(precision, 0)
	s := strconv.FormatFloat(f, 'f', precision, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return sign + s
	}
	out := sign + FormatInt(n)
	if hasFrac {
		out += "." + frac
	}
	return out
}

// FormatLarge abbreviates values of a million or more ("~1.5 million",
// "~2.0 billion") and groups smaller values as integers.
func FormatLarge(v float64) string {
	switch {
	case v >= BillionThreshold:
		return printer.Sprintf("~%.1f billion", v/BillionThreshold)
	case v >= MillionThreshold:
		return printer.Sprintf("~%.1f million", v/MillionThreshold)
	default:
		return FormatInt(int64(math.Round(v)))
	}
}
