package owners

import (
	"math"
	"strconv"
	"strings"
)

// ParseQuota parses an ownership share: "A/B" fractions, decimals with a
// comma or a dot, or plain integers. Anything unparseable is 0, as is a
// fraction with a zero or non-numeric denominator.
func ParseQuota(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		a, errA := parseDecimal(num)
		b, errB := parseDecimal(den)
		if errA != nil || errB != nil || b == 0 {
			return 0
		}
		return a / b
	}
	v, err := parseDecimal(s)
	if err != nil {
		return 0
	}
	return v
}

func parseDecimal(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
