package usecase

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// int64Bound is 2^63, the first float64 that no longer fits in an int64.
const int64Bound = float64(1 << 63)

var radixPrefix = map[byte]int{
	'x': 16, 'X': 16,
	'o': 8, 'O': 8,
	'b': 2, 'B': 2,
}

// toNumber converts a path value the way a loose numeric comparison does.
// It accepts decimal and exponent forms, unsigned 0x/0o/0b integers and the
// exact spellings Infinity, +Infinity and -Infinity. Blank input is zero.
// ok is false for anything else.
func toNumber(raw string) (f float64, ok bool) {
	s := strings.TrimSpace(raw)
	switch s {
	case "":
		return 0, true
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	if len(s) > 2 && s[0] == '0' {
		if base, found := radixPrefix[s[1]]; found {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if errors.Is(err, strconv.ErrRange) {
				return math.Inf(1), true
			}
			if err != nil {
				return 0, false
			}
			return float64(n), true
		}
	}

	// ParseFloat also knows inf, nan, hex floats and underscores
	for _, r := range s {
		if !strings.ContainsRune("0123456789+-.eE", r) {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}
