package array

import (
	"math"
	"strconv"
	"strings"
)

// Sentinel texts for undefined numeric results. Columns holding them stay
// numeric, but ParseFloat rejects them so scans treat them like holes.
const (
	NaN = "NaN"
	Inf = "inf"
)

func IsSentinel(s string) bool { return s == NaN || s == Inf || s == "-"+Inf }

// ParseInt parses a whole-value decimal integer with an optional sign.
func ParseInt(s string) (int64, bool) {
	if !isIntText(s) {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseFloat parses a whole-value decimal number. Sentinels, hex literals
// and values that overflow float64 are rejected.
func ParseFloat(s string) (float64, bool) {
	if !isIntText(s) && !isFloatText(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatFloat renders v as the shortest decimal text that parses back to v.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return NaN
	case math.IsInf(v, 1):
		return Inf
	case math.IsInf(v, -1):
		return "-" + Inf
	}
	if v == 0 {
		// Avoid printing -0.
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatInt renders a truncated integer value.
func FormatInt(v int64) string { return strconv.FormatInt(v, 10) }

// AsFloatText appends ".0" to integral text so it reads back as FLOAT.
func AsFloatText(s string) string {
	if strings.ContainsAny(s, ".eE") {
		return s
	}
	return s + ".0"
}

func isIntText(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if i == len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isFloatText accepts [sign] digits [. digits] [e [sign] digits] with at
// least one mantissa digit.
func isFloatText(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}
