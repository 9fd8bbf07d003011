package common

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Stored calculator payloads and legacy variant attributes arrive in three
// shapes: proper JSON, JSON that was stringified twice on the way into the
// database, and values whose types drifted (numbers as strings, strings as
// numbers). Every boundary that accepts such input goes through this file so
// the recovery rules exist in exactly one place.

// UnmarshalLenient decodes raw into dst, unwrapping one level of
// double-encoding when raw itself is a JSON string. It reports whether dst
// was populated; malformed input leaves dst untouched.
func UnmarshalLenient(raw []byte, dst any) bool {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return false
	}
	if json.Unmarshal([]byte(trimmed), dst) == nil {
		return true
	}
	var inner string
	if json.Unmarshal([]byte(trimmed), &inner) == nil {
		return json.Unmarshal([]byte(inner), dst) == nil
	}
	return false
}

// DecimalOf coerces an arbitrary decoded JSON value to a decimal, defaulting
// to zero. NaN and infinities also collapse to zero so they can never poison
// a downstream sum.
func DecimalOf(v any) decimal.Decimal {
	switch value := v.(type) {
	case decimal.Decimal:
		return value
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(value)
	case float32:
		return DecimalOf(float64(value))
	case int:
		return decimal.NewFromInt(int64(value))
	case int64:
		return decimal.NewFromInt(value)
	case json.Number:
		return parseDecimal(value.String())
	case string:
		return parseDecimal(value)
	default:
		return decimal.Zero
	}
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// IntOf coerces v to an integer, falling back to def.
func IntOf(v any, def int) int {
	switch value := v.(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return def
		}
		return int(value)
	case json.Number:
		if n, err := value.Int64(); err == nil {
			return int(n)
		}
		if f, err := value.Float64(); err == nil {
			return int(f)
		}
		return def
	case string:
		return AtoiDefault(value, def)
	default:
		return def
	}
}

// StringOf coerces v to its display string form. Numbers render without a
// trailing fractional zero tail so "100" and 100 normalize identically.
func StringOf(v any) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case json.Number:
		return value.String()
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return ""
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case bool:
		return strconv.FormatBool(value)
	case nil:
		return ""
	default:
		return ""
	}
}

// SliceOf coerces v to a generic slice, parsing embedded JSON when the list
// itself was stored as a string.
func SliceOf(v any) []any {
	switch value := v.(type) {
	case []any:
		return value
	case string:
		var out []any
		if UnmarshalLenient([]byte(value), &out) {
			return out
		}
		return nil
	default:
		return nil
	}
}

// MapOf coerces v to a generic map, parsing embedded JSON when the object
// itself was stored as a string.
func MapOf(v any) map[string]any {
	switch value := v.(type) {
	case map[string]any:
		return value
	case string:
		var out map[string]any
		if UnmarshalLenient([]byte(value), &out) {
			return out
		}
		return nil
	default:
		return nil
	}
}

// Pick returns the first present key from m, for payloads whose field names
// drifted between camelCase and snake_case over time.
func Pick(m map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return nil
}

// ClampPercent limits a percentage to the [0, 100] range.
func ClampPercent(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return d
}

// AtoiDefault converts the provided string to an integer falling back to the
// default when parsing fails.
func AtoiDefault(value string, def int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return def
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return def
	}
	return parsed
}
