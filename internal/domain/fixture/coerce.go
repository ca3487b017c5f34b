package fixture

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CoerceStat turns a loosely typed feed value into a finite float. Anything that
// does not parse as a number becomes 0.
func CoerceStat(v any) float64 {
	var out float64
	switch value := v.(type) {
	case float64:
		out = value
	case float32:
		out = float64(value)
	case int:
		out = float64(value)
	case int64:
		out = float64(value)
	case int32:
		out = float64(value)
	case uint64:
		out = float64(value)
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return 0
		}
		out = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0
		}
		out = parsed
	default:
		return 0
	}

	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0
	}
	return out
}

// CoerceRank truncates a loosely typed feed value to an int, 0 when not numeric.
func CoerceRank(v any) int {
	switch value := v.(type) {
	case int:
		return value
	case int64:
		return int(value)
	case int32:
		return int(value)
	}

	f := CoerceStat(v)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(math.Trunc(f))
}

func coerceString(v any) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return ""
	}
}
