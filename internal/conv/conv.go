package conv

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// AsInt coerces v into an int. Values that cannot be represented yield 0.
func AsInt(v any) int {
	switch actual := v.(type) {
	case nil:
		return 0
	case int:
		return actual
	case int8:
		return int(actual)
	case int16:
		return int(actual)
	case int32:
		return int(actual)
	case int64:
		return int(actual)
	case uint:
		return int(actual)
	case uint8:
		return int(actual)
	case uint16:
		return int(actual)
	case uint32:
		return int(actual)
	case uint64:
		return int(actual)
	case float32:
		return floatAsInt(float64(actual))
	case float64:
		return floatAsInt(actual)
	case json.Number:
		if i, err := actual.Int64(); err == nil {
			return int(i)
		}
		if f, err := actual.Float64(); err == nil {
			return floatAsInt(f)
		}
		return 0
	case string:
		s := strings.TrimSpace(actual)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return int(i)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return floatAsInt(f)
		}
		return 0
	case bool:
		if actual {
			return 1
		}
		return 0
	}
	return 0
}

// AsInt32 coerces v like AsInt and truncates the result to 32 bits.
func AsInt32(v any) int32 {
	return int32(AsInt(v))
}

func floatAsInt(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}
