package datatable

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CompareValues orders two cell values without assuming string content:
// numbers compare numerically, timestamps chronologically, and everything
// else falls back to a case-insensitive lexicographic comparison of the
// formatted value. Nil sorts before everything.
func CompareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return compareFloats(fa, fb)
		}
	}
	if ta, ok := toTime(a); ok {
		if tb, ok := toTime(b); ok {
			return ta.Compare(tb)
		}
	}
	return CompareStrings(a, b)
}

// CompareNumeric orders values by their numeric interpretation. Values that
// do not parse as numbers sort before those that do.
func CompareNumeric(a, b any) int {
	fa, oka := toFloat(a)
	fb, okb := toFloat(b)
	switch {
	case !oka && !okb:
		return CompareStrings(a, b)
	case !oka:
		return -1
	case !okb:
		return 1
	}
	return compareFloats(fa, fb)
}

// CompareTime orders values chronologically. Accepts time.Time values and
// RFC 3339 or date-only strings; unparsable values sort first.
func CompareTime(a, b any) int {
	ta, oka := toTime(a)
	tb, okb := toTime(b)
	switch {
	case !oka && !okb:
		return CompareStrings(a, b)
	case !oka:
		return -1
	case !okb:
		return 1
	}
	return ta.Compare(tb)
}

// CompareStrings orders formatted values case-insensitively.
func CompareStrings(a, b any) int {
	sa := strings.ToLower(FormatValue(a))
	sb := strings.ToLower(FormatValue(b))
	return strings.Compare(sa, sb)
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// FormatValue renders a cell value as display text. Used by filters, CSV
// export, and the print surface so all of them agree on formatting.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format(time.RFC3339)
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ParseTime interprets a cell value as a timestamp. Accepts time.Time values
// and RFC 3339 or date-only strings.
func ParseTime(v any) (time.Time, bool) {
	return toTime(v)
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

func toTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, true
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, val); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
