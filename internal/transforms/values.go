package transforms

import (
	"math"
	"strconv"
	"strings"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

// ToFloat converts v to a finite float64. Unparseable input and NaN report false.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch tv := v.(type) {
	case float64:
		f = tv
	case float32:
		f = float64(tv)
	case int:
		f = float64(tv)
	case int64:
		f = float64(tv)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(tv), ",", "")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToBool interprets v as a boolean.
func ToBool(v any) bool {
	switch tv := v.(type) {
	case bool:
		return tv
	case string:
		switch strings.ToLower(strings.TrimSpace(tv)) {
		case "true", "yes", "1", "on", "y":
			return true
		}
		return false
	case int:
		return tv != 0
	case int64:
		return tv != 0
	case float64:
		return tv != 0
	default:
		return false
	}
}

func toNumber(v any) any {
	f, ok := ToFloat(v)
	if !ok {
		return nil
	}
	return f
}

func count(v any) any {
	switch tv := v.(type) {
	case nil:
		return 0
	case []string:
		return len(tv)
	case []domain.Attachment:
		return len(tv)
	case []any:
		return len(tv)
	case string:
		n := 0
		for _, part := range strings.Split(tv, ",") {
			if strings.TrimSpace(part) != "" {
				n++
			}
		}
		return n
	default:
		return v
	}
}

func kilobytes(v any) any {
	f, ok := ToFloat(v)
	if !ok {
		return nil
	}
	return math.Round(f/1024*100) / 100
}

func notEmpty(v any) any {
	switch tv := v.(type) {
	case nil:
		return false
	case bool:
		return tv
	case string:
		return strings.TrimSpace(tv) != ""
	case []string:
		return len(tv) > 0
	case []domain.Attachment:
		return len(tv) > 0
	case []any:
		return len(tv) > 0
	default:
		return ToBool(v)
	}
}

func negate(v any) any {
	return !ToBool(v)
}
