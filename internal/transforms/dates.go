package transforms

import (
	"net/mail"
	"strings"
	"time"
)

// DateLayout is the date-only wire format.
const DateLayout = "2006-01-02"

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DateLayout,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseTime interprets v as a point in time. Strings are tried as RFC 5322
// mail dates first, then common layouts; integers are Unix seconds, or
// milliseconds when large enough.
func ParseTime(v any) (time.Time, bool) {
	switch tv := v.(type) {
	case time.Time:
		return tv, !tv.IsZero()
	case *time.Time:
		if tv == nil || tv.IsZero() {
			return time.Time{}, false
		}
		return *tv, true
	case int64:
		return unixTime(tv), tv > 0
	case int:
		return unixTime(int64(tv)), tv > 0
	case float64:
		return unixTime(int64(tv)), tv > 0
	case string:
		s := strings.TrimSpace(tv)
		if s == "" {
			return time.Time{}, false
		}
		if t, err := mail.ParseDate(s); err == nil {
			return t, true
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func unixTime(n int64) time.Time {
	if n > 1e11 {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}

// TimeOrNow parses v, falling back to now when it cannot be parsed.
func (r *Registry) TimeOrNow(v any) time.Time {
	if t, ok := ParseTime(v); ok {
		return t
	}
	return r.now()
}

func (r *Registry) dateOnly(v any) any {
	return r.TimeOrNow(v).Format(DateLayout)
}

func (r *Registry) dateISO(v any) any {
	return r.TimeOrNow(v).Format(time.RFC3339)
}
