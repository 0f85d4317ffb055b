package transforms

import (
	"net/mail"
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	urlPattern   = regexp.MustCompile(`(?i)(?:https?://|www\.)[^\s<>"']+`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().\-]{6,}\d`)
)

// firstAddress returns the first entry of an address list value.
func firstAddress(v any) string {
	switch tv := v.(type) {
	case []string:
		if len(tv) == 0 {
			return ""
		}
		return tv[0]
	default:
		s := Stringify(v)
		if list, err := mail.ParseAddressList(s); err == nil && len(list) > 0 {
			return list[0].String()
		}
		return s
	}
}

// ExtractEmail returns the first email address found in v, or "".
func ExtractEmail(v any) string {
	addr := firstAddress(v)
	if parsed, err := mail.ParseAddress(addr); err == nil {
		return parsed.Address
	}
	return emailPattern.FindString(addr)
}

func extractEmail(v any) any {
	return ExtractEmail(v)
}

// extractName returns the display name of the first address, falling back
// to the mailbox's local part.
func extractName(v any) any {
	addr := firstAddress(v)
	if parsed, err := mail.ParseAddress(addr); err == nil {
		if parsed.Name != "" {
			return parsed.Name
		}
		local, _, _ := strings.Cut(parsed.Address, "@")
		return local
	}
	if i := strings.Index(addr, "<"); i > 0 {
		return strings.Trim(strings.TrimSpace(addr[:i]), `"`)
	}
	if email := emailPattern.FindString(addr); email != "" {
		local, _, _ := strings.Cut(email, "@")
		return local
	}
	return strings.TrimSpace(addr)
}

func extractDomain(v any) any {
	email := ExtractEmail(v)
	_, domain, found := strings.Cut(email, "@")
	if !found {
		return ""
	}
	return strings.ToLower(domain)
}

func extractURL(v any) any {
	found := urlPattern.FindString(Stringify(v))
	return strings.TrimRight(found, ".,;:!?)]")
}

func extractPhone(v any) any {
	return strings.TrimSpace(phonePattern.FindString(Stringify(v)))
}

func digitsOnly(v any) any {
	s := strings.TrimSpace(Stringify(v))
	var b strings.Builder
	for i, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
