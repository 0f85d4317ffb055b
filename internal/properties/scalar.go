package properties

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/transforms"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
)

var (
	_ Handler = (*emailHandler)(nil)
	_ Handler = (*urlHandler)(nil)
	_ Handler = (*numberHandler)(nil)
	_ Handler = (*phoneHandler)(nil)
)

type emailHandler struct {
	sourced
}

func (h *emailHandler) ToPayload(_ context.Context, entry domain.MappingEntry,
	record domain.SourceRecord, _ string) (domain.Fragment, error) {
	s, ok := h.text(entry, record)
	if !ok {
		return nil, nil
	}
	s = strings.TrimSpace(s)
	if !emailPattern.MatchString(s) {
		return nil, nil
	}
	return domain.Fragment{"email": s}, nil
}

type urlHandler struct {
	sourced
}

func (h *urlHandler) ToPayload(_ context.Context, entry domain.MappingEntry,
	record domain.SourceRecord, _ string) (domain.Fragment, error) {
	s, ok := h.text(entry, record)
	if !ok {
		return nil, nil
	}
	u, ok := NormalizeURL(s)
	if !ok {
		return nil, nil
	}
	return domain.Fragment{"url": u}, nil
}

// NormalizeURL accepts a value that already has a scheme (https:, mailto:,
// tel:), and prefixes https:// onto a dotted value. Values with whitespace
// are rejected. A dotted "scheme" such as example.com:8080 is a host.
func NormalizeURL(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return "", false
	}
	if scheme := schemePattern.FindString(s); scheme != "" && !strings.Contains(scheme, ".") {
		return s, true
	}
	if strings.Contains(s, ".") {
		return "https://" + s, true
	}
	return "", false
}

type numberHandler struct {
	sourced
}

func (h *numberHandler) ToPayload(_ context.Context, entry domain.MappingEntry,
	record domain.SourceRecord, _ string) (domain.Fragment, error) {
	v, ok := h.value(entry, record)
	if !ok {
		return nil, nil
	}
	n, ok := transforms.ToFloat(v)
	if !ok {
		return nil, nil
	}
	return domain.Fragment{"number": n}, nil
}

type phoneHandler struct {
	sourced
}

func (h *phoneHandler) ToPayload(_ context.Context, entry domain.MappingEntry,
	record domain.SourceRecord, _ string) (domain.Fragment, error) {
	s, ok := h.text(entry, record)
	if !ok {
		return nil, nil
	}
	return domain.Fragment{"phone_number": strings.TrimSpace(s)}, nil
}
