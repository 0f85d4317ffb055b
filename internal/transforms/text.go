package transforms

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/mailpage/internal/core/domain"
)

// Stringify renders any source value as text. Lists are joined with ", ",
// attachments render as their file names and times as RFC 3339.
func Stringify(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case []string:
		return strings.Join(tv, ", ")
	case []domain.Attachment:
		names := make([]string, 0, len(tv))
		for _, a := range tv {
			names = append(names, a.Name)
		}
		return strings.Join(names, ", ")
	case []any:
		parts := make([]string, 0, len(tv))
		for _, item := range tv {
			parts = append(parts, Stringify(item))
		}
		return strings.Join(parts, ", ")
	case time.Time:
		if tv.IsZero() {
			return ""
		}
		return tv.Format(time.RFC3339)
	case bool:
		return strconv.FormatBool(tv)
	case int:
		return strconv.Itoa(tv)
	case int64:
		return strconv.FormatInt(tv, 10)
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	case fmt.Stringer:
		return tv.String()
	default:
		return fmt.Sprint(tv)
	}
}

func trim(v any) any {
	return strings.TrimSpace(Stringify(v))
}

func upper(v any) any {
	return strings.ToUpper(Stringify(v))
}

func lower(v any) any {
	return strings.ToLower(Stringify(v))
}

var replyPrefixes = regexp.MustCompile(`(?i)^\s*(?:(?:re|fwd?|aw|wg|sv|vs|antw)\s*(?:\[\d+\])?\s*:\s*)+`)

// stripPrefixes removes any run of reply/forward markers from the start.
func stripPrefixes(v any) any {
	return strings.TrimSpace(replyPrefixes.ReplaceAllString(Stringify(v), ""))
}

func firstLine(v any) any {
	s := strings.TrimSpace(Stringify(v))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

var lineBreaks = regexp.MustCompile(`\s*\r?\n\s*`)

func joinLines(v any) any {
	return strings.TrimSpace(lineBreaks.ReplaceAllString(Stringify(v), " "))
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	headTag           = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table)[^>]*>`)
	brTags            = regexp.MustCompile(`(?i)<br\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t]+`)
)

func htmlToText(v any) any {
	return HTMLToText(Stringify(v))
}

// HTMLToText strips markup and returns readable text, one block per line.
func HTMLToText(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	content = openBlockElements.ReplaceAllString(content, "\n")
	content = blockElements.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")

	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
