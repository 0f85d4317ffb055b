package transforms

import (
	"time"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driving"
	"github.com/custodia-labs/mailpage/internal/logger"
)

// Ensure Registry implements the interface.
var _ driving.TransformationCatalog = (*Registry)(nil)

// None is the identity transform every type supports.
const None = "none"

// Func transforms one value.
type Func func(value any) any

// Transform is a named, labelled transform.
type Transform struct {
	Name  string
	Label string
	Fn    Func
}

// Registry maps transform names to functions and property types to the
// transforms they advertise.
type Registry struct {
	transforms map[string]Transform
	byType     map[domain.FieldType][]string
	now        func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock sets the clock used for date fallbacks.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// New creates a registry with the built-in transforms.
func New(opts ...Option) *Registry {
	r := &Registry{
		transforms: make(map[string]Transform),
		byType:     make(map[domain.FieldType][]string),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.registerBuiltins()
	return r
}

// Register adds a transform and advertises it for the given types.
func (r *Registry) Register(t Transform, types ...domain.FieldType) {
	r.transforms[t.Name] = t
	for _, ft := range types {
		r.byType[ft] = append(r.byType[ft], t.Name)
	}
}

// OptionsFor returns the transforms valid for a property type, starting
// with the identity transform.
func (r *Registry) OptionsFor(t domain.FieldType) []domain.Option {
	opts := []domain.Option{{Label: "No transformation", Value: None}}
	for _, name := range r.byType[t] {
		tr := r.transforms[name]
		opts = append(opts, domain.Option{Label: tr.Label, Value: tr.Name})
	}
	return opts
}

// Supports returns true if name is advertised for t.
func (r *Registry) Supports(t domain.FieldType, name string) bool {
	if name == "" || name == None {
		return true
	}
	for _, n := range r.byType[t] {
		if n == name {
			return true
		}
	}
	return false
}

// Apply runs the named transform. Unknown names and the identity transform
// return value unchanged.
func (r *Registry) Apply(value any, name string) (result any) {
	if name == "" || name == None {
		return value
	}
	tr, ok := r.transforms[name]
	if !ok {
		return value
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("transform panicked", "transform", name, "panic", rec)
			result = value
		}
	}()
	return tr.Fn(value)
}

func (r *Registry) registerBuiltins() {
	text := []domain.FieldType{domain.FieldTypeTitle, domain.FieldTypeText}
	textAndMatch := []domain.FieldType{domain.FieldTypeTitle, domain.FieldTypeText, domain.FieldTypeRelation}

	r.Register(Transform{Name: "trim", Label: "Trim whitespace", Fn: trim}, textAndMatch...)
	r.Register(Transform{Name: "strip_prefixes", Label: "Strip Re:/Fwd: prefixes", Fn: stripPrefixes}, textAndMatch...)
	r.Register(Transform{Name: "html_to_text", Label: "Convert HTML to text", Fn: htmlToText}, domain.FieldTypeText)
	r.Register(Transform{Name: "first_line", Label: "First line only", Fn: firstLine}, text...)
	r.Register(Transform{Name: "join_lines", Label: "Join lines", Fn: joinLines}, domain.FieldTypeText)
	r.Register(Transform{Name: "uppercase", Label: "Uppercase", Fn: upper}, text...)
	r.Register(Transform{Name: "lowercase", Label: "Lowercase", Fn: lower}, textAndMatch...)
	r.Register(Transform{Name: "extract_email", Label: "Extract email address", Fn: extractEmail},
		domain.FieldTypeTitle, domain.FieldTypeText, domain.FieldTypeEmail, domain.FieldTypeRelation)
	r.Register(Transform{Name: "extract_name", Label: "Extract sender name", Fn: extractName}, textAndMatch...)
	r.Register(Transform{Name: "extract_domain", Label: "Extract email domain", Fn: extractDomain}, textAndMatch...)
	r.Register(Transform{Name: "extract_url", Label: "Extract first link", Fn: extractURL},
		domain.FieldTypeText, domain.FieldTypeURL)
	r.Register(Transform{Name: "extract_phone", Label: "Extract phone number", Fn: extractPhone}, domain.FieldTypePhone)
	r.Register(Transform{Name: "digits_only", Label: "Digits only", Fn: digitsOnly}, domain.FieldTypePhone)
	r.Register(Transform{Name: "to_number", Label: "Parse as number", Fn: toNumber}, domain.FieldTypeNumber)
	r.Register(Transform{Name: "count", Label: "Count items", Fn: count}, domain.FieldTypeNumber)
	r.Register(Transform{Name: "kilobytes", Label: "Bytes to kilobytes", Fn: kilobytes}, domain.FieldTypeNumber)
	r.Register(Transform{Name: "date_only", Label: "Date only (no time)", Fn: r.dateOnly},
		domain.FieldTypeTitle, domain.FieldTypeDate, domain.FieldTypeRelation)
	r.Register(Transform{Name: "date_iso", Label: "Date and time", Fn: r.dateISO},
		domain.FieldTypeText, domain.FieldTypeDate)
	r.Register(Transform{Name: "not_empty", Label: "True when not empty", Fn: notEmpty}, domain.FieldTypeCheckbox)
	r.Register(Transform{Name: "negate", Label: "Invert", Fn: negate}, domain.FieldTypeCheckbox)
}
