package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/custodia-labs/mailpage/internal/core/domain"
	"github.com/custodia-labs/mailpage/internal/core/ports/driving"
)

var (
	propertyStyle = lipgloss.NewStyle().Bold(true)
	typeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	requiredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	hintStyle     = lipgloss.NewStyle().Faint(true).Italic(true)
	sectionStyle  = lipgloss.NewStyle().PaddingLeft(2)
	headerStyle   = lipgloss.NewStyle().Bold(true).PaddingRight(2)
	cellStyle     = lipgloss.NewStyle().PaddingRight(2)
)

// renderTable lays rows out in aligned columns without borders. headers may
// be nil.
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Rows(rows...)
	if len(headers) > 0 {
		t = t.Headers(headers...)
	}
	return t.String()
}

// renderForms renders configuration forms as terminal text, one section per
// property. Each control shows the key 'mappings set' accepts for it.
func renderForms(forms []driving.FieldForm) string {
	var b strings.Builder
	for i, form := range forms {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderForm(form))
	}
	return b.String()
}

func renderForm(form driving.FieldForm) string {
	head := propertyStyle.Render(form.Field.Name) + " " + typeStyle.Render("("+form.Field.Type.Label()+")")
	if form.Field.Required {
		head += " " + requiredStyle.Render("required")
	}

	var lines []string
	for _, w := range form.Widgets {
		if line := renderWidget(w); line != "" {
			lines = append(lines, line)
		}
	}
	return head + "\n" + sectionStyle.Render(strings.Join(lines, "\n")) + "\n"
}

func renderWidget(w domain.Widget) string {
	key := ""
	if w.Name != "" && !w.Disabled {
		key = " " + keyStyle.Render("["+w.Name+"]")
	}

	// Headers repeat the property line.
	switch w.Kind {
	case domain.WidgetHint:
		return hintStyle.Render(w.Hint)
	case domain.WidgetCheckbox:
		mark := "[ ]"
		if w.Checked {
			mark = "[x]"
		}
		return fmt.Sprintf("%s %s%s", mark, w.Label, key)
	case domain.WidgetDropdown:
		return fmt.Sprintf("%s: %s%s%s", w.Label, selectedLabel(w), key, choices(w))
	case domain.WidgetMultiSelect:
		return fmt.Sprintf("%s: %s%s%s", w.Label, strings.Join(selectedLabels(w), ", "), key, choices(w))
	case domain.WidgetTextInput:
		value := w.Value
		if value == "" {
			value = "(empty)"
		}
		line := fmt.Sprintf("%s: %s%s", w.Label, value, key)
		if w.Hint != "" {
			line += "\n" + hintStyle.Render(w.Hint)
		}
		return line
	default:
		return ""
	}
}

func selectedLabel(w domain.Widget) string {
	for _, o := range w.Options {
		if o.Selected || (w.Value != "" && o.Value == w.Value) {
			return o.Label
		}
	}
	return "(none)"
}

func selectedLabels(w domain.Widget) []string {
	var out []string
	for _, o := range w.Options {
		if o.Selected {
			out = append(out, o.Label)
		}
	}
	if len(out) == 0 {
		return []string{"(none)"}
	}
	return out
}

func choices(w domain.Widget) string {
	if len(w.Options) == 0 || w.Disabled {
		return ""
	}
	values := make([]string, 0, len(w.Options))
	for _, o := range w.Options {
		if o.Value != "" {
			values = append(values, o.Value)
		}
	}
	if len(values) == 0 {
		return ""
	}
	return "\n" + hintStyle.Render("  one of: "+strings.Join(values, ", "))
}

// formValues returns the submitted form the widgets currently describe.
func formValues(form driving.FieldForm) domain.FormInput {
	input := domain.FormInput{}
	for _, w := range form.Widgets {
		if w.Name == "" || w.Disabled {
			continue
		}
		switch w.Kind {
		case domain.WidgetCheckbox:
			if w.Checked {
				input[w.Name] = []string{"true"}
			} else {
				input[w.Name] = []string{"false"}
			}
		case domain.WidgetDropdown:
			value := w.Value
			for _, o := range w.Options {
				if o.Selected {
					value = o.Value
					break
				}
			}
			input[w.Name] = []string{value}
		case domain.WidgetMultiSelect:
			var values []string
			for _, o := range w.Options {
				if o.Selected {
					values = append(values, o.Value)
				}
			}
			input[w.Name] = values
		case domain.WidgetTextInput:
			input[w.Name] = []string{w.Value}
		}
	}
	return input
}
