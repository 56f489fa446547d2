// internal/tui/forms.go
//
// Small multi-field input forms built on bubbles textinput. The app drives
// focus with enter/tab and submits on enter from the last field.

package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type formKind int

const (
	formComplete formKind = iota
	formRecognize
	formAddModule
	formGoal
)

type formField struct {
	label       string
	placeholder string
	initial     string
}

type form struct {
	kind   formKind
	title  string
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(kind formKind, title string, fields ...formField) *form {
	f := &form{kind: kind, title: title}
	for i, field := range fields {
		ti := textinput.New()
		ti.Placeholder = field.placeholder
		ti.CharLimit = 64
		ti.Width = 32
		if field.initial != "" {
			ti.SetValue(field.initial)
		}
		if i == 0 {
			ti.Focus()
		}
		f.labels = append(f.labels, field.label)
		f.inputs = append(f.inputs, ti)
	}
	return f
}

// Update forwards the message to the focused input.
func (f *form) Update(msg tea.Msg) tea.Cmd {
	if f == nil || len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// advance moves focus to the next field; it returns true when focus was
// already on the last field, i.e. the form should submit.
func (f *form) advance() bool {
	if f.focus >= len(f.inputs)-1 {
		return true
	}
	f.inputs[f.focus].Blur()
	f.focus++
	f.inputs[f.focus].Focus()
	return false
}

func (f *form) retreat() {
	if f.focus == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	f.focus--
	f.inputs[f.focus].Focus()
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f *form) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(f.title))
	b.WriteString("\n\n")
	for i, ti := range f.inputs {
		label := f.labels[i]
		if i == f.focus {
			label = lipgloss.NewStyle().Bold(true).Render(label)
		}
		fmt.Fprintf(&b, "%s\n%s\n\n", label, ti.View())
	}
	b.WriteString(mutedStyle.Render("Enter → next/submit    Esc → cancel"))
	return b.String()
}

// parseDecimal accepts both decimal separators; grades are commonly typed
// with a comma.
func parseDecimal(raw string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %s", raw)
	}
	return v, nil
}
