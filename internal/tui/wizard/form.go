package wizard

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/specfuzzer/specfuzzer/internal/config"
	"github.com/specfuzzer/specfuzzer/internal/tui/common"
)

// field is one focusable control on a form page.
type field interface {
	Focus() tea.Cmd
	Blur()
	Update(msg tea.Msg) tea.Cmd
	View() string
	RunValidation() bool
}

// formPage is a vertical list of fields. Tab and Enter move down, Shift+Tab
// moves up; leaving either end hands control back to the wizard.
type formPage struct {
	title   string
	heading string
	fields  []field
	apply   func(cfg *config.Config)

	focus  int
	width  int
	height int
}

func (p *formPage) Title() string { return p.title }
func (p *formPage) Init() tea.Cmd { return nil }

func (p *formPage) Focus() tea.Cmd {
	p.focus = 0
	return p.updateFocus()
}

func (p *formPage) SetSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *formPage) updateFocus() tea.Cmd {
	for _, f := range p.fields {
		f.Blur()
	}
	return p.fields[p.focus].Focus()
}

func (p *formPage) Update(msg tea.Msg) (Page, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "enter":
			if p.focus < len(p.fields)-1 {
				p.focus++
				return p, tea.Batch(fieldNav, p.updateFocus())
			}
			return p, nil
		case "shift+tab":
			if p.focus > 0 {
				p.focus--
				return p, tea.Batch(fieldNav, p.updateFocus())
			}
			return p, nil
		}
	}
	return p, p.fields[p.focus].Update(msg)
}

func (p *formPage) Validate() bool {
	valid := true
	for _, f := range p.fields {
		if !f.RunValidation() {
			valid = false
		}
	}
	return valid
}

func (p *formPage) Apply(cfg *config.Config) {
	p.apply(cfg)
}

func (p *formPage) View() string {
	var b strings.Builder
	b.WriteString(common.LabelStyle.Render(p.heading))
	for _, f := range p.fields {
		b.WriteString("\n\n")
		b.WriteString(f.View())
	}
	return b.String()
}

// Toggle is a boolean field flipped with Space.
type Toggle struct {
	Label       string
	Description string
	Enabled     bool
	focused     bool
}

// NewToggle creates a toggle with the given initial value.
func NewToggle(label, description string, enabled bool) *Toggle {
	return &Toggle{Label: label, Description: description, Enabled: enabled}
}

func (t *Toggle) Focus() tea.Cmd {
	t.focused = true
	return nil
}

func (t *Toggle) Blur() { t.focused = false }

func (t *Toggle) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && t.focused {
		switch key.String() {
		case " ", "x":
			t.Enabled = !t.Enabled
		case "y":
			t.Enabled = true
		case "n":
			t.Enabled = false
		}
	}
	return nil
}

func (t *Toggle) RunValidation() bool { return true }

func (t *Toggle) View() string {
	box := "[ ]"
	if t.Enabled {
		box = "[x]"
	}
	cursor := "  "
	label := common.MutedStyle.Render(t.Label)
	if t.focused {
		cursor = common.TitleStyle.Render("▸ ")
		label = common.LabelStyle.Render(t.Label)
	}
	return cursor + box + " " + label + "\n    " + common.HintStyle.Render(t.Description)
}
