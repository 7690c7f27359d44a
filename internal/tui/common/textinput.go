package common

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TextInput is a labeled single-line input. The upload screen uses one as
// the drop zone, where pasting a dragged file's path fills it.
type TextInput struct {
	Label string
	Hint  string
	Input textinput.Model
	Err   string

	// Validate, when set, is run by RunValidation.
	Validate func(string) error
}

// NewTextInput creates a labeled input.
func NewTextInput(label, placeholder, hint string) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 4096
	ti.Width = 60
	ti.Prompt = BlurredPrompt
	ti.TextStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	return TextInput{
		Label: label,
		Hint:  hint,
		Input: ti,
	}
}

// Focus gives focus to this input and updates visual styling.
func (p *TextInput) Focus() tea.Cmd {
	p.Input.Prompt = FocusedPrompt
	p.Input.TextStyle = lipgloss.NewStyle().Foreground(ColorWhite)
	return p.Input.Focus()
}

// Blur removes focus from this input and updates visual styling.
func (p *TextInput) Blur() {
	p.Input.Prompt = BlurredPrompt
	p.Input.TextStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	p.Input.Blur()
}

func (p *TextInput) Focused() bool {
	return p.Input.Focused()
}

func (p *TextInput) Value() string {
	return p.Input.Value()
}

// Reset clears the value and any error.
func (p *TextInput) Reset() {
	p.Input.Reset()
	p.Err = ""
}

// Update handles input events. Editing clears the error.
func (p *TextInput) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.Input, cmd = p.Input.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		p.Err = ""
	}
	return cmd
}

// RunValidation runs Validate against the trimmed value and records the
// error. It reports whether the value is valid.
func (p *TextInput) RunValidation() bool {
	if p.Validate == nil {
		return true
	}
	if err := p.Validate(strings.TrimSpace(p.Value())); err != nil {
		p.Err = err.Error()
		return false
	}
	p.Err = ""
	return true
}

// View renders the labeled input.
func (p *TextInput) View() string {
	label := LabelStyle.Render(p.Label)
	hint := ""
	if p.Hint != "" {
		hint = " " + HintStyle.Render(p.Hint)
	}
	errLine := ""
	if p.Err != "" {
		errLine = "\n  " + ErrorStyle.Render("! "+p.Err)
	}
	inputStyle := lipgloss.NewStyle().MarginLeft(2)
	return label + hint + "\n" + inputStyle.Render(p.Input.View()) + errLine
}
