package wizard

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/specfuzzer/specfuzzer/internal/config"
)

// Page is one step of the wizard.
type Page interface {
	Title() string
	Init() tea.Cmd
	Update(msg tea.Msg) (Page, tea.Cmd)
	// View draws the page body; the wizard adds the header and footer.
	View() string

	// Validate runs every field validator and leaves inline errors behind.
	Validate() bool
	// Apply copies the page's values into cfg.
	Apply(cfg *config.Config)

	SetSize(w, h int)
	// Focus is called whenever the page becomes the current step.
	Focus() tea.Cmd
}

// fieldNavMsg marks a key the page consumed to move between its own fields.
// Any non-nil cmd from a page means it kept the key; nil means it is done.
type fieldNavMsg struct{}

func fieldNav() tea.Msg { return fieldNavMsg{} }
