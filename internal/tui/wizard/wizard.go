// Package wizard implements the interactive setup wizard that writes the
// specfuzzer config file. It walks through the analysis service, the front
// end settings, and a review page.
package wizard

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/specfuzzer/specfuzzer/internal/config"
	"github.com/specfuzzer/specfuzzer/internal/tui/common"
	"github.com/specfuzzer/specfuzzer/pkg/buildinfo"
)

// WizardModel is the top-level Bubbletea model for the setup wizard.
type WizardModel struct {
	pages     []Page
	review    *ReviewPage
	pageIndex int
	config    *config.Config
	width     int
	height    int
	err       string
}

// NewWizardModel creates a wizard that starts from base (defaults when nil)
// and writes to path.
func NewWizardModel(path string, base *config.Config) WizardModel {
	if base == nil {
		base = config.NewDefaultConfig()
	}
	cfg := *base
	review := NewReviewPage(path)
	return WizardModel{
		pages: []Page{
			NewServicePage(&cfg),
			NewFrontEndPage(&cfg),
			review,
		},
		review: review,
		config: &cfg,
	}
}

// Written reports whether the config file was written before the wizard
// exited.
func (m WizardModel) Written() bool { return m.review.Written() }

func (m WizardModel) lastPage() int { return len(m.pages) - 1 }

// Init focuses the first page.
func (m WizardModel) Init() tea.Cmd {
	return m.pages[0].Focus()
}

// Update routes keys to the current page first. Tab, Enter and Shift+Tab
// move between steps only when the page hands them back with a nil cmd.
func (m WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		for _, p := range m.pages {
			p.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab", "enter":
			return m.navigate(msg, +1)
		case "shift+tab":
			return m.navigate(msg, -1)
		}
	}
	return m.delegateToPage(msg)
}

func (m WizardModel) navigate(msg tea.KeyMsg, dir int) (tea.Model, tea.Cmd) {
	next, cmd := m.delegateToPage(msg)
	m = next.(WizardModel)
	if cmd != nil {
		return m, cmd
	}
	switch {
	case m.pageIndex == m.lastPage() && (dir > 0 || m.review.Written()):
		// The review page owns Enter, and nothing goes back after writing.
		return m, nil
	case dir > 0:
		return m.advancePage()
	case m.pageIndex > 0:
		m.pageIndex--
		m.err = ""
		return m, m.pages[m.pageIndex].Focus()
	}
	return m, nil
}

// advancePage validates and applies the current page, then moves on. The
// review page always sees every page applied.
func (m WizardModel) advancePage() (tea.Model, tea.Cmd) {
	cur := m.pages[m.pageIndex]
	if !cur.Validate() {
		m.err = "Please fix the errors above before continuing."
		return m, nil
	}
	m.err = ""
	cur.Apply(m.config)

	m.pageIndex++
	if m.pageIndex == m.lastPage() {
		for _, p := range m.pages[:m.lastPage()] {
			p.Apply(m.config)
		}
		m.review.SetConfig(m.config)
	}
	return m, m.pages[m.pageIndex].Focus()
}

func (m WizardModel) delegateToPage(msg tea.Msg) (tea.Model, tea.Cmd) {
	page, cmd := m.pages[m.pageIndex].Update(msg)
	m.pages[m.pageIndex] = page
	return m, cmd
}

// View renders the complete wizard view.
func (m WizardModel) View() string {
	var b strings.Builder

	header := common.HeaderStyle.Render(
		common.TitleStyle.Render("specfuzzer") +
			common.MutedStyle.Render(" "+buildinfo.Version+" Setup"))
	b.WriteString(header)
	b.WriteString("\n")

	b.WriteString(renderProgress(m.pageIndex+1, len(m.pages), m.pages[m.pageIndex].Title()))
	b.WriteString("\n\n")

	b.WriteString(m.pages[m.pageIndex].View())

	if m.err != "" {
		b.WriteString("\n\n")
		b.WriteString(common.ErrorStyle.Render(m.err))
	}

	b.WriteString("\n")
	b.WriteString(common.FooterStyle.Render(renderNavHints(m.pageIndex == 0, m.pageIndex == m.lastPage())))

	return pageStyle.Render(b.String())
}
