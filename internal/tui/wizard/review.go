package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-multierror"

	"github.com/specfuzzer/specfuzzer/internal/config"
	"github.com/specfuzzer/specfuzzer/internal/tui/common"
)

// configWrittenMsg is sent when the config file has been written.
type configWrittenMsg struct {
	path string
	err  error
}

// ReviewPage is the final wizard page: a read-only summary, then Enter
// writes the file.
type ReviewPage struct {
	path     string
	cfg      *config.Config
	problems []string
	viewport viewport.Model
	width    int
	height   int
	writing  bool
	written  bool
	writeErr error
}

// NewReviewPage creates the review page for a config written to path.
func NewReviewPage(path string) *ReviewPage {
	return &ReviewPage{
		path:     path,
		viewport: viewport.New(80, 20),
	}
}

func (p *ReviewPage) Title() string { return "Review & Write" }

func (p *ReviewPage) Init() tea.Cmd { return nil }

func (p *ReviewPage) Focus() tea.Cmd { return nil }

func (p *ReviewPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	contentH := h - 6
	if contentH < 5 {
		contentH = 5
	}
	p.viewport.Width = w - 4
	p.viewport.Height = contentH
}

// SetConfig validates the accumulated config and refreshes the summary.
func (p *ReviewPage) SetConfig(cfg *config.Config) {
	p.cfg = cfg
	p.problems = nil
	if err := cfg.Validate(); err != nil {
		var merr *multierror.Error
		if errors.As(err, &merr) {
			for _, e := range merr.Errors {
				p.problems = append(p.problems, e.Error())
			}
		} else {
			p.problems = []string{err.Error()}
		}
	}
	p.viewport.SetContent(p.renderSummary())
	p.viewport.GotoTop()
}

// Written reports whether the file was written.
func (p *ReviewPage) Written() bool { return p.written }

func (p *ReviewPage) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case configWrittenMsg:
		p.writing = false
		p.writeErr = msg.err
		p.written = msg.err == nil
		return p, nil

	case tea.KeyMsg:
		if p.written {
			switch msg.String() {
			case "enter", "q", "esc":
				return p, tea.Quit
			}
			return p, nil
		}
		if msg.String() == "enter" && !p.writing && len(p.problems) == 0 && p.cfg != nil {
			p.writing = true
			path, cfg := p.path, p.cfg
			return p, func() tea.Msg {
				return configWrittenMsg{path: path, err: config.WriteConfig(path, cfg)}
			}
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *ReviewPage) Validate() bool { return len(p.problems) == 0 }

func (p *ReviewPage) Apply(cfg *config.Config) {}

func (p *ReviewPage) View() string {
	var b strings.Builder
	b.WriteString(p.viewport.View())
	b.WriteString("\n\n")
	switch {
	case p.written:
		b.WriteString(common.SuccessStyle.Render("✓ Wrote " + p.path))
		b.WriteString("\n")
		b.WriteString(common.HintStyle.Render("Start the upload screen with: tui upload --config " + p.path))
		b.WriteString("\n")
		b.WriteString(common.HintStyle.Render("Press Enter to exit."))
	case p.writeErr != nil:
		b.WriteString(common.ErrorStyle.Render(fmt.Sprintf("Write failed: %v", p.writeErr)))
	case p.writing:
		b.WriteString(common.MutedStyle.Render("Writing " + p.path + "..."))
	case len(p.problems) > 0:
		b.WriteString(common.ErrorStyle.Render("Go back with Shift+Tab and fix the problems above."))
	default:
		b.WriteString(common.LabelStyle.Render("Press Enter to write " + p.path))
	}
	return b.String()
}

func (p *ReviewPage) renderSummary() string {
	if p.cfg == nil {
		return ""
	}
	c := p.cfg
	orNone := func(s string) string {
		if s == "" {
			return common.DimStyle.Render("(none)")
		}
		return s
	}
	rows := [][2]string{
		{"Analysis service", c.BackendURL},
		{"Target base URL", orNone(c.TargetBaseURL)},
		{"Dashboard address", c.Dashboard.Addr},
		{"Picker start dir", orNone(c.Intake.StartDir)},
		{"Exclusive uploads", strconv.FormatBool(c.Intake.ExclusiveUploads)},
		{"Log level", c.LogLevel},
		{"Log file", orNone(c.LogFile)},
	}

	var b strings.Builder
	b.WriteString(common.LabelStyle.Render("Configuration"))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("  %-20s %s\n", r[0], r[1]))
	}
	if len(p.problems) > 0 {
		b.WriteString("\n")
		b.WriteString(common.ErrorStyle.Render("Problems:"))
		b.WriteString("\n")
		for _, prob := range p.problems {
			b.WriteString(common.ErrorStyle.Render("  ✖ " + prob))
			b.WriteString("\n")
		}
	}
	return b.String()
}
