// Package status implements the terminal watch monitor. It polls a running
// dashboard's state API and renders the same summary and findings views as
// the upload screen.
package status

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/specfuzzer/specfuzzer/internal/render"
	"github.com/specfuzzer/specfuzzer/internal/tui/common"
	"github.com/specfuzzer/specfuzzer/internal/upload"
	"github.com/specfuzzer/specfuzzer/pkg/buildinfo"
)

// StatusModel is the Bubbletea model for the watch monitor.
type StatusModel struct {
	apiAddr  string
	interval time.Duration
	client   *http.Client
	viewport viewport.Model
	state    *upload.State
	lastPoll time.Time
	// changedAt is when a poll first saw a new upload sequence number.
	changedAt time.Time
	err       error
	width     int
	height    int
	ready     bool
}

// NewStatusModel creates a new watch monitor.
func NewStatusModel(apiAddr string, interval time.Duration) StatusModel {
	return StatusModel{
		apiAddr:  apiAddr,
		interval: interval,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

type (
	// pollMsg is the outcome of one state request. A nil state means the
	// request failed.
	pollMsg struct {
		state *upload.State
		err   error
	}
	tickMsg struct{}
)

func stateURL(addr string) string {
	return "http://" + addr + "/api/v1/state"
}

// fetchState reads and decodes one snapshot from the dashboard.
func fetchState(client *http.Client, addr string) (upload.State, error) {
	resp, err := client.Get(stateURL(addr))
	if err != nil {
		return upload.State{}, fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return upload.State{}, fmt.Errorf("API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var sn upload.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&sn); err != nil {
		return upload.State{}, fmt.Errorf("decode response: %w", err)
	}
	st, err := sn.State()
	if err != nil {
		return upload.State{}, fmt.Errorf("decode response: %w", err)
	}
	return st, nil
}

func pollAPI(client *http.Client, addr string) tea.Cmd {
	return func() tea.Msg {
		st, err := fetchState(client, addr)
		if err != nil {
			return pollMsg{err: err}
		}
		return pollMsg{state: &st}
	}
}

func scheduleTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return tickMsg{} })
}

// Init polls once and starts the tick loop.
func (m StatusModel) Init() tea.Cmd {
	return tea.Batch(pollAPI(m.client, m.apiAddr), scheduleTick(m.interval))
}

// Update handles messages.
func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case pollMsg:
		m.lastPoll = time.Now()
		m.err = msg.err
		if msg.err == nil {
			if m.state != nil && msg.state.Seq() != m.state.Seq() {
				m.changedAt = m.lastPoll
			}
			m.state = msg.state
		}
		m.refresh()
		return m, nil

	case tickMsg:
		return m, tea.Batch(pollAPI(m.client, m.apiAddr), scheduleTick(m.interval))

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, pollAPI(m.client, m.apiAddr)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *StatusModel) resize() {
	contentH := m.height - 6 // header and footer
	if contentH < 5 {
		contentH = 5
	}
	if !m.ready {
		m.viewport = viewport.New(m.width, contentH)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = contentH
	}
	m.refresh()
}

func (m *StatusModel) refresh() {
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
}

// View renders the watch monitor.
func (m StatusModel) View() string {
	var b strings.Builder

	header := common.HeaderStyle.Render(
		common.TitleStyle.Render("specfuzzer") +
			common.DimStyle.Render(" "+buildinfo.Version) +
			common.DimStyle.Render(" | Watch") +
			m.renderLastUpdate())
	b.WriteString(header)
	b.WriteString("\n")

	if !m.ready {
		b.WriteString("\n  Initializing...\n")
		return b.String()
	}

	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(common.FooterStyle.Render(m.renderFooter()))
	return b.String()
}

func (m StatusModel) renderLastUpdate() string {
	if m.lastPoll.IsZero() {
		return common.DimStyle.Render(" | Connecting...")
	}
	line := common.DimStyle.Render(fmt.Sprintf(" | Updated %s", m.lastPoll.Format("15:04:05")))
	if !m.changedAt.IsZero() {
		line += busyStyle.Render(fmt.Sprintf(" | New upload at %s", m.changedAt.Format("15:04:05")))
	}
	return line
}

func (m StatusModel) renderContent() string {
	var b strings.Builder
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(failStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
		b.WriteString("\n")
		b.WriteString(common.DimStyle.Render("  Press 'r' to retry. Is the dashboard running?"))
		b.WriteString("\n\n")
		if m.state != nil {
			b.WriteString(common.DimStyle.Render("  Last known state:"))
			b.WriteString("\n")
		}
	}
	if m.state == nil {
		if m.err == nil {
			b.WriteString(common.DimStyle.Render("  Waiting for first poll..."))
			b.WriteString("\n")
		}
		return b.String()
	}

	s := *m.state
	sections := []string{renderPhaseLine(s)}
	if banner := common.RenderBanner(render.Banner(s)); banner != "" {
		sections = append(sections, banner)
	}
	if tiles := common.RenderTiles(render.SummaryView(s), m.width); tiles != "" {
		sections = append(sections, tiles)
	}
	findings := render.FindingsView(s)
	table := common.RenderFindings(findings, m.width)
	if findings.Mode == render.ModeTable {
		table = renderSeverityCounts(findings.Rows) + "\n" + table
	}
	sections = append(sections, table)
	b.WriteString(strings.Join(sections, "\n\n"))
	return b.String()
}

func (m StatusModel) renderFooter() string {
	conn := passStyle.Render("Connected")
	if m.err != nil {
		conn = failStyle.Render("Disconnected")
	}
	return " [q] Quit  [r] Refresh  | " + conn + " to " + m.apiAddr +
		" every " + m.interval.String()
}
