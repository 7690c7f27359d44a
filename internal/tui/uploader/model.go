// Package uploader implements the terminal upload screen: a file picker and a
// drop zone feeding the upload state machine, with the report rendered below.
package uploader

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/specfuzzer/specfuzzer/internal/intake"
	"github.com/specfuzzer/specfuzzer/internal/render"
	"github.com/specfuzzer/specfuzzer/internal/tui/common"
	"github.com/specfuzzer/specfuzzer/internal/upload"
	"github.com/specfuzzer/specfuzzer/pkg/analysis"
	"github.com/specfuzzer/specfuzzer/pkg/buildinfo"
	"github.com/specfuzzer/specfuzzer/pkg/report"
)

const (
	pickerHeight  = 8
	healthTimeout = 5 * time.Second
)

type focusArea int

const (
	focusPicker focusArea = iota
	focusDrop
)

type health int

const (
	healthUnknown health = iota
	healthUp
	healthDown
)

// Config holds what the upload screen needs from the command line.
type Config struct {
	Submitter upload.Submitter
	// Health probes the analysis service. Nil hides the indicator.
	Health     func(context.Context) error
	BackendURL string
	StartDir   string
	Exclusive  bool
	// Files are offered as a browse selection on start. Only the first is
	// uploaded.
	Files  []string
	Logger *zap.Logger
}

// Model is the Bubbletea model for the upload screen.
type Model struct {
	submitter  upload.Submitter
	healthFn   func(context.Context) error
	backendURL string
	exclusive  bool
	initial    []string
	logger     *zap.Logger

	intake *intake.Intake
	state  upload.State
	seq    uint64

	focus    focusArea
	picker   filepicker.Model
	drop     common.TextInput
	spinner  spinner.Model
	viewport viewport.Model

	health health
	notice string
	width  int
	height int
	ready  bool
}

// resultMsg carries the outcome of one request.
type resultMsg struct {
	seq    uint64
	report *report.Report
	err    error
}

// healthMsg carries the analysis service probe result.
type healthMsg struct{ err error }

// initialMsg offers the command-line files as a browse selection.
type initialMsg struct{ paths []string }

// NewModel creates the upload screen in the Idle state.
func NewModel(cfg Config) Model {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	fp := filepicker.New()
	fp.AllowedTypes = intake.AcceptedExtensions
	fp.CurrentDirectory = cfg.StartDir
	if fp.CurrentDirectory == "" {
		if wd, err := os.Getwd(); err == nil {
			fp.CurrentDirectory = wd
		}
	}
	fp.Height = pickerHeight
	fp.AutoHeight = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(common.ColorPrimary)

	return Model{
		submitter:  cfg.Submitter,
		healthFn:   cfg.Health,
		backendURL: cfg.BackendURL,
		exclusive:  cfg.Exclusive,
		initial:    cfg.Files,
		logger:     cfg.Logger,
		intake:     intake.New(intake.WithLogger(cfg.Logger)),
		state:      upload.Idle(),
		picker:     fp,
		drop:       common.NewTextInput("Drop zone", "drag a file here or paste its path", intake.ExtensionHint),
		spinner:    sp,
	}
}

// State returns the current upload state.
func (m Model) State() upload.State { return m.state }

// Init reads the start directory, probes the service and offers any
// command-line files.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.picker.Init()}
	if m.healthFn != nil {
		cmds = append(cmds, probeHealth(m.healthFn))
	}
	if len(m.initial) > 0 {
		paths := m.initial
		cmds = append(cmds, func() tea.Msg { return initialMsg{paths: paths} })
	}
	return tea.Batch(cmds...)
}

func probeHealth(fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
		defer cancel()
		return healthMsg{err: fn(ctx)}
	}
}

func submitCmd(s upload.Submitter, seq uint64, file analysis.SpecFile) tea.Cmd {
	return func() tea.Msg {
		r, err := s.Submit(context.Background(), file)
		return resultMsg{seq: seq, report: r, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case resultMsg:
		return m.resolve(msg), nil

	case healthMsg:
		if msg.err != nil {
			m.health = healthDown
			m.logger.Warn("analysis service unreachable", zap.Error(msg.err))
		} else {
			m.health = healthUp
		}
		return m, nil

	case initialMsg:
		cands := make([]intake.Candidate, len(msg.paths))
		for i, p := range msg.paths {
			cands[i] = intake.PathCandidate(p)
		}
		return m.take(func() (analysis.SpecFile, bool, error) { return m.intake.Browse(cands...) })

	case spinner.TickMsg:
		if !m.state.Uploading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd

	case tea.MouseMsg:
		return m.mouse(msg)

	case tea.KeyMsg:
		if msg.Paste {
			return m.dropText(string(msg.Runes))
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			return m.toggleFocus()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if m.focus == focusDrop {
			switch msg.String() {
			case "enter":
				return m.dropText(m.drop.Value())
			case "esc":
				return m.toggleFocus()
			}
			return m, m.drop.Update(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
	}

	var dropCmd, cmd tea.Cmd
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		dropCmd = m.drop.Update(msg)
	}
	m.picker, cmd = m.picker.Update(msg)
	cmd = tea.Batch(dropCmd, cmd)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m.browsePath(path, cmd)
	}
	// Extensions are a hint: a dimmed file is still accepted.
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		return m.browsePath(path, cmd)
	}
	return m, cmd
}

func (m Model) browsePath(path string, pickerCmd tea.Cmd) (tea.Model, tea.Cmd) {
	next, cmd := m.take(func() (analysis.SpecFile, bool, error) {
		return m.intake.Browse(intake.PathCandidate(path))
	})
	return next, tea.Batch(pickerCmd, cmd)
}

// dropText treats pasted or typed text as files dropped on the zone.
func (m Model) dropText(text string) (tea.Model, tea.Cmd) {
	paths := intake.ParseDropped(text)
	cands := make([]intake.Candidate, len(paths))
	for i, p := range paths {
		cands[i] = intake.PathCandidate(p)
	}
	m.drop.Reset()
	m.intake.SetDragging(false)
	return m.take(func() (analysis.SpecFile, bool, error) { return m.intake.Drop(cands...) })
}

// take runs a selection gesture and hands the file to the state machine. The
// transition to Uploading happens here, before the request command runs.
func (m Model) take(gesture func() (analysis.SpecFile, bool, error)) (Model, tea.Cmd) {
	m.notice = ""
	if m.exclusive && m.state.InFlight() > 0 {
		m.notice = upload.ErrBusy.Error()
		m.refresh()
		return m, nil
	}
	file, ok, err := gesture()
	if err != nil {
		// The notice is drawn whichever input has focus.
		m.notice = err.Error()
		m.logger.Info("selection failed", zap.Error(err))
		m.refresh()
		return m, nil
	}
	if !ok {
		m.refresh()
		return m, nil
	}

	m.seq++
	m.state = upload.Transition(m.state, upload.Selected{Seq: m.seq, FileName: file.Name})
	m.logger.Info("upload started",
		zap.Uint64("seq", m.seq),
		zap.String("file", file.Name),
		zap.Int("in_flight", m.state.InFlight()))
	m.refresh()
	return m, tea.Batch(submitCmd(m.submitter, m.seq, file), m.spinner.Tick)
}

func (m Model) resolve(msg resultMsg) Model {
	err := msg.err
	if err == nil && msg.report == nil {
		err = &analysis.UploadError{Kind: analysis.KindMalformed, Message: analysis.MsgMalformed}
	}
	if err != nil {
		m.state = upload.Transition(m.state, upload.Rejected{Seq: msg.seq, Message: upload.MessageFor(err)})
		m.logger.Info("upload failed", zap.Uint64("seq", msg.seq), zap.Error(err))
	} else {
		m.state = upload.Transition(m.state, upload.Resolved{Seq: msg.seq, Report: msg.report})
		m.logger.Info("upload succeeded", zap.Uint64("seq", msg.seq), zap.Int("findings", len(msg.report.Findings)))
	}
	if m.state.Seq() != msg.seq {
		m.logger.Warn("stale response replaced newer state",
			zap.Uint64("seq", msg.seq), zap.Uint64("latest_seq", m.state.Seq()))
	}
	m.refresh()
	return m
}

func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusPicker {
		m.focus = focusDrop
		return m, m.drop.Focus()
	}
	m.focus = focusPicker
	m.drop.Blur()
	return m, nil
}

// mouse tracks the pointer over the drop zone. A click on the zone opens the
// picker.
func (m Model) mouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	top := lipgloss.Height(m.headerView())
	over := msg.Y >= top && msg.Y < top+lipgloss.Height(m.zoneView())

	switch {
	case msg.Action == tea.MouseActionMotion:
		m.intake.SetDragging(over)
		return m, nil
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && over:
		if m.focus != focusPicker {
			return m.toggleFocus()
		}
		return m, nil
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) resize() {
	reserved := lipgloss.Height(m.headerView()) + lipgloss.Height(m.zoneView()) +
		pickerHeight + 2 + lipgloss.Height(m.footerView())
	contentH := m.height - reserved
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

// refresh re-renders the report area from the current state.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.reportView())
}

func (m Model) reportView() string {
	var parts []string
	if b := common.RenderBanner(render.Banner(m.state)); b != "" {
		parts = append(parts, b)
	}
	if tiles := common.RenderTiles(render.SummaryView(m.state), m.width); tiles != "" {
		parts = append(parts, tiles)
	}
	findings := render.FindingsView(m.state)
	if f := common.RenderFindings(findings, m.width); f != "" {
		if findings.Mode == render.ModeRunning {
			f = m.spinner.View() + " " + f
		}
		parts = append(parts, f)
	}
	return strings.Join(parts, "\n\n")
}

// View renders the upload screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.zoneView())
	b.WriteString("\n")

	if m.focus == focusDrop {
		b.WriteString(m.drop.View())
	} else {
		b.WriteString(m.picker.View())
	}
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(common.ErrorStyle.Render(m.notice))
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString("\n  Initializing...\n")
		return b.String()
	}
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m Model) headerView() string {
	ind := common.DimStyle.Render("○ checking")
	switch m.health {
	case healthUp:
		ind = common.SuccessStyle.Render("● connected")
	case healthDown:
		ind = common.ErrorStyle.Render("✖ unreachable")
	}
	if m.healthFn == nil {
		ind = ""
	}
	return common.HeaderStyle.Render(
		common.TitleStyle.Render("specfuzzer") +
			common.DimStyle.Render(" "+buildinfo.Version) +
			common.DimStyle.Render(" | "+m.backendURL+" ") + ind)
}

func (m Model) zoneView() string {
	style := common.DropZoneStyle
	if m.intake.Dragging() {
		style = common.DropZoneActiveStyle
	}
	label := render.IntakeLabel(m.state, m.intake.Label())
	hint := common.HintStyle.Render(intake.ExtensionHint)
	if m.state.InFlight() > 1 {
		hint = common.HintStyle.Render(fmt.Sprintf("%d uploads in flight, the last response wins", m.state.InFlight()))
	}
	w := m.width - 2
	if w < 20 {
		w = 20
	}
	return style.Width(w).Render(label + "\n" + hint)
}

func (m Model) footerView() string {
	keys := " [tab] Picker/drop zone  [enter] Upload  [pgup/pgdown] Scroll  [q] Quit"
	if m.focus == focusDrop {
		keys = " [tab/esc] Picker  [enter] Upload path  [ctrl+c] Quit"
	}
	return common.FooterStyle.Render(keys)
}
