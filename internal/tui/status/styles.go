package status

import "github.com/charmbracelet/lipgloss"

// Phase colors match the web dashboard.
var (
	colorPass = lipgloss.Color("#22C55E")
	colorBusy = lipgloss.Color("#4A9EFF")
	colorFail = lipgloss.Color("#EF4444")
	colorIdle = lipgloss.Color("#6B7280")
)

var (
	passStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPass)
	busyStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBusy)
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(colorFail)
	idleStyle = lipgloss.NewStyle().Foreground(colorIdle)
)
