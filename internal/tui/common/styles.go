// Package common provides shared TUI components and styling for the
// specfuzzer upload screen and watch monitor.
package common

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorPrimary = lipgloss.Color("#4A9EFF")
	ColorSuccess = lipgloss.Color("#22C55E")
	ColorDanger  = lipgloss.Color("#EF4444")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorWhite   = lipgloss.Color("#F9FAFB")
	ColorDim     = lipgloss.Color("#9CA3AF")
	ColorTile    = lipgloss.Color("#64748B") // tile label slate
)

// Text styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	LabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorDim).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorDim)
)

// Layout styles.
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorMuted)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorDim).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(ColorMuted)

	// DropZoneStyle is the idle drop target. DropZoneActiveStyle replaces it
	// while a drag hovers over it.
	DropZoneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 2).
			Align(lipgloss.Center)

	DropZoneActiveStyle = DropZoneStyle.
				BorderForeground(ColorPrimary).
				Foreground(ColorPrimary)

	TileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1).
			Width(17)

	TileLabelStyle = lipgloss.NewStyle().Foreground(ColorTile)
	TileValueStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite)

	BannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorDanger).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorDanger).
			PaddingLeft(1)
)

// Input prompt styles: show cursor indicator only when focused.
var (
	FocusedPrompt = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Render("▸ ")
	BlurredPrompt = "  "
)
