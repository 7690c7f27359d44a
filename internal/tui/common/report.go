package common

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/specfuzzer/specfuzzer/internal/render"
)

// SeverityBadge renders text as a badge in the given severity style. The
// terminal cannot draw the translucent fill, so only the foreground is used.
func SeverityBadge(st render.SeverityStyle, text string) string {
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(st.Foreground))
	if st.Known {
		s = s.Bold(true)
	}
	if text == "" {
		text = "?"
	}
	return s.Render(text)
}

// RenderTiles draws the summary tiles side by side, wrapping to the next line
// when width is too narrow. It returns "" when the summary is not visible.
func RenderTiles(v render.Summary, width int) string {
	if !v.Visible {
		return ""
	}
	tiles := make([]string, len(v.Tiles))
	for i, t := range v.Tiles {
		tiles[i] = TileStyle.Render(TileLabelStyle.Render(t.Label) + "\n" + TileValueStyle.Render(t.Value))
	}

	var rows []string
	var line []string
	lineW := 0
	for _, t := range tiles {
		w := lipgloss.Width(t)
		if width > 0 && lineW > 0 && lineW+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
			line, lineW = nil, 0
		}
		line = append(line, t)
		lineW += w
	}
	if len(line) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}
	return strings.Join(rows, "\n")
}

// RenderFindings draws the findings table, or the placeholder line that
// replaces it. It returns "" in ModeHidden.
func RenderFindings(v render.Findings, width int) string {
	switch v.Mode {
	case render.ModeRunning:
		return DimStyle.Render(v.Message)
	case render.ModeEmpty:
		return SuccessStyle.Render(v.Message + " 🎯")
	case render.ModeTable:
	default:
		return ""
	}

	rows := make([][]string, len(v.Rows))
	for i, r := range v.Rows {
		rows[i] = r.Cells()
	}
	const severityCol = 2
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(MutedStyle).
		Headers(render.Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return base.Bold(true).Foreground(ColorTile)
			}
			if col == severityCol && row >= 0 && row < len(v.Rows) {
				st := v.Rows[row].Style
				base = base.Foreground(lipgloss.Color(st.Foreground))
				if st.Known {
					base = base.Bold(true)
				}
			}
			return base
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}

// RenderBanner draws the inline error message, or "" when there is none.
func RenderBanner(msg string) string {
	if msg == "" {
		return ""
	}
	return BannerStyle.Render(msg)
}
