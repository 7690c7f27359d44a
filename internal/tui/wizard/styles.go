package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/specfuzzer/specfuzzer/internal/tui/common"
)

var (
	pageStyle = lipgloss.NewStyle().Padding(0, 2)

	stepStyle     = lipgloss.NewStyle().Bold(true).Foreground(common.ColorPrimary)
	stepTodoStyle = lipgloss.NewStyle().Foreground(common.ColorMuted)
	stepNameStyle = lipgloss.NewStyle().Foreground(common.ColorWhite)
	hintsStyle    = lipgloss.NewStyle().Foreground(common.ColorDim)
)

// renderProgress draws one marker per step followed by "Step N of M: Title".
func renderProgress(current, total int, title string) string {
	marks := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		switch {
		case i < current:
			marks = append(marks, common.SuccessStyle.Render("●"))
		case i == current:
			marks = append(marks, stepStyle.Render("●"))
		default:
			marks = append(marks, stepTodoStyle.Render("○"))
		}
	}
	return strings.Join(marks, " ") + "  " +
		stepStyle.Render(fmt.Sprintf("Step %d of %d", current, total)) +
		stepNameStyle.Render(": "+title)
}

func renderNavHints(first, last bool) string {
	var hints []string
	if !first {
		hints = append(hints, "Shift+Tab=Back")
	}
	if last {
		hints = append(hints, "Enter=Write")
	} else {
		hints = append(hints, "Tab/Enter=Next", "Space=Toggle")
	}
	hints = append(hints, "Ctrl+C=Quit")
	return hintsStyle.Render(strings.Join(hints, "  "))
}
