package status

import (
	"fmt"
	"strings"

	"github.com/specfuzzer/specfuzzer/internal/render"
	"github.com/specfuzzer/specfuzzer/internal/tui/common"
	"github.com/specfuzzer/specfuzzer/internal/upload"
)

// phaseIcon returns a colored icon for an upload phase.
func phaseIcon(p upload.Phase) string {
	switch p {
	case upload.PhaseSucceeded:
		return passStyle.Render("●")
	case upload.PhaseUploading:
		return busyStyle.Render("◌")
	case upload.PhaseFailed:
		return failStyle.Render("✖")
	default:
		return idleStyle.Render("○")
	}
}

// phaseLabel returns a colored phase label.
func phaseLabel(p upload.Phase) string {
	switch p {
	case upload.PhaseSucceeded:
		return passStyle.Render("DONE")
	case upload.PhaseUploading:
		return busyStyle.Render("RUNNING")
	case upload.PhaseFailed:
		return failStyle.Render("FAILED")
	default:
		return idleStyle.Render("IDLE")
	}
}

// renderPhaseLine renders the one-line workflow status.
func renderPhaseLine(s upload.State) string {
	file := s.FileName()
	if file == "" {
		file = common.DimStyle.Render("no file yet")
	}
	line := fmt.Sprintf("  %s %s  %s", phaseIcon(s.Phase()), phaseLabel(s.Phase()), file)
	if n := s.InFlight(); n > 1 {
		line += busyStyle.Render(fmt.Sprintf("  (%d in flight)", n))
	}
	return line
}

// renderSeverityCounts summarizes findings by severity badge in first-seen
// order.
func renderSeverityCounts(rows []render.Row) string {
	counts := map[string]int{}
	var order []string
	styles := map[string]render.SeverityStyle{}
	for _, r := range rows {
		if _, seen := counts[r.Severity]; !seen {
			order = append(order, r.Severity)
			styles[r.Severity] = r.Style
		}
		counts[r.Severity]++
	}
	parts := make([]string, len(order))
	for i, sev := range order {
		parts[i] = common.SeverityBadge(styles[sev], fmt.Sprintf("%d %s", counts[sev], sev))
	}
	return "  " + strings.Join(parts, "   ")
}
