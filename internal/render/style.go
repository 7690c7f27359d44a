package render

import "github.com/specfuzzer/specfuzzer/pkg/report"

// SeverityStyle describes a severity badge. Colors are #rrggbb. Background is
// the badge fill and is drawn translucent by front ends that can.
type SeverityStyle struct {
	Foreground string
	Background string
	Known      bool
}

const (
	NeutralForeground = "#334155"
	NeutralBackground = "#94a3b8"
)

var severityColors = map[report.Severity]string{
	report.SeverityHigh:   "#dc2626",
	report.SeverityMedium: "#f97316",
	report.SeverityLow:    "#16a34a",
}

// StyleFor is defined for every string. Unrecognized severities get the
// neutral style.
func StyleFor(severity string) SeverityStyle {
	if c, ok := severityColors[report.Severity(severity)]; ok {
		return SeverityStyle{Foreground: c, Background: c, Known: true}
	}
	return SeverityStyle{Foreground: NeutralForeground, Background: NeutralBackground}
}
