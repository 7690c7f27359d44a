// Package report defines the structured result returned by the remote
// analysis service: aggregate counts plus an ordered list of findings.
package report

// Severity is the classification label on a Finding. Only high, medium and
// low are recognized, but any string is legal.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Known reports whether s is one of the recognized severity levels.
func (s Severity) Known() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// Report is the complete result of a server-side analysis run.
type Report struct {
	Summary  Summary   `json:"summary"`
	Findings []Finding `json:"findings"`
}

// Summary holds the aggregate counts of a Report.
type Summary struct {
	Tests    int            `json:"tests"`
	Issues   int            `json:"issues"`
	Severity map[string]int `json:"severity"`
}

// Count returns the number of findings at the given severity. Keys the
// service omitted count as zero.
func (s Summary) Count(sev Severity) int {
	return s.Severity[string(sev)]
}

// Finding is one detected issue tied to an endpoint/method pair.
type Finding struct {
	Endpoint    string         `json:"endpoint"`
	Method      string         `json:"method"`
	Severity    Severity       `json:"severity"`
	Description string         `json:"description"`
	Details     FindingDetails `json:"details"`
}

// FindingDetails carries the execution outcome behind a Finding.
type FindingDetails struct {
	ExpectedStatus int            `json:"expected_status"`
	ActualStatus   *int           `json:"actual_status,omitempty"`
	Status         string         `json:"status"`
	Error          *string        `json:"error,omitempty"`
	Payload        map[string]any `json:"payload"`
}
