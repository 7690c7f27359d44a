// Package render projects an upload.State into the values both front ends
// display. Everything here is a pure function of its input.
package render

import (
	"strconv"

	"github.com/specfuzzer/specfuzzer/internal/upload"
	"github.com/specfuzzer/specfuzzer/pkg/report"
)

const (
	LoadingGlyph = "…"
	AbsentStatus = "–"

	RunningText  = "Executing tests..."
	NoIssuesText = "No issues detected."
	LoadedMarker = "✅ OpenAPI loaded"
)

// Tile is one aggregate counter.
type Tile struct {
	Label string
	Value string
}

// Summary is the five-tile aggregate view. Tiles is always populated, but
// front ends draw it only when Visible.
type Summary struct {
	Visible bool
	Loading bool
	Tiles   []Tile
}

// SummaryView returns Tests, Issues, then the High, Medium and Low counts.
// While uploading every value is LoadingGlyph.
func SummaryView(s upload.State) Summary {
	var sum report.Summary
	if r := s.Report(); r != nil {
		sum = r.Summary
	}
	v := Summary{
		Visible: s.Report() != nil,
		Loading: s.Uploading(),
		Tiles: []Tile{
			{Label: "Tests", Value: strconv.Itoa(sum.Tests)},
			{Label: "Issues", Value: strconv.Itoa(sum.Issues)},
			{Label: "High Severity", Value: strconv.Itoa(sum.Count(report.SeverityHigh))},
			{Label: "Medium Severity", Value: strconv.Itoa(sum.Count(report.SeverityMedium))},
			{Label: "Low Severity", Value: strconv.Itoa(sum.Count(report.SeverityLow))},
		},
	}
	if v.Loading {
		for i := range v.Tiles {
			v.Tiles[i].Value = LoadingGlyph
		}
	}
	return v
}

// Mode selects what the findings area shows.
type Mode uint8

const (
	ModeHidden Mode = iota
	ModeRunning
	ModeEmpty
	ModeTable
)

func (m Mode) String() string {
	switch m {
	case ModeHidden:
		return "hidden"
	case ModeRunning:
		return "running"
	case ModeEmpty:
		return "empty"
	case ModeTable:
		return "table"
	default:
		return "unknown"
	}
}

// Columns are the findings table headers, in display order.
var Columns = []string{"Endpoint", "Method", "Severity", "Description", "Expected", "Actual", "Status"}

// Row is one finding formatted for display.
type Row struct {
	// Key identifies the row as endpoint#position, so repeated endpoints stay
	// distinct.
	Key         string
	Endpoint    string
	Method      string
	Severity    string
	Style       SeverityStyle
	Description string
	Expected    string
	Actual      string
	Status      string
}

// Cells returns the row's values in Columns order.
func (r Row) Cells() []string {
	return []string{r.Endpoint, r.Method, r.Severity, r.Description, r.Expected, r.Actual, r.Status}
}

// Findings is the findings view. Message is set for ModeRunning and
// ModeEmpty; Rows only for ModeTable.
type Findings struct {
	Mode    Mode
	Message string
	Rows    []Row
}

// FindingsView returns the findings table in received order, or the
// placeholder that replaces it.
func FindingsView(s upload.State) Findings {
	if s.Uploading() {
		return Findings{Mode: ModeRunning, Message: RunningText}
	}
	r := s.Report()
	if r == nil {
		return Findings{Mode: ModeHidden}
	}
	if len(r.Findings) == 0 {
		return Findings{Mode: ModeEmpty, Message: NoIssuesText}
	}

	rows := make([]Row, len(r.Findings))
	for i, f := range r.Findings {
		actual := AbsentStatus
		if f.Details.ActualStatus != nil {
			actual = strconv.Itoa(*f.Details.ActualStatus)
		}
		rows[i] = Row{
			Key:         f.Endpoint + "#" + strconv.Itoa(i),
			Endpoint:    f.Endpoint,
			Method:      f.Method,
			Severity:    string(f.Severity),
			Style:       StyleFor(string(f.Severity)),
			Description: f.Description,
			Expected:    strconv.Itoa(f.Details.ExpectedStatus),
			Actual:      actual,
			Status:      f.Details.Status,
		}
	}
	return Findings{Mode: ModeTable, Rows: rows}
}

// Banner returns the inline error message. A failure stays displayed while
// the next request is in flight.
func Banner(s upload.State) string {
	return s.Message()
}

// IntakeLabel is the drop zone caption: "Uploading..." while a request is in
// flight, the loaded marker after a success, otherwise label.
func IntakeLabel(s upload.State, label string) string {
	switch s.Phase() {
	case upload.PhaseUploading:
		return "Uploading..."
	case upload.PhaseSucceeded:
		return LoadedMarker + ": " + label
	default:
		return label
	}
}
