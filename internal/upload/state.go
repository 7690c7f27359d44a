// Package upload owns the upload lifecycle: a single immutable State value,
// the pure Transition function that replaces it, and a Controller that drives
// requests against the analysis service.
package upload

import (
	"github.com/specfuzzer/specfuzzer/pkg/report"
)

// Phase is the lifecycle phase of the upload workflow.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseUploading
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseUploading:
		return "uploading"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the single authoritative value describing the workflow. It is
// never mutated; Transition returns a new value. At most one of Report and
// Message is set. While uploading, the state still carries whatever report or
// error was displayed before the file was handed off.
type State struct {
	phase    Phase
	report   *report.Report
	message  string
	fileName string
	seq      uint64
	inFlight int
}

// Idle returns the initial state.
func Idle() State {
	return State{}
}

func (s State) Phase() Phase { return s.phase }

// Report returns the displayed report, or nil.
func (s State) Report() *report.Report { return s.report }

// Message returns the displayed error message, or "".
func (s State) Message() string { return s.message }

// FileName is the name of the most recently handed-off file.
func (s State) FileName() string { return s.fileName }

// Seq is the sequence number of the most recent hand-off.
func (s State) Seq() uint64 { return s.seq }

// InFlight counts requests that have been issued but not resolved. More than
// one means the responses race and the last to arrive wins.
func (s State) InFlight() int { return s.inFlight }

func (s State) Uploading() bool { return s.phase == PhaseUploading }

// Event is an input to Transition.
type Event interface {
	event()
}

// Selected records that a file was handed off for upload.
type Selected struct {
	Seq      uint64
	FileName string
}

// Resolved records a successful response carrying a well-formed report.
type Resolved struct {
	Seq    uint64
	Report *report.Report
}

// Rejected records a failed request with its user-visible message.
type Rejected struct {
	Seq     uint64
	Message string
}

func (Selected) event() {}
func (Resolved) event() {}
func (Rejected) event() {}

// Transition returns the state that follows s after e. Responses apply in
// arrival order regardless of which request they belong to, so overlapping
// uploads resolve last-response-wins.
func Transition(s State, e Event) State {
	switch e := e.(type) {
	case Selected:
		return State{
			phase:    PhaseUploading,
			report:   s.report,
			message:  s.message,
			fileName: e.FileName,
			seq:      e.Seq,
			inFlight: s.inFlight + 1,
		}
	case Resolved:
		return State{
			phase:    PhaseSucceeded,
			report:   e.Report,
			fileName: s.fileName,
			seq:      s.seq,
			inFlight: settle(s.inFlight),
		}
	case Rejected:
		return State{
			phase:    PhaseFailed,
			message:  e.Message,
			fileName: s.fileName,
			seq:      s.seq,
			inFlight: settle(s.inFlight),
		}
	default:
		return s
	}
}

func settle(n int) int {
	if n > 0 {
		return n - 1
	}
	return 0
}
