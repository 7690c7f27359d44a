package upload

import (
	"testing"

	"github.com/specfuzzer/specfuzzer/pkg/report"
)

func sampleReport(tests int, endpoints ...string) *report.Report {
	r := &report.Report{
		Summary:  report.Summary{Tests: tests, Issues: len(endpoints), Severity: map[string]int{}},
		Findings: []report.Finding{},
	}
	for _, ep := range endpoints {
		r.Findings = append(r.Findings, report.Finding{Endpoint: ep, Method: "GET", Severity: report.SeverityLow})
	}
	return r
}

// ---------------------------------------------------------------------------
// Idle
// ---------------------------------------------------------------------------

func TestIdle(t *testing.T) {
	s := Idle()
	if s.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle", s.Phase())
	}
	if s.Report() != nil || s.Message() != "" || s.FileName() != "" {
		t.Error("idle state should carry nothing")
	}
	if s.InFlight() != 0 || s.Seq() != 0 {
		t.Errorf("idle counters = (%d, %d), want zero", s.InFlight(), s.Seq())
	}
}

// ---------------------------------------------------------------------------
// Transition
// ---------------------------------------------------------------------------

func TestTransition_SelectedFromAnyState(t *testing.T) {
	prior := sampleReport(3, "/a")
	states := map[string]State{
		"idle":      Idle(),
		"succeeded": Transition(Transition(Idle(), Selected{Seq: 1, FileName: "a.yaml"}), Resolved{Seq: 1, Report: prior}),
		"failed":    Transition(Transition(Idle(), Selected{Seq: 1, FileName: "a.yaml"}), Rejected{Seq: 1, Message: "boom"}),
	}
	for name, s := range states {
		t.Run(name, func(t *testing.T) {
			next := Transition(s, Selected{Seq: 2, FileName: "b.json"})
			if next.Phase() != PhaseUploading {
				t.Errorf("phase = %v, want uploading", next.Phase())
			}
			if !next.Uploading() {
				t.Error("Uploading() should be true")
			}
			if next.FileName() != "b.json" || next.Seq() != 2 {
				t.Errorf("file/seq = %q/%d", next.FileName(), next.Seq())
			}
			// Prior report or error stays displayed until the new result lands.
			if next.Report() != s.Report() {
				t.Error("report should be kept while uploading")
			}
			if next.Message() != s.Message() {
				t.Error("message should be kept while uploading")
			}
		})
	}
}

func TestTransition_ResolvedReplacesReport(t *testing.T) {
	first := sampleReport(10, "/a", "/b")
	second := sampleReport(4, "/c")

	s := Transition(Idle(), Selected{Seq: 1, FileName: "a.yaml"})
	s = Transition(s, Resolved{Seq: 1, Report: first})
	s = Transition(s, Selected{Seq: 2, FileName: "b.yaml"})
	s = Transition(s, Resolved{Seq: 2, Report: second})

	if s.Phase() != PhaseSucceeded {
		t.Fatalf("phase = %v, want succeeded", s.Phase())
	}
	if s.Report() != second {
		t.Error("second report should fully replace the first")
	}
	if len(s.Report().Findings) != 1 {
		t.Errorf("findings = %d, want 1 (no merging)", len(s.Report().Findings))
	}
}

func TestTransition_ResolvedClearsError(t *testing.T) {
	s := Transition(Idle(), Selected{Seq: 1})
	s = Transition(s, Rejected{Seq: 1, Message: "invalid spec"})
	s = Transition(s, Selected{Seq: 2})
	s = Transition(s, Resolved{Seq: 2, Report: sampleReport(1)})
	if s.Message() != "" {
		t.Errorf("message = %q, want cleared", s.Message())
	}
	if s.Report() == nil {
		t.Error("report should be set")
	}
}

func TestTransition_RejectedClearsReport(t *testing.T) {
	s := Transition(Idle(), Selected{Seq: 1})
	s = Transition(s, Resolved{Seq: 1, Report: sampleReport(10, "/a")})
	s = Transition(s, Selected{Seq: 2})
	if s.Report() == nil {
		t.Fatal("report should remain displayed while uploading")
	}
	s = Transition(s, Rejected{Seq: 2, Message: "invalid spec"})

	if s.Phase() != PhaseFailed {
		t.Errorf("phase = %v, want failed", s.Phase())
	}
	if s.Report() != nil {
		t.Error("failed transition must clear the report")
	}
	if s.Message() != "invalid spec" {
		t.Errorf("message = %q", s.Message())
	}
}

func TestTransition_NeverBothReportAndMessage(t *testing.T) {
	events := []Event{
		Selected{Seq: 1}, Resolved{Seq: 1, Report: sampleReport(1)},
		Selected{Seq: 2}, Rejected{Seq: 2, Message: "x"},
		Selected{Seq: 3}, Selected{Seq: 4},
		Resolved{Seq: 4, Report: sampleReport(2)}, Rejected{Seq: 3, Message: "late"},
	}
	s := Idle()
	for i, e := range events {
		s = Transition(s, e)
		if s.Report() != nil && s.Message() != "" {
			t.Fatalf("after event %d (%T) state has both report and message", i, e)
		}
	}
}

func TestTransition_LastResponseWins(t *testing.T) {
	older := sampleReport(1, "/old")
	newer := sampleReport(2, "/new")

	s := Transition(Idle(), Selected{Seq: 1, FileName: "old.yaml"})
	s = Transition(s, Selected{Seq: 2, FileName: "new.yaml"})
	if s.InFlight() != 2 {
		t.Fatalf("in flight = %d, want 2", s.InFlight())
	}

	// The newer request resolves first, then the older one lands.
	s = Transition(s, Resolved{Seq: 2, Report: newer})
	if s.InFlight() != 1 {
		t.Errorf("in flight = %d, want 1", s.InFlight())
	}
	s = Transition(s, Resolved{Seq: 1, Report: older})

	if s.Report() != older {
		t.Error("the last response to arrive should win, even if issued earlier")
	}
	if s.InFlight() != 0 {
		t.Errorf("in flight = %d, want 0", s.InFlight())
	}
	if s.Seq() != 2 || s.FileName() != "new.yaml" {
		t.Errorf("seq/file = %d/%q, should still describe the latest hand-off", s.Seq(), s.FileName())
	}
}

func TestTransition_InFlightNeverNegative(t *testing.T) {
	s := Transition(Idle(), Rejected{Seq: 9, Message: "stray"})
	if s.InFlight() != 0 {
		t.Errorf("in flight = %d, want 0", s.InFlight())
	}
}

func TestTransition_UnknownEventIsNoop(t *testing.T) {
	s := Transition(Idle(), Selected{Seq: 1, FileName: "a"})
	if got := Transition(s, nil); got != s {
		t.Error("nil event should return the state unchanged")
	}
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		PhaseIdle:      "idle",
		PhaseUploading: "uploading",
		PhaseSucceeded: "succeeded",
		PhaseFailed:    "failed",
		Phase(99):      "unknown",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, got, want)
		}
	}
}
