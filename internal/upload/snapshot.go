package upload

import (
	"fmt"

	"github.com/specfuzzer/specfuzzer/pkg/report"
)

// Snapshot is the JSON form of a State served by the dashboard.
type Snapshot struct {
	Phase    string         `json:"phase"`
	FileName string         `json:"file_name,omitempty"`
	Seq      uint64         `json:"seq"`
	InFlight int            `json:"in_flight"`
	Message  string         `json:"message,omitempty"`
	Report   *report.Report `json:"report,omitempty"`
}

// Snapshot returns s in its wire form.
func (s State) Snapshot() Snapshot {
	return Snapshot{
		Phase:    s.phase.String(),
		FileName: s.fileName,
		Seq:      s.seq,
		InFlight: s.inFlight,
		Message:  s.message,
		Report:   s.report,
	}
}

// State rebuilds the State a snapshot was taken from.
func (sn Snapshot) State() (State, error) {
	p, err := parsePhase(sn.Phase)
	if err != nil {
		return State{}, err
	}
	if sn.Report != nil && sn.Message != "" {
		return State{}, fmt.Errorf("snapshot has both a report and a message")
	}
	return State{
		phase:    p,
		report:   sn.Report,
		message:  sn.Message,
		fileName: sn.FileName,
		seq:      sn.Seq,
		inFlight: sn.InFlight,
	}, nil
}

func parsePhase(s string) (Phase, error) {
	for p := PhaseIdle; p <= PhaseFailed; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}
