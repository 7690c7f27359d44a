package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ErrEmptyBody is returned by Decode when there is nothing to decode.
var ErrEmptyBody = errors.New("empty response body")

// FieldError describes one missing or invalid field in a decoded report.
type FieldError struct {
	Path   string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Path + ": " + e.Reason
}

func missing(path string) error {
	return &FieldError{Path: path, Reason: "required field missing"}
}

// The wire types use pointers so an absent field can be told apart from a
// zero value.
type wireReport struct {
	Summary  *wireSummary   `json:"summary"`
	Findings *[]wireFinding `json:"findings"`
}

type wireSummary struct {
	Tests    *int            `json:"tests"`
	Issues   *int            `json:"issues"`
	Severity *map[string]int `json:"severity"`
}

type wireFinding struct {
	Endpoint    *string      `json:"endpoint"`
	Method      *string      `json:"method"`
	Severity    *string      `json:"severity"`
	Description *string      `json:"description"`
	Details     *wireDetails `json:"details"`
}

type wireDetails struct {
	ExpectedStatus *int            `json:"expected_status"`
	ActualStatus   *int            `json:"actual_status"`
	Status         *string         `json:"status"`
	Error          *string         `json:"error"`
	Payload        json.RawMessage `json:"payload"`
}

// Decode parses a service response body into a Report. Every required field
// is checked; all problems are reported together as a *multierror.Error of
// *FieldError values. Unknown fields are ignored.
func Decode(data []byte) (*Report, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyBody
	}

	var w wireReport
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}

	var merr *multierror.Error
	r := &Report{}

	if w.Summary == nil {
		merr = multierror.Append(merr, missing("summary"))
	} else {
		s, err := w.Summary.build()
		merr = multierror.Append(merr, err)
		r.Summary = s
	}

	if w.Findings == nil {
		merr = multierror.Append(merr, missing("findings"))
	} else {
		r.Findings = make([]Finding, 0, len(*w.Findings))
		for i, wf := range *w.Findings {
			f, err := wf.build(fmt.Sprintf("findings[%d]", i))
			merr = multierror.Append(merr, err)
			r.Findings = append(r.Findings, f)
		}
	}

	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return r, nil
}

func (w *wireSummary) build() (Summary, error) {
	var merr *multierror.Error
	var s Summary
	if w.Tests == nil {
		merr = multierror.Append(merr, missing("summary.tests"))
	} else {
		s.Tests = *w.Tests
	}
	if w.Issues == nil {
		merr = multierror.Append(merr, missing("summary.issues"))
	} else {
		s.Issues = *w.Issues
	}
	if w.Severity == nil {
		merr = multierror.Append(merr, missing("summary.severity"))
	} else {
		s.Severity = *w.Severity
	}
	return s, merr.ErrorOrNil()
}

func (w wireFinding) build(path string) (Finding, error) {
	var merr *multierror.Error
	var f Finding

	requireString := func(field string, v *string, dst *string) {
		if v == nil {
			merr = multierror.Append(merr, missing(path+"."+field))
			return
		}
		*dst = *v
	}
	requireString("endpoint", w.Endpoint, &f.Endpoint)
	requireString("method", w.Method, &f.Method)
	var sev string
	requireString("severity", w.Severity, &sev)
	f.Severity = Severity(sev)
	requireString("description", w.Description, &f.Description)

	if w.Details == nil {
		merr = multierror.Append(merr, missing(path+".details"))
		return f, merr.ErrorOrNil()
	}

	d := w.Details
	if d.ExpectedStatus == nil {
		merr = multierror.Append(merr, missing(path+".details.expected_status"))
	} else {
		f.Details.ExpectedStatus = *d.ExpectedStatus
	}
	if d.Status == nil {
		merr = multierror.Append(merr, missing(path+".details.status"))
	} else {
		f.Details.Status = *d.Status
	}
	f.Details.ActualStatus = d.ActualStatus
	f.Details.Error = d.Error

	switch {
	case len(d.Payload) == 0:
		merr = multierror.Append(merr, missing(path+".details.payload"))
	case bytes.Equal(bytes.TrimSpace(d.Payload), []byte("null")):
	default:
		if err := json.Unmarshal(d.Payload, &f.Details.Payload); err != nil {
			merr = multierror.Append(merr, &FieldError{
				Path:   path + ".details.payload",
				Reason: "must be an object",
			})
		}
	}

	return f, merr.ErrorOrNil()
}
