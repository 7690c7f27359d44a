package common

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/specfuzzer/specfuzzer/internal/render"
)

// ---------------------------------------------------------------------------
// RenderTiles
// ---------------------------------------------------------------------------

func sampleSummary() render.Summary {
	return render.Summary{
		Visible: true,
		Tiles: []render.Tile{
			{Label: "Tests", Value: "10"},
			{Label: "Issues", Value: "2"},
			{Label: "High Severity", Value: "1"},
			{Label: "Medium Severity", Value: "0"},
			{Label: "Low Severity", Value: "1"},
		},
	}
}

func TestRenderTiles_Hidden(t *testing.T) {
	if got := RenderTiles(render.Summary{Tiles: sampleSummary().Tiles}, 120); got != "" {
		t.Errorf("hidden summary should render nothing, got %q", got)
	}
}

func TestRenderTiles_ContainsLabelsAndValues(t *testing.T) {
	got := RenderTiles(sampleSummary(), 200)
	for _, want := range []string{"Tests", "10", "Issues", "High Severity", "Medium Severity", "Low Severity"} {
		if !strings.Contains(got, want) {
			t.Errorf("tiles missing %q", want)
		}
	}
}

func TestRenderTiles_Wraps(t *testing.T) {
	wide := RenderTiles(sampleSummary(), 500)
	narrow := RenderTiles(sampleSummary(), 40)
	if lipgloss.Height(narrow) <= lipgloss.Height(wide) {
		t.Errorf("narrow layout height %d should exceed wide %d", lipgloss.Height(narrow), lipgloss.Height(wide))
	}
	if lipgloss.Width(narrow) > 40 {
		t.Errorf("narrow layout width = %d, want <= 40", lipgloss.Width(narrow))
	}
}

// ---------------------------------------------------------------------------
// RenderFindings
// ---------------------------------------------------------------------------

func TestRenderFindings_Modes(t *testing.T) {
	tests := []struct {
		name string
		in   render.Findings
		want string
	}{
		{"hidden", render.Findings{Mode: render.ModeHidden}, ""},
		{"running", render.Findings{Mode: render.ModeRunning, Message: render.RunningText}, render.RunningText},
		{"empty", render.Findings{Mode: render.ModeEmpty, Message: render.NoIssuesText}, render.NoIssuesText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderFindings(tt.in, 100)
			if tt.want == "" {
				if got != "" {
					t.Errorf("got %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("got %q, want substring %q", got, tt.want)
			}
		})
	}
}

func TestRenderFindings_TableKeepsOrder(t *testing.T) {
	v := render.Findings{Mode: render.ModeTable, Rows: []render.Row{
		{Endpoint: "/zebra", Method: "GET", Severity: "low", Style: render.StyleFor("low"), Expected: "200", Actual: render.AbsentStatus, Status: "error"},
		{Endpoint: "/alpha", Method: "POST", Severity: "weird", Style: render.StyleFor("weird"), Expected: "400", Actual: "500", Status: "failed"},
	}}
	got := RenderFindings(v, 0)
	for _, col := range render.Columns {
		if !strings.Contains(got, col) {
			t.Errorf("table missing header %q", col)
		}
	}
	z, a := strings.Index(got, "/zebra"), strings.Index(got, "/alpha")
	if z < 0 || a < 0 || z > a {
		t.Errorf("rows out of order (zebra at %d, alpha at %d)", z, a)
	}
	if !strings.Contains(got, render.AbsentStatus) {
		t.Error("absent actual status should render as a dash")
	}
	if !strings.Contains(got, "weird") {
		t.Error("unknown severity should still render")
	}
}

// ---------------------------------------------------------------------------
// SeverityBadge / RenderBanner
// ---------------------------------------------------------------------------

func TestSeverityBadge(t *testing.T) {
	if got := SeverityBadge(render.StyleFor("high"), "high"); !strings.Contains(got, "high") {
		t.Errorf("badge = %q", got)
	}
	if got := SeverityBadge(render.StyleFor(""), ""); !strings.Contains(got, "?") {
		t.Errorf("empty severity badge = %q, want placeholder", got)
	}
}

func TestRenderBanner(t *testing.T) {
	if RenderBanner("") != "" {
		t.Error("empty message should render nothing")
	}
	if got := RenderBanner("invalid spec"); !strings.Contains(got, "invalid spec") {
		t.Errorf("banner = %q", got)
	}
}

// ---------------------------------------------------------------------------
// TextInput
// ---------------------------------------------------------------------------

func TestTextInput_FocusBlur(t *testing.T) {
	p := NewTextInput("Drop zone", "/path/to/spec.yaml", ".yaml or .json")
	if p.Focused() {
		t.Error("new input should start blurred")
	}
	p.Focus()
	if !p.Focused() {
		t.Error("Focus() should focus")
	}
	if p.Input.Prompt != FocusedPrompt {
		t.Error("focused prompt not applied")
	}
	p.Blur()
	if p.Focused() || p.Input.Prompt != BlurredPrompt {
		t.Error("Blur() should restore blurred state")
	}
}

func TestTextInput_TypingClearsError(t *testing.T) {
	p := NewTextInput("Drop zone", "", "")
	p.Focus()
	p.Err = "file not found"
	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/tmp/a.yaml")})
	if p.Err != "" {
		t.Errorf("Err = %q, want cleared on edit", p.Err)
	}
	if p.Value() != "/tmp/a.yaml" {
		t.Errorf("Value = %q", p.Value())
	}
	p.Reset()
	if p.Value() != "" {
		t.Error("Reset should clear the value")
	}
}

func TestTextInput_View(t *testing.T) {
	p := NewTextInput("Drop zone", "", ".yaml or .json")
	p.Err = "boom"
	v := p.View()
	for _, want := range []string{"Drop zone", ".yaml or .json", "! boom"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q: %q", want, v)
		}
	}
}

func TestTextInput_RunValidation(t *testing.T) {
	p := NewTextInput("Backend URL", "", "")
	if !p.RunValidation() {
		t.Error("no validator should always pass")
	}

	p.Validate = func(s string) error {
		if s == "" {
			return errors.New("required")
		}
		return nil
	}
	p.Input.SetValue("   ")
	if p.RunValidation() {
		t.Error("blank value should fail after trimming")
	}
	if p.Err != "required" {
		t.Errorf("Err = %q", p.Err)
	}
	p.Input.SetValue("http://localhost:8000")
	if !p.RunValidation() || p.Err != "" {
		t.Errorf("valid value should pass and clear Err, got %q", p.Err)
	}
}
