package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/specfuzzer/specfuzzer/internal/intake"
	"github.com/specfuzzer/specfuzzer/internal/render"
	"github.com/specfuzzer/specfuzzer/internal/upload"
	"github.com/specfuzzer/specfuzzer/pkg/buildinfo"
)

var templates = template.Must(
	template.New("dashboard").Funcs(template.FuncMap{
		"badge": badgeCSS,
	}).ParseFS(templateFS, "templates/*.html"))

// viewData is everything the "view" template draws for one state.
type viewData struct {
	Phase       string
	Seq         uint64
	Label       string
	Hint        string
	Uploading   bool
	Banner      string
	Summary     render.Summary
	Columns     []string
	Rows        []render.Row
	Placeholder string
}

type pageData struct {
	Version string
	Accept  string
	View    viewData
}

func newViewData(s upload.State, in *intake.Intake) viewData {
	hint := intake.ExtensionHint
	if n := s.InFlight(); n > 1 {
		hint = fmt.Sprintf("%d uploads in flight, the last response wins", n)
	}
	findings := render.FindingsView(s)
	return viewData{
		Phase:       s.Phase().String(),
		Seq:         s.Seq(),
		Label:       render.IntakeLabel(s, in.Label()),
		Hint:        hint,
		Uploading:   s.Uploading(),
		Banner:      render.Banner(s),
		Summary:     render.SummaryView(s),
		Columns:     render.Columns,
		Rows:        findings.Rows,
		Placeholder: findings.Message,
	}
}

// badgeCSS colors a severity cell. The fill is the badge color at 20% alpha.
func badgeCSS(st render.SeverityStyle) template.CSS {
	//nolint:gosec // colors come from render.StyleFor, never from input
	return template.CSS(fmt.Sprintf("color:%s;background-color:%s33", st.Foreground, st.Background))
}

func renderView(w io.Writer, d viewData) error {
	if err := templates.ExecuteTemplate(w, "view", d); err != nil {
		return fmt.Errorf("render view: %w", err)
	}
	return nil
}

func renderViewString(d viewData) (string, error) {
	var buf bytes.Buffer
	if err := renderView(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderPage(w io.Writer, d viewData) error {
	p := pageData{Version: buildinfo.Version, Accept: intake.Accept, View: d}
	if err := templates.ExecuteTemplate(w, "page.html", p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
