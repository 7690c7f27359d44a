package dashboard

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

//go:embed templates
var templateFS embed.FS

// EmbeddedStaticHandler serves the page's scripts and stylesheets. A
// non-empty devDir overrides the embedded copy so assets can be edited
// without rebuilding.
func EmbeddedStaticHandler(devDir string) http.Handler {
	if devDir != "" {
		return http.FileServer(http.Dir(devDir))
	}
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Unreachable with a well-formed embed directive.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
