package dashboard

import "net/http"

// RegisterRoutes sets up the page and API routes on the given ServeMux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.Handle("GET /static/", http.StripPrefix("/static/", EmbeddedStaticHandler(h.staticDir)))
	mux.HandleFunc("POST /api/v1/upload", h.HandleUpload)
	mux.HandleFunc("GET /api/v1/state", h.HandleState)
	mux.HandleFunc("GET /api/v1/view", h.HandleView)
	mux.HandleFunc("GET /api/v1/events", h.HandleSSE)
	mux.HandleFunc("GET /api/v1/health", h.HandleHealth)
}

// SecurityHeaders sets conservative response headers on every request.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
