// Package dashboard serves the browser front end of the upload workflow. The
// state machine runs in-process; pages receive every transition over
// Server-Sent Events.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/specfuzzer/specfuzzer/internal/intake"
	"github.com/specfuzzer/specfuzzer/internal/upload"
	"github.com/specfuzzer/specfuzzer/pkg/buildinfo"
)

const (
	// DefaultMaxUploadBytes bounds the in-memory part of a multipart upload.
	DefaultMaxUploadBytes = 32 << 20

	healthTimeout = 5 * time.Second
	sseKeepAlive  = 30 * time.Second
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	ctrl       *upload.Controller
	intake     *intake.Intake
	health     func(context.Context) error
	backendURL string
	staticDir  string
	maxUpload  int64
	logger     *zap.Logger
	hub        *Hub
}

// HandlerConfig holds configuration for a Handler.
type HandlerConfig struct {
	Controller *upload.Controller
	Intake     *intake.Intake

	// Health probes the analysis service. Nil reports it as unknown.
	Health     func(context.Context) error
	BackendURL string

	// StaticDir overrides the embedded assets when set.
	StaticDir      string
	MaxUploadBytes int64
	Logger         *zap.Logger
}

// NewHandler creates a dashboard handler and subscribes its hub to the
// controller.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Intake == nil {
		cfg.Intake = intake.New(intake.WithLogger(cfg.Logger))
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	h := &Handler{
		ctrl:       cfg.Controller,
		intake:     cfg.Intake,
		health:     cfg.Health,
		backendURL: cfg.BackendURL,
		staticDir:  cfg.StaticDir,
		maxUpload:  cfg.MaxUploadBytes,
		logger:     cfg.Logger,
		hub:        NewHub(),
	}
	h.ctrl.OnChange(h.hub.Publish)
	return h
}

// Hub returns the SSE hub fed by the controller.
func (h *Handler) Hub() *Hub { return h.hub }

func (h *Handler) currentView() viewData {
	return newViewData(h.ctrl.State(), h.intake)
}

// HandleIndex renders the full page with the current views.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderPage(w, h.currentView()); err != nil {
		h.logger.Error("render page", zap.Error(err))
	}
}

type uploadResponse struct {
	Seq       uint64 `json:"seq"`
	RequestID string `json:"request_id"`
}

// HandleUpload accepts a multipart form with one or more "file" parts and a
// "gesture" of browse or drop. Only the first file is forwarded.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	w.Header().Set("X-Request-ID", reqID)
	logger := h.logger.With(zap.String("request_id", reqID))

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form: " + err.Error()})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	gesture := r.FormValue("gesture")
	switch gesture {
	case "", "browse":
		gesture = "browse"
	case "drop":
		h.intake.SetDragging(false)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unknown gesture %q", gesture)})
		return
	}

	if h.ctrl.Busy() {
		writeJSON(w, http.StatusConflict, map[string]string{"error": upload.ErrBusy.Error()})
		return
	}

	parts := r.MultipartForm.File["file"]
	cands := make([]intake.Candidate, len(parts))
	for i, fh := range parts {
		cands[i] = partCandidate(fh)
	}
	file, ok, err := h.intake.Read(gesture, cands...)
	if err != nil {
		logger.Warn("read uploaded file", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// The label changes only for a file the controller admits.
	seq, err := h.ctrl.StartWith(file, func() { h.intake.Commit(file) })
	if errors.Is(err, upload.ErrBusy) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	logger.Info("upload accepted",
		zap.Uint64("seq", seq),
		zap.String("file", file.Name),
		zap.Int("parts", len(parts)))
	writeJSON(w, http.StatusAccepted, uploadResponse{Seq: seq, RequestID: reqID})
}

func partCandidate(fh *multipart.FileHeader) intake.Candidate {
	return intake.Candidate{
		Name: fh.Filename,
		Load: func() ([]byte, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
			}
			defer f.Close()
			data, err := io.ReadAll(f)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
			}
			return data, nil
		},
	}
}

// HandleState returns the current state snapshot as JSON.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.State().Snapshot())
}

// HandleView returns the views for the current state as an HTML fragment.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderView(w, h.currentView()); err != nil {
		h.logger.Error("render view", zap.Error(err))
	}
}

type stateEvent struct {
	State upload.Snapshot `json:"state"`
	HTML  string          `json:"html"`
}

func (h *Handler) stateEvent(s upload.State) (stateEvent, error) {
	html, err := renderViewString(newViewData(s, h.intake))
	if err != nil {
		return stateEvent{}, err
	}
	return stateEvent{State: s.Snapshot(), HTML: html}, nil
}

// HandleSSE streams a "state" event on connect and after every transition.
func (h *Handler) HandleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// Subscribe before reading the current state so no transition is missed.
	c := h.hub.subscribe()
	defer h.hub.unsubscribe(c)

	send := func(s upload.State) error {
		evt, err := h.stateEvent(s)
		if err != nil {
			h.logger.Error("build state event", zap.Error(err))
			return nil
		}
		return writeSSEEvent(w, flusher, "state", evt)
	}
	if err := send(h.ctrl.State()); err != nil {
		return
	}

	ticker := time.NewTicker(sseKeepAlive)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-c.send:
			if err := send(s); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := io.WriteString(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

type healthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Backend       string `json:"backend"`
	BackendStatus string `json:"backend_status"`
	BackendError  string `json:"backend_error,omitempty"`
}

// HandleHealth reports the dashboard version and whether the analysis
// service answers its health probe.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		Version:       buildinfo.Version,
		Backend:       h.backendURL,
		BackendStatus: "unknown",
	}
	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := h.health(ctx); err != nil {
			resp.BackendStatus = "unreachable"
			resp.BackendError = err.Error()
		} else {
			resp.BackendStatus = "ok"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
