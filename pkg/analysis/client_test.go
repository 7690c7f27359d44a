package analysis

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const reportJSON = `{"summary":{"tests":10,"issues":2,"severity":{"high":1,"low":1}},"findings":[
 {"endpoint":"/pets","method":"POST","severity":"high","description":"d1","details":{"expected_status":400,"actual_status":500,"status":"failed","payload":{}}},
 {"endpoint":"/pets","method":"GET","severity":"low","description":"d2","details":{"expected_status":200,"status":"error","error":"timeout","payload":{}}}]}`

func mockService(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func specFile() SpecFile {
	return SpecFile{Name: "spec.yaml", Content: []byte("openapi: 3.0.0\npaths: {}\n")}
}

func asUploadError(t *testing.T, err error) *UploadError {
	t.Helper()
	var ue *UploadError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %T (%v), want *UploadError", err, err)
	}
	return ue
}

// ---------------------------------------------------------------------------
// NewClient
// ---------------------------------------------------------------------------

func TestNewClient(t *testing.T) {
	c := NewClient("http://localhost:8000/")
	if c.BaseURL() != "http://localhost:8000" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", c.BaseURL())
	}
	if c.httpClient == nil {
		t.Fatal("httpClient should default to non-nil")
	}
	if c.httpClient.Timeout != 0 {
		t.Errorf("default timeout = %v, want none", c.httpClient.Timeout)
	}
	if c.targetBaseURL != "" {
		t.Errorf("targetBaseURL = %q, want empty", c.targetBaseURL)
	}
}

func TestNewClientOptions(t *testing.T) {
	hc := &http.Client{}
	c := NewClient("http://x", WithHTTPClient(hc), WithTargetBaseURL("http://target"))
	if c.httpClient != hc {
		t.Error("WithHTTPClient not applied")
	}
	if c.targetBaseURL != "http://target" {
		t.Errorf("targetBaseURL = %q", c.targetBaseURL)
	}
}

// ---------------------------------------------------------------------------
// Submit: request shape
// ---------------------------------------------------------------------------

func TestSubmit_MultipartRequest(t *testing.T) {
	var (
		gotPath     string
		gotMethod   string
		gotName     string
		gotContent  string
		gotBaseURL  string
		gotFieldLen int
	)
	srv := mockService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		gotFieldLen = len(r.MultipartForm.Value)
		gotBaseURL = r.FormValue("base_url")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		gotName = hdr.Filename
		gotContent = string(b)
		w.Write([]byte(reportJSON))
	})

	c := NewClient(srv.URL)
	if _, err := c.Submit(context.Background(), specFile()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/upload_spec" {
		t.Errorf("request = %s %s, want POST /upload_spec", gotMethod, gotPath)
	}
	if gotName != "spec.yaml" {
		t.Errorf("filename = %q, want spec.yaml", gotName)
	}
	if !strings.HasPrefix(gotContent, "openapi: 3.0.0") {
		t.Errorf("content = %q", gotContent)
	}
	if gotFieldLen != 0 || gotBaseURL != "" {
		t.Errorf("expected only the file part, got %d extra fields (base_url=%q)", gotFieldLen, gotBaseURL)
	}
}

func TestSubmit_TargetBaseURLField(t *testing.T) {
	var gotBaseURL string
	srv := mockService(t, func(w http.ResponseWriter, r *http.Request) {
		gotBaseURL = r.FormValue("base_url")
		w.Write([]byte(reportJSON))
	})

	c := NewClient(srv.URL, WithTargetBaseURL("http://petstore.local"))
	if _, err := c.Submit(context.Background(), specFile()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if gotBaseURL != "http://petstore.local" {
		t.Errorf("base_url = %q, want http://petstore.local", gotBaseURL)
	}
}

// ---------------------------------------------------------------------------
// Submit: responses
// ---------------------------------------------------------------------------

func TestSubmit_Success(t *testing.T) {
	srv := mockService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(reportJSON))
	})

	r, err := NewClient(srv.URL).Submit(context.Background(), specFile())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if r.Summary.Tests != 10 || r.Summary.Issues != 2 {
		t.Errorf("summary = %+v", r.Summary)
	}
	if len(r.Findings) != 2 || r.Findings[0].Method != "POST" || r.Findings[1].Method != "GET" {
		t.Errorf("findings not in received order: %+v", r.Findings)
	}
}

func TestSubmit_AnyTwoHundredIsSuccess(t *testing.T) {
	srv := mockService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(reportJSON))
	})
	if _, err := NewClient(srv.URL).Submit(context.Background(), specFile()); err != nil {
		t.Fatalf("201 should succeed: %v", err)
	}
}

func TestSubmit_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"detail string", http.StatusBadRequest, `{"detail":"invalid spec"}`, "invalid spec"},
		{"empty body", http.StatusInternalServerError, ``, MsgRejected},
		{"no detail", http.StatusBadGateway, `{"error":"upstream"}`, MsgRejected},
		{"non-json body", http.StatusServiceUnavailable, `<html>down</html>`, MsgRejected},
		{"detail list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","file"],"msg":"field required"}]}`, MsgRejected},
		{"blank detail", http.StatusBadRequest, `{"detail":"   "}`, MsgRejected},
		{"null detail", http.StatusBadRequest, `{"detail":null}`, MsgRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := mockService(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			r, err := NewClient(srv.URL).Submit(context.Background(), specFile())
			if r != nil {
				t.Error("report should be nil on rejection")
			}
			ue := asUploadError(t, err)
			if ue.Kind != KindRejected {
				t.Errorf("kind = %v, want rejected", ue.Kind)
			}
			if ue.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", ue.StatusCode, tt.status)
			}
			if ue.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", ue.Error(), tt.wantMsg)
			}
		})
	}
}

func TestSubmit_Malformed(t *testing.T) {
	srv := mockService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"summary":{"issues":1,"severity":{}},"findings":[]}`))
	})

	_, err := NewClient(srv.URL).Submit(context.Background(), specFile())
	ue := asUploadError(t, err)
	if ue.Kind != KindMalformed {
		t.Errorf("kind = %v, want malformed", ue.Kind)
	}
	if ue.Message != MsgMalformed {
		t.Errorf("message = %q", ue.Message)
	}
	if ue.Err == nil || !strings.Contains(ue.Err.Error(), "summary.tests") {
		t.Errorf("wrapped error should name the missing field, got %v", ue.Err)
	}
}

func TestSubmit_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Submit(context.Background(), specFile())
	ue := asUploadError(t, err)
	if ue.Kind != KindTransport {
		t.Errorf("kind = %v, want transport", ue.Kind)
	}
	if ue.Message != MsgTransport {
		t.Errorf("message = %q, want %q", ue.Message, MsgTransport)
	}
	if ue.Message == MsgRejected {
		t.Error("transport failure must use a distinct message")
	}
}

func TestSubmit_CancelledContext(t *testing.T) {
	srv := mockService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(reportJSON))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL).Submit(ctx, specFile())
	ue := asUploadError(t, err)
	if ue.Kind != KindTransport {
		t.Errorf("kind = %v, want transport", ue.Kind)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}

func TestSubmit_LogsRejection(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	srv := mockService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"invalid spec"}`))
	})

	c := NewClient(srv.URL, WithLogger(zap.New(core)))
	c.Submit(context.Background(), specFile())

	entries := logs.FilterMessage("upload rejected").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 rejection log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["file"] != "spec.yaml" {
		t.Errorf("file field = %v", fields["file"])
	}
	if fields["status"] != int64(http.StatusBadRequest) {
		t.Errorf("status field = %v (%T)", fields["status"], fields["status"])
	}
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"ok", http.StatusOK, `{"status":"ok"}`, false},
		{"degraded", http.StatusOK, `{"status":"degraded"}`, true},
		{"server error", http.StatusInternalServerError, ``, true},
		{"bad json", http.StatusOK, `nope`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := mockService(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/health" {
					t.Errorf("path = %q, want /health", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			err := NewClient(srv.URL).Health(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Health() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindTransport:  "transport",
		KindRejected:   "rejected",
		KindMalformed:  "malformed",
		KindUnexpected: "unexpected",
		Kind(42):       "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
