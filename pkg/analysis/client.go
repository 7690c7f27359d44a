// Package analysis provides the client for the remote analysis service that
// parses an uploaded API specification, runs adversarial tests against it and
// returns a report. Only the service's HTTP contract lives here.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/specfuzzer/specfuzzer/pkg/buildinfo"
	"github.com/specfuzzer/specfuzzer/pkg/report"
)

// SpecFile is an uploaded specification: raw bytes plus the original name.
type SpecFile struct {
	Name    string
	Content []byte
}

// Client submits specification files to the analysis service.
type Client struct {
	baseURL       string
	targetBaseURL string
	httpClient    *http.Client
	logger        *zap.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client. The default has no timeout;
// requests run until the transport gives up or the context is cancelled.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTargetBaseURL sets the base URL the service should execute generated
// tests against. It is sent as the optional base_url form field.
func WithTargetBaseURL(url string) Option {
	return func(c *Client) { c.targetBaseURL = url }
}

// WithLogger sets the logger (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured service URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// errorBody is the optional failure payload. Detail is kept raw because the
// service sometimes sends a list of validation errors instead of a string.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// Submit uploads the file to {baseURL}/upload_spec and decodes the report.
// Every failure is returned as an *UploadError.
func (c *Client) Submit(ctx context.Context, file SpecFile) (*report.Report, error) {
	body, contentType, err := c.encode(file)
	if err != nil {
		return nil, &UploadError{Kind: KindTransport, Message: MsgTransport, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload_spec", body)
	if err != nil {
		return nil, &UploadError{Kind: KindTransport, Message: MsgTransport, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "specfuzzer/"+buildinfo.Version)

	log := c.logger.With(zap.String("file", file.Name), zap.Int("bytes", len(file.Content)))
	log.Debug("submitting spec")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("upload request failed", zap.Error(err))
		return nil, &UploadError{Kind: KindTransport, Message: MsgTransport, Err: fmt.Errorf("upload request: %w", err)}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn("read response failed", zap.Error(err))
		return nil, &UploadError{Kind: KindTransport, StatusCode: resp.StatusCode, Message: MsgTransport, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := rejectionMessage(data)
		log.Info("upload rejected", zap.Int("status", resp.StatusCode), zap.String("detail", msg))
		return nil, &UploadError{
			Kind:       KindRejected,
			StatusCode: resp.StatusCode,
			Message:    msg,
			Err:        fmt.Errorf("analysis service returned %d", resp.StatusCode),
		}
	}

	r, err := report.Decode(data)
	if err != nil {
		log.Warn("malformed report", zap.Int("status", resp.StatusCode), zap.Error(err))
		return nil, &UploadError{Kind: KindMalformed, StatusCode: resp.StatusCode, Message: MsgMalformed, Err: err}
	}

	log.Info("report received",
		zap.Int("tests", r.Summary.Tests),
		zap.Int("issues", r.Summary.Issues),
		zap.Int("findings", len(r.Findings)))
	return r, nil
}

// encode builds the multipart body: a single "file" part, plus base_url when
// a target is configured.
func (c *Client) encode(file SpecFile) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, "", fmt.Errorf("write form file: %w", err)
	}
	if c.targetBaseURL != "" {
		if err := mw.WriteField("base_url", c.targetBaseURL); err != nil {
			return nil, "", fmt.Errorf("write base_url: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

// rejectionMessage returns the service's detail string verbatim, or the
// generic fallback when it is absent, blank or not a string.
func rejectionMessage(data []byte) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err != nil || len(eb.Detail) == 0 {
		return MsgRejected
	}
	var detail string
	if err := json.Unmarshal(eb.Detail, &detail); err != nil {
		return MsgRejected
	}
	if strings.TrimSpace(detail) == "" {
		return MsgRejected
	}
	return detail
}

// Health probes {baseURL}/health. A nil error means the service answered
// {"status":"ok"}.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", c.baseURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}
	if body.Status != "ok" {
		return errors.New("service reported status " + body.Status)
	}
	return nil
}
