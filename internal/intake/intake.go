// Package intake picks the single specification file forwarded per user
// gesture and tracks the drop zone's display state.
package intake

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/specfuzzer/specfuzzer/pkg/analysis"
)

// AcceptedExtensions are the filename extensions offered as a hint. Files with
// other extensions are still forwarded.
var AcceptedExtensions = []string{".yaml", ".yml", ".json"}

// Accept is AcceptedExtensions in the form of an HTML accept attribute.
const Accept = ".yaml,.yml,.json"

const (
	DefaultLabel  = "Drag & drop or click to upload OpenAPI spec"
	ExtensionHint = ".yaml or .json"
)

// HasAcceptedExtension reports whether name carries one of AcceptedExtensions.
// The comparison ignores case.
func HasAcceptedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range AcceptedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

// Candidate is a file offered by a gesture that has not been read yet.
type Candidate struct {
	Name string
	Load func() ([]byte, error)
}

// PathCandidate reads the file at path when loaded. The candidate name is the
// base name of path.
func PathCandidate(path string) Candidate {
	return Candidate{
		Name: filepath.Base(path),
		Load: func() ([]byte, error) {
			return os.ReadFile(path)
		},
	}
}

// BytesCandidate wraps content that is already in memory.
func BytesCandidate(name string, data []byte) Candidate {
	return Candidate{
		Name: name,
		Load: func() ([]byte, error) { return data, nil },
	}
}

// Intake is the drop zone and browse control. It is safe for concurrent use.
type Intake struct {
	logger *zap.Logger

	mu       sync.Mutex
	dragging bool
	chosen   string
	size     int
}

// Option configures an Intake.
type Option func(*Intake)

// WithLogger sets the logger used for gesture events.
func WithLogger(l *zap.Logger) Option {
	return func(in *Intake) { in.logger = l }
}

// New creates an Intake showing the default label.
func New(opts ...Option) *Intake {
	in := &Intake{logger: zap.NewNop()}
	for _, o := range opts {
		o(in)
	}
	return in
}

// Browse handles a click-to-browse selection. An empty selection (the dialog
// was cancelled) returns ok=false and changes nothing.
func (in *Intake) Browse(cands ...Candidate) (analysis.SpecFile, bool, error) {
	return in.take("browse", cands)
}

// Drop handles files dropped onto the zone. Only the first is forwarded. The
// drag-over flag is cleared whether or not anything was dropped.
func (in *Intake) Drop(cands ...Candidate) (analysis.SpecFile, bool, error) {
	in.SetDragging(false)
	return in.take("drop", cands)
}

func (in *Intake) take(gesture string, cands []Candidate) (analysis.SpecFile, bool, error) {
	file, ok, err := in.Read(gesture, cands...)
	if ok {
		in.Commit(file)
	}
	return file, ok, err
}

// Read loads the first candidate without touching the label. Callers that
// may still refuse the file read first and Commit once it is accepted.
func (in *Intake) Read(gesture string, cands ...Candidate) (analysis.SpecFile, bool, error) {
	if len(cands) == 0 {
		return analysis.SpecFile{}, false, nil
	}
	c := cands[0]
	if len(cands) > 1 {
		in.logger.Debug("ignoring extra files", zap.String("gesture", gesture), zap.Int("ignored", len(cands)-1))
	}
	if c.Load == nil {
		return analysis.SpecFile{}, false, fmt.Errorf("reading %s: no content", c.Name)
	}
	data, err := c.Load()
	if err != nil {
		return analysis.SpecFile{}, false, fmt.Errorf("reading %s: %w", c.Name, err)
	}

	fields := []zap.Field{
		zap.String("gesture", gesture),
		zap.String("file", c.Name),
		zap.Int("bytes", len(data)),
	}
	if !HasAcceptedExtension(c.Name) {
		in.logger.Info("forwarding file without a spec extension", fields...)
	} else {
		in.logger.Debug("file selected", fields...)
	}
	return analysis.SpecFile{Name: c.Name, Content: data}, true, nil
}

// Commit makes file the chosen one shown by Label.
func (in *Intake) Commit(file analysis.SpecFile) {
	in.mu.Lock()
	in.chosen = file.Name
	in.size = len(file.Content)
	in.mu.Unlock()
}

// SetDragging sets the visual drag-over flag.
func (in *Intake) SetDragging(v bool) {
	in.mu.Lock()
	in.dragging = v
	in.mu.Unlock()
}

func (in *Intake) Dragging() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.dragging
}

// Chosen returns the name of the last forwarded file, or "".
func (in *Intake) Chosen() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.chosen
}

// Label is the text shown in the drop zone: the chosen filename with its size,
// or DefaultLabel before anything was chosen.
func (in *Intake) Label() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.chosen == "" {
		return DefaultLabel
	}
	return fmt.Sprintf("%s (%s)", in.chosen, humanize.Bytes(uint64(in.size)))
}
