package upload

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/specfuzzer/specfuzzer/pkg/analysis"
	"github.com/specfuzzer/specfuzzer/pkg/report"
)

// ErrBusy is returned by Begin in exclusive mode while a request is in flight.
var ErrBusy = errors.New("an upload is already in progress")

// MsgUnexpected is shown for failures that are not *analysis.UploadError.
const MsgUnexpected = "Unexpected error"

// Submitter performs the request against the analysis service.
// *analysis.Client implements it.
type Submitter interface {
	Submit(ctx context.Context, file analysis.SpecFile) (*report.Report, error)
}

// Controller owns the single State for a workflow and is safe for
// concurrent use.
type Controller struct {
	submitter Submitter
	exclusive bool
	logger    *zap.Logger

	mu        sync.Mutex
	state     State
	seq       uint64
	observers []func(State)
}

// ControllerConfig holds configuration for a Controller.
type ControllerConfig struct {
	Submitter Submitter
	// Exclusive rejects new selections while a request is in flight instead
	// of letting responses race.
	Exclusive bool
	Logger    *zap.Logger
}

// NewController creates a controller in the Idle state.
func NewController(cfg ControllerConfig) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Controller{
		submitter: cfg.Submitter,
		exclusive: cfg.Exclusive,
		logger:    cfg.Logger,
		state:     Idle(),
	}
}

// OnChange registers fn to be called with every new state. Observers run
// synchronously on the goroutine that caused the transition, in order, and
// must not call back into the Controller.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether Begin would return ErrBusy right now.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exclusive && c.state.InFlight() > 0
}

func (c *Controller) apply(e Event) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applyLocked(e)
}

// applyLocked runs the transition and notifies observers. Observers are
// called under mu so they see states in transition order.
func (c *Controller) applyLocked(e Event) State {
	c.state = Transition(c.state, e)
	for _, fn := range c.observers {
		fn(c.state)
	}
	return c.state
}

// Begin hands off the file synchronously: the state is Uploading when Begin
// returns. It returns the sequence number assigned to the request.
func (c *Controller) Begin(file analysis.SpecFile) (uint64, error) {
	return c.begin(file, nil)
}

// begin runs accepted under the lock once the file is admitted and before
// observers see the Uploading state. It is never called for a rejected file.
func (c *Controller) begin(file analysis.SpecFile, accepted func()) (uint64, error) {
	c.mu.Lock()
	if c.exclusive && c.state.InFlight() > 0 {
		c.mu.Unlock()
		c.logger.Info("selection rejected while busy", zap.String("file", file.Name))
		return 0, ErrBusy
	}
	if accepted != nil {
		accepted()
	}
	c.seq++
	seq := c.seq
	s := c.applyLocked(Selected{Seq: seq, FileName: file.Name})
	c.mu.Unlock()

	c.logger.Info("upload started",
		zap.Uint64("seq", seq),
		zap.String("file", file.Name),
		zap.Int("in_flight", s.InFlight()))
	return seq, nil
}

// Submit uploads file and waits for the result. The state moves to Uploading
// before the request is issued and to Succeeded or Failed when it completes.
// Failures are always returned as *analysis.UploadError.
func (c *Controller) Submit(ctx context.Context, file analysis.SpecFile) (*report.Report, error) {
	seq, err := c.Begin(file)
	if err != nil {
		return nil, err
	}
	return c.finish(ctx, seq, file)
}

// Start hands off the file synchronously and performs the request in the
// background. There is no way to cancel it.
func (c *Controller) Start(file analysis.SpecFile) (uint64, error) {
	return c.StartWith(file, nil)
}

// StartWith is Start with a hook that runs only if the file is admitted. In
// exclusive mode the busy check and the hook happen in one step, so accepted
// never runs for a file that was turned away with ErrBusy. accepted must not
// call back into the Controller.
func (c *Controller) StartWith(file analysis.SpecFile, accepted func()) (uint64, error) {
	seq, err := c.begin(file, accepted)
	if err != nil {
		return 0, err
	}
	go func() {
		_, _ = c.finish(context.Background(), seq, file)
	}()
	return seq, nil
}

func (c *Controller) finish(ctx context.Context, seq uint64, file analysis.SpecFile) (*report.Report, error) {
	r, err := c.submitter.Submit(ctx, file)
	if err == nil && r == nil {
		err = &analysis.UploadError{Kind: analysis.KindMalformed, Message: analysis.MsgMalformed}
	}
	if err != nil {
		var ue *analysis.UploadError
		if !errors.As(err, &ue) {
			err = &analysis.UploadError{Kind: analysis.KindUnexpected, Message: MsgUnexpected, Err: err}
		}
		msg := MessageFor(err)
		s := c.apply(Rejected{Seq: seq, Message: msg})
		if s.Seq() != seq {
			c.logger.Warn("stale response replaced newer state",
				zap.Uint64("seq", seq), zap.Uint64("latest_seq", s.Seq()))
		}
		c.logger.Info("upload failed", zap.Uint64("seq", seq), zap.String("message", msg), zap.Error(err))
		return nil, err
	}

	s := c.apply(Resolved{Seq: seq, Report: r})
	if s.Seq() != seq {
		c.logger.Warn("stale response replaced newer state",
			zap.Uint64("seq", seq), zap.Uint64("latest_seq", s.Seq()))
	}
	c.logger.Info("upload succeeded", zap.Uint64("seq", seq), zap.Int("findings", len(r.Findings)))
	return r, nil
}

// MessageFor converts any failure into the message shown to the user.
func MessageFor(err error) string {
	var ue *analysis.UploadError
	if errors.As(err, &ue) && ue.Message != "" {
		return ue.Message
	}
	return MsgUnexpected
}
