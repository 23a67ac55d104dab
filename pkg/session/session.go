// Package session runs the live labeling loop: capture a frame, submit
// it for label detection, overlay the labels, display, repeat.
//
// Detection runs on a single worker so the display cadence never
// blocks on the network: at most one DetectLabels call is in flight,
// each bounded by the provider's deadline, and every displayed frame
// carries the most recent completed result. When a detection fails the
// current labels are dropped, so a frame after a failure shows zero
// labels rather than stale ones.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"gocv.io/x/gocv"

	"github.com/lenslabs/go-livelabel/pkg/capture"
	"github.com/lenslabs/go-livelabel/pkg/detect"
	"github.com/lenslabs/go-livelabel/pkg/display"
)

// Renderer draws labels onto a frame in place. Satisfied by
// overlay.Renderer.
type Renderer interface {
	Draw(frame *gocv.Mat, labels []detect.Label)
}

// State is the lifecycle phase of a session.
type State int32

// Session lifecycle states.
const (
	StateInit State = iota
	StateRunning
	StateDraining
	StateTerminated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// ErrAlreadyRun is returned when Run is called more than once.
var ErrAlreadyRun = errors.New("session: already run")

// Stats counts per-frame outcomes over one session.
type Stats struct {
	FramesRead      uint64
	FramesShown     uint64
	FramesAnnotated uint64
	EncodeFailures  uint64
	DetectFailures  uint64
}

// Session owns the frame source and display surface for the duration
// of one run and guarantees their release on every exit path.
type Session struct {
	src  capture.Source
	prov detect.Provider
	rend Renderer
	disp display.Surface

	log     *slog.Logger
	quality int
	exitKey int
	pollMs  int
	encode  func(gocv.Mat, int) ([]byte, error)

	state       atomic.Int32
	cleanupOnce sync.Once

	jobs    chan []byte
	results chan result
	done    chan struct{}

	mu    sync.Mutex
	stats Stats
}

type result struct {
	labels []detect.Label
	err    error
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithJPEGQuality sets the outbound frame encoding quality (1-100).
func WithJPEGQuality(q int) Option {
	return func(s *Session) { s.quality = q }
}

// WithExitKey sets the key code that ends the session.
func WithExitKey(key int) Option {
	return func(s *Session) { s.exitKey = key }
}

// WithPollInterval sets the display key poll wait in milliseconds.
func WithPollInterval(ms int) Option {
	return func(s *Session) { s.pollMs = ms }
}

// WithEncodeFunc overrides the frame encoder. Used by tests to force
// encode failures without a real codec.
func WithEncodeFunc(fn func(gocv.Mat, int) ([]byte, error)) Option {
	return func(s *Session) { s.encode = fn }
}

// New creates a session over the given collaborators. The session
// takes ownership of src and disp: both are released exactly once
// when Run exits, however it exits.
func New(src capture.Source, prov detect.Provider, rend Renderer, disp display.Surface, opts ...Option) (*Session, error) {
	if src == nil {
		return nil, errors.New("session: frame source required")
	}
	if prov == nil {
		return nil, errors.New("session: detection provider required")
	}
	if rend == nil {
		return nil, errors.New("session: renderer required")
	}
	if disp == nil {
		return nil, errors.New("session: display surface required")
	}

	s := &Session{
		src:     src,
		prov:    prov,
		rend:    rend,
		disp:    disp,
		log:     slog.Default(),
		quality: 80,
		exitKey: 'q',
		pollMs:  1,
		encode:  capture.EncodeJPEG,
		jobs:    make(chan []byte, 1),
		results: make(chan result, 1),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Stats returns a snapshot of the per-frame counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Run drives the loop until the exit key is pressed, the stream ends,
// or ctx is cancelled. Cleanup runs on every exit path: a panic in the
// loop body is recovered and returned as an error, and a panic inside
// the detection provider surfaces as a per-frame failure.
func (s *Session) Run(ctx context.Context) (err error) {
	if !s.state.CompareAndSwap(int32(StateInit), int32(StateRunning)) {
		return ErrAlreadyRun
	}

	go s.annotate(ctx)

	defer s.cleanup()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("unexpected error in session loop",
				"panic", r,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("session: unexpected error: %v", r)
		}
	}()

	frame := gocv.NewMat()
	defer frame.Close()

	var labels []detect.Label
	inflight := false

	for {
		if ctx.Err() != nil {
			s.log.Info("session cancelled")
			return nil
		}

		if !s.src.Read(&frame) {
			s.log.Info("end of stream, draining")
			return nil
		}
		s.count(func(st *Stats) { st.FramesRead++ })

		// Submit at most one frame for detection at a time. An encode
		// failure skips detection for this iteration only.
		if !inflight {
			buf, encErr := s.encode(frame, s.quality)
			if encErr != nil {
				s.log.Warn("frame encode failed, skipping detection", "error", encErr)
				s.count(func(st *Stats) { st.EncodeFailures++ })
			} else {
				s.jobs <- buf
				inflight = true
			}
		}

		select {
		case res := <-s.results:
			inflight = false
			if res.err != nil {
				s.log.Error("label detection failed",
					"error", res.err,
					"throttled", detect.IsThrottled(res.err),
					"retryable", detect.IsRetryable(res.err))
				s.count(func(st *Stats) { st.DetectFailures++ })
				labels = nil
			} else {
				s.log.Debug("labels updated", "count", len(res.labels))
				s.count(func(st *Stats) { st.FramesAnnotated++ })
				labels = res.labels
			}
		default:
		}

		s.rend.Draw(&frame, labels)
		s.disp.Show(&frame)
		s.count(func(st *Stats) { st.FramesShown++ })

		if key := s.disp.Poll(s.pollMs); key != display.KeyNone && key&0xFF == s.exitKey {
			s.log.Info("exit key pressed, draining")
			return nil
		}
	}
}

// annotate serves detection jobs one at a time. Results land in a
// buffered channel the loop drains before submitting the next job, so
// sends never block.
func (s *Session) annotate(ctx context.Context) {
	defer close(s.done)
	for buf := range s.jobs {
		s.results <- s.detect(ctx, buf)
	}
}

// detect runs one detection call. A panic inside the provider is
// converted into a per-frame failure so the worker keeps serving and
// the cleanup path still runs.
func (s *Session) detect(ctx context.Context, buf []byte) (res result) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("unexpected error in detection worker",
				"panic", r,
				"stack", string(debug.Stack()))
			res = result{err: fmt.Errorf("session: unexpected detection error: %v", r)}
		}
	}()
	labels, err := s.prov.DetectLabels(ctx, buf)
	return result{labels: labels, err: err}
}

// cleanup releases the source and display exactly once, on every exit
// route. The worker is stopped first; its in-flight call is bounded by
// the provider deadline, so the wait is too.
func (s *Session) cleanup() {
	s.cleanupOnce.Do(func() {
		s.state.Store(int32(StateDraining))

		close(s.jobs)
		<-s.done

		if err := s.src.Close(); err != nil {
			s.log.Warn("closing frame source", "error", err)
		}
		if err := s.disp.Close(); err != nil {
			s.log.Warn("closing display", "error", err)
		}

		s.state.Store(int32(StateTerminated))

		stats := s.Stats()
		s.log.Info("session finished",
			"frames_read", stats.FramesRead,
			"frames_shown", stats.FramesShown,
			"frames_annotated", stats.FramesAnnotated,
			"encode_failures", stats.EncodeFailures,
			"detect_failures", stats.DetectFailures)
	})
}

func (s *Session) count(fn func(*Stats)) {
	s.mu.Lock()
	fn(&s.stats)
	s.mu.Unlock()
}
