// Package worker runs long host-facing jobs off the event thread, strictly
// one at a time, in submission order.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/pkg/idgen"
)

// Task is one unit of work. ctx ends only when the executor closes.
type Task func(ctx context.Context) error

// Future is the completion signal of a submitted task
type Future struct {
	id   string
	name string
	done chan struct{}
	err  error
}

func newFuture(id, name string) *Future {
	return &Future{id: id, name: name, done: make(chan struct{})}
}

func (f *Future) complete(err error) {
	f.err = err
	close(f.done)
}

// ID returns the job id assigned at submission
func (f *Future) ID() string {
	return f.id
}

// Done is closed once the task has finished
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the task finishes or ctx ends
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "waiting for %s", f.name)
	}
}

// Config configures a Serial executor
type Config struct {
	Name string
	// Parent bounds every task; defaults to context.Background
	Parent context.Context
	IDs    idgen.Generator
}

// Validate ensures the configuration is usable
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Name", c.Name, vb)
	return vb.Build()
}

type job struct {
	name   string
	task   Task
	future *Future
}

// Serial is a single-worker executor. Submit never blocks; tasks run one
// after another on a dedicated goroutine.
type Serial struct {
	name   string
	ids    idgen.Generator
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending []*job
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

// NewSerial starts a single-worker executor
func NewSerial(cfg *Config) (*Serial, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	parent := cfg.Parent
	if parent == nil {
		parent = context.Background()
	}
	ids := cfg.IDs
	if ids == nil {
		ids = idgen.NewUUID(cfg.Name)
	}

	ctx, cancel := context.WithCancel(parent)
	s := &Serial{
		name:   cfg.Name,
		ids:    ids,
		ctx:    ctx,
		cancel: cancel,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go s.run()

	return s, nil
}

// Submit queues a task and returns its completion signal. After Close the
// returned future is already completed with a Canceled error.
func (s *Serial) Submit(name string, task Task) *Future {
	f := newFuture(s.ids.Generate(), name)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		f.complete(errors.Canceledf("executor %s is closed", s.name))
		return f
	}
	s.pending = append(s.pending, &job{name: name, task: task, future: f})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}

	return f
}

// Pending returns the number of tasks waiting to start
func (s *Serial) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Close cancels the running task's context, fails everything still queued
// and waits for the worker goroutine to exit.
func (s *Serial) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return nil
	}
	s.closed = true
	dropped := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, j := range dropped {
		j.future.complete(errors.Canceledf("%s dropped on shutdown", j.name))
	}

	s.cancel()
	select {
	case s.wake <- struct{}{}:
	default:
	}
	<-s.done

	if len(dropped) > 0 {
		slog.Warn("Dropped queued tasks on shutdown",
			"executor", s.name,
			"count", len(dropped),
		)
	}
	return nil
}

func (s *Serial) run() {
	defer close(s.done)
	for {
		j, ok := s.next()
		if !ok {
			return
		}
		s.execute(j)
	}
}

func (s *Serial) next() (*job, bool) {
	for {
		s.mu.Lock()
		if len(s.pending) > 0 {
			j := s.pending[0]
			s.pending[0] = nil
			s.pending = s.pending[1:]
			s.mu.Unlock()
			return j, true
		}
		closed := s.closed
		s.mu.Unlock()

		if closed {
			return nil, false
		}
		<-s.wake
	}
}

func (s *Serial) execute(j *job) {
	start := time.Now()
	slog.Debug("Task started",
		"executor", s.name,
		"task", j.name,
		"id", j.future.id,
	)

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = errors.Newf(errors.CodeInternal, "task %s panicked: %v", j.name, r)
			}
		}()
		err = j.task(s.ctx)
	}()

	if err != nil {
		slog.Error("Task failed",
			"executor", s.name,
			"task", j.name,
			"id", j.future.id,
			"error", err,
		)
	} else {
		slog.Debug("Task finished",
			"executor", s.name,
			"task", j.name,
			"id", j.future.id,
			"duration", time.Since(start),
		)
	}

	j.future.complete(err)
}
