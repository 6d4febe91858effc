// Package fileproc provides concurrent processing of lazily produced items.
package fileproc

import (
	"context"
	"fmt"
	"iter"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// ProcessingError represents a failure while processing one item.
type ProcessingError struct {
	Item string
	Err  error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Item, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// PanicError is the error reported for an item whose function panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// ProcessingErrors collects multiple processing errors.
type ProcessingErrors struct {
	Errors []*ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(err *ProcessingError) {
	e.mu.Lock()
	e.Errors = append(e.Errors, err)
	e.mu.Unlock()
}

// Len returns the number of collected errors.
func (e *ProcessingErrors) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors)
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	return e.Len() > 0
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d items failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// DefaultWorkerMultiplier is the multiplier applied to NumCPU when no
// worker count is given.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called after each item is processed.
type ProgressFunc func()

// ErrorFunc is called when an item panics or exceeds its timeout.
type ErrorFunc func(err *ProcessingError)

type settings struct {
	onProgress ProgressFunc
	onError    ErrorFunc
	timeout    time.Duration
}

// Option configures Map.
type Option func(*settings)

// WithProgress sets a callback invoked once per item.
func WithProgress(fn ProgressFunc) Option {
	return func(s *settings) {
		s.onProgress = fn
	}
}

// WithOnError sets a callback for items that panic or time out.
func WithOnError(fn ErrorFunc) Option {
	return func(s *settings) {
		s.onError = fn
	}
}

// WithErrors collects panics and timeouts into errs.
func WithErrors(errs *ProcessingErrors) Option {
	return WithOnError(errs.Add)
}

// WithTimeout bounds the time spent on a single item (0 = no limit). An item
// that runs over is dropped and its function's context is cancelled.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// Map runs fn over every item of seq using at most workers goroutines and
// returns the outputs for which fn reported ok, in arbitrary order.
// A panic or timeout in one item only drops that item.
// If workers is <= 0, defaults to 2x NumCPU.
func Map[In, Out any](ctx context.Context, seq iter.Seq[In], workers int, fn func(context.Context, In) (Out, bool), opts ...Option) []Out {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}

	if workers <= 0 {
		workers = runtime.NumCPU() * DefaultWorkerMultiplier
	}

	var (
		results []Out
		mu      sync.Mutex
	)

	p := pool.New().WithMaxGoroutines(workers)
	for item := range seq {
		p.Go(func() {
			out, ok := runItem(ctx, s, item, fn)

			if s.onProgress != nil {
				s.onProgress()
			}
			if !ok {
				return
			}

			mu.Lock()
			results = append(results, out)
			mu.Unlock()
		})
	}
	p.Wait()

	return results
}

// runItem applies the per-item timeout. On timeout the call keeps running
// in its own goroutine until it observes the cancelled context.
func runItem[In, Out any](ctx context.Context, s *settings, item In, fn func(context.Context, In) (Out, bool)) (Out, bool) {
	if s.timeout <= 0 {
		return callSafe(ctx, s, item, fn)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		out Out
		ok  bool
	}
	done := make(chan result, 1)
	go func() {
		out, ok := callSafe(ctx, s, item, fn)
		done <- result{out: out, ok: ok}
	}()

	select {
	case r := <-done:
		return r.out, r.ok
	case <-ctx.Done():
		s.report(item, ctx.Err())
		var zero Out
		return zero, false
	}
}

// callSafe recovers a panic in fn so that it cannot take down the pool.
func callSafe[In, Out any](ctx context.Context, s *settings, item In, fn func(context.Context, In) (Out, bool)) (out Out, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.report(item, &PanicError{Value: r, Stack: debug.Stack()})
			var zero Out
			out, ok = zero, false
		}
	}()
	return fn(ctx, item)
}

func (s *settings) report(item any, err error) {
	if s.onError != nil {
		s.onError(&ProcessingError{Item: fmt.Sprint(item), Err: err})
	}
}
