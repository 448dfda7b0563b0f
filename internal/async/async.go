// Package async delivers the outcome of blocking calls to callbacks that run
// on one designated execution context.
package async

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Result is the outcome of one call: either Value or Err.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// Executor runs posted functions.
type Executor interface {
	Post(fn func())
}

// Inline runs each posted function immediately on the posting goroutine.
type Inline struct{}

func (Inline) Post(fn func()) { fn() }

// Loop runs posted functions one at a time, in posting order, on a single
// goroutine. Posting never blocks.
type Loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	pending int
	closed  bool
	done    chan struct{}

	// late serializes functions posted after Close.
	late sync.Mutex
}

// NewLoop starts a Loop.
func NewLoop() *Loop {
	l := &Loop{done: make(chan struct{})}
	l.cond = sync.NewCond(&l.mu)
	go l.run()
	return l
}

// Post queues fn. Once the loop is closed fn runs on the calling goroutine,
// still one at a time.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		slog.Debug("loop closed, running callback on the posting goroutine")
		l.late.Lock()
		defer l.late.Unlock()
		l.invoke(fn)
		return
	}
	l.queue = append(l.queue, fn)
	l.cond.Broadcast()
	l.mu.Unlock()
}

// Close waits for calls started with Go on this loop to post their results,
// runs everything queued and stops the loop. It must not be called from a
// function running on the loop.
func (l *Loop) Close() {
	l.mu.Lock()
	for l.pending > 0 {
		l.cond.Wait()
	}
	l.closed = true
	l.cond.Broadcast()
	l.mu.Unlock()
	<-l.done
}

func (l *Loop) begin() {
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()
}

func (l *Loop) end() {
	l.mu.Lock()
	l.pending--
	l.cond.Broadcast()
	l.mu.Unlock()
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.closed {
			l.cond.Wait()
		}
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.invoke(fn)
	}
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("callback panicked", "panic", p)
		}
	}()
	fn()
}

// tracker is implemented by executors that wait for in-flight calls.
type tracker interface {
	begin()
	end()
}

// Go runs fn on a new goroutine and posts exactly one call of cb with its
// result to ex. A panic in fn is reported as an error result.
func Go[T any](ctx context.Context, ex Executor, fn func(context.Context) (T, error), cb func(Result[T])) {
	t, tracked := ex.(tracker)
	if tracked {
		t.begin()
	}
	go func() {
		if tracked {
			defer t.end()
		}
		r := call(ctx, fn)
		ex.Post(func() { cb(r) })
	}()
}

func call[T any](ctx context.Context, fn func(context.Context) (T, error)) (r Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			r = Result[T]{Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	v, err := fn(ctx)
	return Result[T]{Value: v, Err: err}
}
