// Package runtime wraps a core Machine with a buffered event queue and a
// single drain goroutine, giving callers a goroutine-safe front end without
// locking inside the engine. An optional zap logger observes every applied
// transition.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comalice/variantx"
	"github.com/comalice/variantx/persist"
)

var (
	ErrQueueFull   = errors.New("event queue is full")
	ErrNotStarted  = errors.New("runtime not started")
	ErrStopped     = errors.New("runtime stopped")
	ErrRunning     = errors.New("runtime is running")
	ErrPayloadType = errors.New("snapshot payload has wrong type")
)

const defaultQueueSize = 256

// Observer is invoked after each applied event with the values before and
// after. Observers run on the drain goroutine; keep them short.
type Observer[V comparable, E comparable, P any] func(from, to variantx.Value[V, P], event E)

// Option configures a Runtime.
type Option[V comparable, E comparable, P any] func(*Runtime[V, E, P])

// WithQueueSize sets the event queue capacity (default 256).
func WithQueueSize[V comparable, E comparable, P any](n int) Option[V, E, P] {
	return func(r *Runtime[V, E, P]) {
		if n > 0 {
			r.queueSize = n
		}
	}
}

// WithObserver registers a transition observer.
func WithObserver[V comparable, E comparable, P any](fn Observer[V, E, P]) Option[V, E, P] {
	return func(r *Runtime[V, E, P]) {
		if fn != nil {
			r.observers = append(r.observers, fn)
		}
	}
}

// WithLogger installs a structured-logging observer plus error logging for
// dropped events and failed rules.
func WithLogger[V comparable, E comparable, P any](logger *zap.Logger) Option[V, E, P] {
	return func(r *Runtime[V, E, P]) {
		r.logger = logger
	}
}

// Runtime drives a Machine from a buffered event queue. All machine access
// happens on the drain goroutine; Current reads a published copy.
type Runtime[V comparable, E comparable, P any] struct {
	name      string
	machine   *variantx.Machine[V, E, P]
	ext       *variantx.Context
	logger    *zap.Logger
	observers []Observer[V, E, P]
	queueSize int

	queue   chan E
	quit    chan struct{}
	done    chan struct{}
	pending sync.WaitGroup

	mu      sync.RWMutex
	current variantx.Value[V, P]
	started bool
	stopped bool
}

// New creates a runtime named name over machine. Pass nil ext for
// auto-creation, or a custom Context to share extended state with observers.
func New[V comparable, E comparable, P any](name string, machine *variantx.Machine[V, E, P], ext *variantx.Context, opts ...Option[V, E, P]) *Runtime[V, E, P] {
	if ext == nil {
		ext = variantx.NewContext()
	}
	r := &Runtime[V, E, P]{
		name:      name,
		machine:   machine,
		ext:       ext,
		queueSize: defaultQueueSize,
		current:   machine.Current(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger != nil {
		r.observers = append(r.observers, r.logTransition)
	}
	return r
}

// Start launches the drain goroutine. The runtime stops when ctx is
// cancelled or Stop is called, whichever comes first.
func (r *Runtime[V, E, P]) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return ErrRunning
	}
	r.started = true
	r.queue = make(chan E, r.queueSize)
	r.quit = make(chan struct{})
	r.done = make(chan struct{})

	go r.drain(ctx)
	return nil
}

// Send enqueues an event without blocking. A saturated queue reports
// ErrQueueFull rather than stalling the caller.
//
// The read lock is held across the enqueue: shutdown flips stopped under the
// write lock before closing quit, so any event that makes it into the queue
// here is guaranteed to be seen by the final flush. The select below never
// blocks, so holding the lock is safe.
func (r *Runtime[V, E, P]) Send(event E) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.started {
		return ErrNotStarted
	}
	if r.stopped {
		return ErrStopped
	}

	r.pending.Add(1)
	select {
	case r.queue <- event:
		return nil
	default:
		r.pending.Done()
		if r.logger != nil {
			r.logger.Warn("event dropped",
				zap.String("machine", r.name),
				zap.Any("event", event))
		}
		return ErrQueueFull
	}
}

// Drain blocks until every enqueued event has been applied.
func (r *Runtime[V, E, P]) Drain() {
	r.pending.Wait()
}

// Stop applies any buffered events, then shuts the drain goroutine down.
// Idempotent; safe to call alongside context cancellation.
func (r *Runtime[V, E, P]) Stop() {
	r.mu.Lock()
	if !r.started || r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.quit)
	<-r.done
}

// Current returns the value most recently published by the drain goroutine.
func (r *Runtime[V, E, P]) Current() variantx.Value[V, P] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Ext returns the extended-state context shared with observers.
func (r *Runtime[V, E, P]) Ext() *variantx.Context {
	return r.ext
}

// Snapshot captures the current value for persistence. The variant goes out
// under its raw name.
func (r *Runtime[V, E, P]) Snapshot() (persist.Snapshot, error) {
	cur := r.Current()
	name, err := r.machine.Set().Name(cur.Tag())
	if err != nil {
		return persist.Snapshot{}, err
	}
	snap := persist.Snapshot{
		Machine: r.name,
		Variant: name,
		TakenAt: time.Now().UTC(),
	}
	if payload, ok := cur.Payload(); ok {
		snap.Payload = payload
	}
	return snap, nil
}

// Restore rehydrates the machine from a snapshot. Only valid while the
// runtime is not running; a live drain goroutine owns the machine.
func (r *Runtime[V, E, P]) Restore(snapshot persist.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started && !r.stopped {
		return ErrRunning
	}

	tag, err := r.machine.Set().Parse(snapshot.Variant)
	if err != nil {
		return err
	}
	val := variantx.NewValue[V, P](tag)
	if snapshot.Payload != nil {
		payload, err := coercePayload[P](snapshot.Payload)
		if err != nil {
			return fmt.Errorf("restore %s: %w", r.name, err)
		}
		val = variantx.NewValueWith(tag, payload)
	}
	if err := r.machine.Restore(val); err != nil {
		return err
	}
	r.current = val
	return nil
}

// drain applies events until told to stop, then flushes what is buffered.
func (r *Runtime[V, E, P]) drain(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			r.markStopped()
			r.flush()
			return
		case <-r.quit:
			r.flush()
			return
		case event := <-r.queue:
			r.apply(event)
		}
	}
}

// flush applies whatever is already buffered without waiting for more.
func (r *Runtime[V, E, P]) flush() {
	for {
		select {
		case event := <-r.queue:
			r.apply(event)
		default:
			return
		}
	}
}

func (r *Runtime[V, E, P]) markStopped() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
}

func (r *Runtime[V, E, P]) apply(event E) {
	defer r.pending.Done()

	from := r.machine.Current()
	to, err := r.machine.Send(event)
	if err != nil {
		if r.logger != nil {
			r.logger.Error("event rejected",
				zap.String("machine", r.name),
				zap.Any("event", event),
				zap.Error(err))
		}
		return
	}

	r.mu.Lock()
	r.current = to
	r.mu.Unlock()

	for _, fn := range r.observers {
		fn(from, to, event)
	}
}

func (r *Runtime[V, E, P]) logTransition(from, to variantx.Value[V, P], event E) {
	r.logger.Info("transition",
		zap.String("machine", r.name),
		zap.Any("event", event),
		zap.String("from", r.nameOf(from.Tag())),
		zap.String("to", r.nameOf(to.Tag())))
}

// coercePayload recovers the machine's payload type from a deserialized
// snapshot. encoding/json decodes every number as float64, so a direct type
// assertion is tried first and numeric payloads are then converted, provided
// the conversion is lossless (an integral float may become an int, 2.5 may
// not).
func coercePayload[P any](payload any) (P, error) {
	if p, ok := payload.(P); ok {
		return p, nil
	}
	var zero P
	want := reflect.TypeOf(&zero).Elem()
	got := reflect.ValueOf(payload)
	if got.IsValid() && numericKind(got.Kind()) && numericKind(want.Kind()) && got.Type().ConvertibleTo(want) {
		if f, ok := payload.(float64); ok && want.Kind() != reflect.Float32 && want.Kind() != reflect.Float64 {
			if f != math.Trunc(f) {
				return zero, fmt.Errorf("payload %v: %w", payload, ErrPayloadType)
			}
		}
		return got.Convert(want).Interface().(P), nil
	}
	return zero, fmt.Errorf("payload %T: %w", payload, ErrPayloadType)
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func (r *Runtime[V, E, P]) nameOf(tag V) string {
	name, err := r.machine.Set().Name(tag)
	if err != nil {
		return fmt.Sprintf("%v", tag)
	}
	return name
}
