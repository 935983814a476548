package coordinator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"quotedetail/internal/broadcast"
	"quotedetail/internal/fetcher"
)

// FetchFunc performs one gateway call for key
type FetchFunc[T any] func(ctx context.Context, key string) fetcher.Outcome[T]

// Runner starts a task in the background. conc.WaitGroup satisfies it.
type Runner interface {
	Go(func())
}

// State is the lifecycle position of a coordinator's cache slot
type State int

const (
	// StateEmpty means nothing has been requested yet
	StateEmpty State = iota
	// StatePending means a gateway call is in flight
	StatePending
	// StateCached means a success is stored. It is terminal.
	StateCached
	// StateFailed means the last call failed; the next request calls the gateway again
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePending:
		return "pending"
	case StateCached:
		return "cached"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config describes one entity kind handled by a Coordinator
type Config[T any] struct {
	// Name identifies the entity kind in logs (quote, history, news)
	Name string

	// Fetch calls the gateway
	Fetch FetchFunc[T]

	// Data receives successful payloads. Required.
	Data *broadcast.Channel[T]

	// Errors receives failure details. Required.
	Errors *broadcast.Channel[error]

	// Unauthorized receives a signal when the gateway rejects the credentials.
	// When nil, an unauthorized outcome is published to Errors instead.
	Unauthorized *broadcast.Channel[struct{}]

	// Clone copies a payload so the cached value is never shared with
	// observers. Required for reference payloads such as slices; nil means
	// values are copied on assignment.
	Clone func(T) T

	// Logger defaults to the global logger
	Logger *zerolog.Logger
}

// Coordinator fetches one entity kind at most once per session.
// The first success is cached for the lifetime of the coordinator and
// replayed on every later request; failures leave the slot empty so the
// next request goes back to the gateway.
type Coordinator[T any] struct {
	ctx    context.Context
	runner Runner
	cfg    Config[T]
	logger zerolog.Logger

	sf singleflight.Group

	mu       sync.Mutex
	cached   T
	has      bool
	inflight int
	failed   bool

	calls atomic.Int64
}

// New creates a Coordinator whose tasks run on runner and stop with ctx
func New[T any](ctx context.Context, runner Runner, cfg Config[T]) *Coordinator[T] {
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Coordinator[T]{
		ctx:    ctx,
		runner: runner,
		cfg:    cfg,
		logger: logger.With().Str("kind", cfg.Name).Logger(),
	}
}

// Request triggers a fetch for key. It never blocks on the gateway.
//
// With a cached success the value is re-published synchronously and the
// gateway is not contacted. Otherwise a background task calls the gateway,
// shared with any concurrent request for the same key, and publishes the
// classified outcome to exactly one channel.
func (c *Coordinator[T]) Request(key string) {
	if v, ok := c.Cached(); ok {
		c.logger.Debug().Str("key", key).Msg("Replaying cached value")
		c.cfg.Data.Publish(v)
		return
	}

	if c.ctx.Err() != nil {
		c.logger.Debug().Str("key", key).Msg("Request after teardown ignored")
		return
	}

	c.runner.Go(func() {
		c.run(key)
	})
}

// Cached returns a copy of the stored success, if any
func (c *Coordinator[T]) Cached() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.has {
		var zero T
		return zero, false
	}
	return c.clone(c.cached), true
}

// State reports where the cache slot is in its lifecycle
func (c *Coordinator[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.has:
		return StateCached
	case c.inflight > 0:
		return StatePending
	case c.failed:
		return StateFailed
	default:
		return StateEmpty
	}
}

// Calls returns how many times the gateway has been invoked
func (c *Coordinator[T]) Calls() int64 {
	return c.calls.Load()
}

func (c *Coordinator[T]) run(key string) {
	v, _, shared := c.sf.Do(key, func() (interface{}, error) {
		return c.load(key), nil
	})
	out := v.(fetcher.Outcome[T])

	// Partial results of a torn-down session are discarded
	if c.ctx.Err() != nil {
		c.logger.Debug().Str("key", key).Msg("Discarding result of cancelled fetch")
		return
	}

	c.publish(key, out, shared)
}

// load performs the gateway call and stores a success in the slot
func (c *Coordinator[T]) load(key string) fetcher.Outcome[T] {
	c.mu.Lock()
	if c.has {
		// A call for another key filled the slot while this one waited
		v := c.clone(c.cached)
		c.mu.Unlock()
		return fetcher.Success(v)
	}
	c.inflight++
	c.mu.Unlock()

	c.calls.Add(1)
	out := c.fetch(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.inflight--
	if c.ctx.Err() != nil {
		return out
	}

	if out.Kind != fetcher.KindSuccess {
		c.failed = true
		return out
	}

	// Only the first success is ever written
	if c.has {
		out.Value = c.clone(c.cached)
		return out
	}
	c.cached = c.clone(out.Value)
	c.has = true
	c.failed = false
	return out
}

func (c *Coordinator[T]) clone(v T) T {
	if c.cfg.Clone == nil {
		return v
	}
	return c.cfg.Clone(v)
}

// fetch runs the gateway call, converting a panic into a failure
func (c *Coordinator[T]) fetch(key string) (out fetcher.Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Str("key", key).Interface("panic", r).Msg("Gateway panicked")
			out = fetcher.Failure[T](fmt.Errorf("%s gateway panicked: %v", c.cfg.Name, r))
		}
	}()

	return c.cfg.Fetch(c.ctx, key)
}

func (c *Coordinator[T]) publish(key string, out fetcher.Outcome[T], shared bool) {
	event := c.logger.Debug().Str("key", key).Str("outcome", out.Kind.String()).Bool("shared", shared)

	switch out.Kind {
	case fetcher.KindSuccess:
		event.Msg("Fetch succeeded")
		c.cfg.Data.Publish(out.Value)
	case fetcher.KindUnauthorized:
		if c.cfg.Unauthorized != nil {
			event.Msg("Fetch unauthorized")
			c.cfg.Unauthorized.Publish(struct{}{})
			return
		}
		fallthrough
	default:
		err := out.Err
		if err == nil {
			err = fmt.Errorf("%s fetch for %s failed without detail", c.cfg.Name, key)
		}
		event.Err(err).Bool("retryable", fetcher.IsRetryable(err)).Msg("Fetch failed")
		c.cfg.Errors.Publish(err)
	}
}
