package coordinator

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotedetail/internal/broadcast"
	"quotedetail/internal/fetcher"
)

type harness struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     *conc.WaitGroup

	data         *broadcast.Channel[string]
	errs         *broadcast.Channel[error]
	unauthorized *broadcast.Channel[struct{}]
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return &harness{
		ctx:          ctx,
		cancel:       cancel,
		wg:           conc.NewWaitGroup(),
		data:         broadcast.New[string]("data"),
		errs:         broadcast.New[error]("error"),
		unauthorized: broadcast.New[struct{}]("unauthorized"),
	}
}

func (h *harness) coordinator(fetch FetchFunc[string], withUnauthorized bool) *Coordinator[string] {
	cfg := Config[string]{
		Name:   "test",
		Fetch:  fetch,
		Data:   h.data,
		Errors: h.errs,
	}
	if withUnauthorized {
		cfg.Unauthorized = h.unauthorized
	}
	return New(h.ctx, h.wg, cfg)
}

func (h *harness) published() (data, errs, unauthorized int64) {
	return h.data.Stats().Published, h.errs.Stats().Published, h.unauthorized.Stats().Published
}

// countingFetch returns the given outcomes in order, repeating the last one
func countingFetch(outcomes ...fetcher.Outcome[string]) (FetchFunc[string], *atomic.Int64) {
	var calls atomic.Int64
	return func(ctx context.Context, key string) fetcher.Outcome[string] {
		n := calls.Add(1)
		if int(n) > len(outcomes) {
			return outcomes[len(outcomes)-1]
		}
		return outcomes[n-1]
	}, &calls
}

func TestRequest_SuccessIsCached(t *testing.T) {
	h := newHarness(t)
	fetch, calls := countingFetch(fetcher.Success("AAPL@150.00"))
	c := h.coordinator(fetch, false)

	assert.Equal(t, StateEmpty, c.State())

	c.Request("AAPL")
	h.wg.Wait()

	v, ok := h.data.Observe()
	require.True(t, ok)
	assert.Equal(t, "AAPL@150.00", v)
	assert.Equal(t, StateCached, c.State())

	// Replay is synchronous and does not touch the gateway
	c.Request("AAPL")
	h.wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, int64(1), c.Calls())
	data, errs, _ := h.published()
	assert.Equal(t, int64(2), data)
	assert.Equal(t, int64(0), errs)

	cached, ok := c.Cached()
	require.True(t, ok)
	assert.Equal(t, "AAPL@150.00", cached)
}

func TestRequest_FailureIsRetryable(t *testing.T) {
	h := newHarness(t)
	fetchErr := fetcher.NewServerError(503)
	fetch, calls := countingFetch(
		fetcher.Failure[string](fetchErr),
		fetcher.Success("recovered"),
	)
	c := h.coordinator(fetch, false)

	c.Request("AAPL")
	h.wg.Wait()

	err, ok := h.errs.Observe()
	require.True(t, ok)
	assert.Same(t, fetchErr, err)
	_, cached := c.Cached()
	assert.False(t, cached)
	assert.Equal(t, StateFailed, c.State())

	c.Request("AAPL")
	h.wg.Wait()

	assert.Equal(t, int64(2), calls.Load())
	v, ok := h.data.Observe()
	require.True(t, ok)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, StateCached, c.State())
}

func TestRequest_TwoWayExclusivity(t *testing.T) {
	tests := []struct {
		name     string
		outcome  fetcher.Outcome[string]
		wantData int64
		wantErrs int64
	}{
		{"success", fetcher.Success("v"), 1, 0},
		{"failure", fetcher.Failure[string](errors.New("boom")), 0, 1},
		{"unauthorized without channel", fetcher.Unauthorized[string](), 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			fetch, _ := countingFetch(tt.outcome)
			c := h.coordinator(fetch, false)

			c.Request("k")
			h.wg.Wait()

			data, errs, unauthorized := h.published()
			assert.Equal(t, tt.wantData, data)
			assert.Equal(t, tt.wantErrs, errs)
			assert.Equal(t, int64(0), unauthorized)
		})
	}
}

func TestRequest_UnauthorizedWithoutChannelCarriesSentinel(t *testing.T) {
	h := newHarness(t)
	fetch, _ := countingFetch(fetcher.Unauthorized[string]())
	c := h.coordinator(fetch, false)

	c.Request("k")
	h.wg.Wait()

	err, ok := h.errs.Observe()
	require.True(t, ok)
	assert.True(t, fetcher.IsUnauthorized(err))
}

func TestRequest_ThreeWayExclusivity(t *testing.T) {
	tests := []struct {
		name    string
		outcome fetcher.Outcome[string]
		want    [3]int64
	}{
		{"success", fetcher.Success("articles"), [3]int64{1, 0, 0}},
		{"failure", fetcher.Failure[string](fetcher.NewNetworkError(errors.New("reset"))), [3]int64{0, 1, 0}},
		{"unauthorized", fetcher.Unauthorized[string](), [3]int64{0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			fetch, _ := countingFetch(tt.outcome)
			c := h.coordinator(fetch, true)

			c.Request("Apple AAPL stock")
			h.wg.Wait()

			data, errs, unauthorized := h.published()
			assert.Equal(t, tt.want, [3]int64{data, errs, unauthorized})
		})
	}
}

func TestRequest_UnauthorizedDoesNotPopulateSlot(t *testing.T) {
	h := newHarness(t)
	fetch, calls := countingFetch(fetcher.Unauthorized[string]())
	c := h.coordinator(fetch, true)

	c.Request("q")
	h.wg.Wait()
	c.Request("q")
	h.wg.Wait()

	assert.Equal(t, int64(2), calls.Load())
	_, cached := c.Cached()
	assert.False(t, cached)
	assert.Equal(t, int64(2), h.unauthorized.Stats().Published)
}

func TestRequest_SingleFlight(t *testing.T) {
	h := newHarness(t)

	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	var calls atomic.Int64
	c := h.coordinator(func(ctx context.Context, key string) fetcher.Outcome[string] {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-release
		return fetcher.Success("shared")
	}, false)

	c.Request("AAPL")
	<-started
	assert.Equal(t, StatePending, c.State())

	for i := 0; i < 4; i++ {
		c.Request("AAPL")
	}
	// Give the extra requests time to join the in-flight call
	time.Sleep(50 * time.Millisecond)
	close(release)
	h.wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	v, ok := h.data.Observe()
	require.True(t, ok)
	assert.Equal(t, "shared", v)
	assert.Equal(t, int64(5), h.data.Stats().Published)
}

func TestRequest_FirstSuccessWins(t *testing.T) {
	h := newHarness(t)

	first := make(chan struct{})
	c := h.coordinator(func(ctx context.Context, key string) fetcher.Outcome[string] {
		if key == "slow" {
			<-first
		}
		return fetcher.Success(key)
	}, false)

	c.Request("slow")
	c.Request("fast")

	require.Eventually(t, func() bool {
		_, ok := c.Cached()
		return ok
	}, time.Second, 5*time.Millisecond)

	close(first)
	h.wg.Wait()

	cached, _ := c.Cached()
	assert.Equal(t, "fast", cached)
	v, _ := h.data.Observe()
	assert.Equal(t, "fast", v)
}

func TestRequest_CancelledTaskDoesNotPublish(t *testing.T) {
	h := newHarness(t)

	started := make(chan struct{})
	c := h.coordinator(func(ctx context.Context, key string) fetcher.Outcome[string] {
		close(started)
		<-ctx.Done()
		return fetcher.Success("stale")
	}, true)

	c.Request("AAPL")
	<-started
	h.cancel()
	h.wg.Wait()

	data, errs, unauthorized := h.published()
	assert.Zero(t, data+errs+unauthorized)
	_, cached := c.Cached()
	assert.False(t, cached)

	// Requests after teardown are ignored
	c.Request("AAPL")
	h.wg.Wait()
	assert.Equal(t, int64(1), c.Calls())
}

func TestRequest_GatewayPanicBecomesFailure(t *testing.T) {
	h := newHarness(t)
	c := h.coordinator(func(ctx context.Context, key string) fetcher.Outcome[string] {
		panic("parser exploded")
	}, false)

	c.Request("AAPL")
	h.wg.Wait()

	err, ok := h.errs.Observe()
	require.True(t, ok)
	assert.Contains(t, err.Error(), "parser exploded")
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "empty", StateEmpty.String())
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "cached", StateCached.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "state(9)", State(9).String())
}

func TestRequest_CachedSliceIsNotSharedWithObservers(t *testing.T) {
	h := newHarness(t)
	data := broadcast.New[[]int]("data")
	c := New(h.ctx, h.wg, Config[[]int]{
		Name: "history",
		Fetch: func(ctx context.Context, key string) fetcher.Outcome[[]int] {
			return fetcher.Success([]int{1, 2, 3})
		},
		Data:   data,
		Errors: h.errs,
		Clone:  slices.Clone[[]int],
	})

	sub := data.Subscribe()
	c.Request("AAPL")

	var first []int
	select {
	case first = <-sub.C:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first delivery")
	}
	first[0] = 999

	c.Request("AAPL")
	var replayed []int
	select {
	case replayed = <-sub.C:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for replay")
	}
	assert.Equal(t, []int{1, 2, 3}, replayed)

	replayed[1] = 999
	cached, ok := c.Cached()
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, cached)
}
