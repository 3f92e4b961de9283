package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"profile/config"
	"profile/internal/core"
	client "profile/internal/database/client"
	"profile/internal/database/fluentd/model"
	redisRepo "profile/internal/database/redis/repository"
	cErr "profile/internal/pkg/error"
	"profile/internal/telemetry"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	mr         *miniredis.Miniredis
	dispatcher *Dispatcher
	executor   *Executor
	results    *redisRepo.ResultRepository
	logs       *commandLogs
}

type commandLogs struct {
	mu   sync.Mutex
	logs []model.CommandLog
}

func (c *commandLogs) LogCommand(_ context.Context, cmd model.CommandLog) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs = append(c.logs, cmd)
	return nil
}

func (c *commandLogs) snapshot() []model.CommandLog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.CommandLog(nil), c.logs...)
}

func newHarness(t *testing.T, timeout time.Duration) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	rc := client.NewRedisClientFrom(zap.NewNop(), rdb)

	conf := &config.Configuration{}
	conf.Bridge.Channel = "profile-test"
	conf.Bridge.TimeoutMs = timeout.Milliseconds()
	conf.Bridge.PollIntervalMs = 10
	conf.Bridge.ResultTTLSec = 30
	conf.Bridge.Workers = 4

	channel := redisRepo.NewChannelRepository(rc)
	results := redisRepo.NewResultRepository(rc)
	logs := &commandLogs{}
	trace, metric := &telemetry.Trace{}, &telemetry.Metric{}
	return &harness{
		mr:         mr,
		dispatcher: NewDispatcher(conf, channel, results, trace, metric, zap.NewNop()),
		executor:   NewExecutor(conf, channel, results, logs, trace, metric, zap.NewNop()),
		results:    results,
		logs:       logs,
	}
}

// start 執行 executor，並等到訂閱生效
func (h *harness) start(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.executor.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	require.Eventually(t, func() bool {
		return h.mr.PubSubNumSub("profile-test")["profile-test"] == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestDispatchRoundTrip(t *testing.T) {
	h := newHarness(t, 2*time.Second)
	h.executor.Register("echo", func(_ context.Context, args []any) (any, error) {
		return map[string]any{"args": args}, nil
	})
	h.start(t)

	result, err := h.dispatcher.Dispatch(context.Background(), "echo", "u1", true)
	require.NoError(t, err)
	require.Equal(t, 200, result.Code)
	data, ok := result.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"u1", true}, data["args"], "correlation id is stripped before the handler")

	assert.Empty(t, h.mr.Keys(), "result key is consumed by the dispatcher")
	require.Eventually(t, func() bool { return len(h.logs.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "echo", h.logs.snapshot()[0].Command)
}

func TestDispatchCarriesApplicationFailures(t *testing.T) {
	h := newHarness(t, 2*time.Second)
	h.executor.Register("bind", func(context.Context, []any) (any, error) {
		return nil, cErr.BindingConflict("insured already verified by another user")
	})
	h.start(t)

	result, err := h.dispatcher.Dispatch(context.Background(), "bind", "u1", "P-1")
	require.NoError(t, err, "application failures are not bridge errors")
	assert.Equal(t, 409, result.Code)
	assert.Equal(t, "insured already verified by another user", result.Msg)
	assert.ErrorIs(t, cErr.FromResult(result), cErr.BindingConflict(""))
}

func TestDispatchTimeout(t *testing.T) {
	h := newHarness(t, 150*time.Millisecond)

	start := time.Now()
	result, err := h.dispatcher.Dispatch(context.Background(), core.CommandRefresh)
	elapsed := time.Since(start)

	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, cErr.DispatchTimeout(""))
	assert.GreaterOrEqual(t, elapsed, 150*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestDispatchHonoursContext(t *testing.T) {
	h := newHarness(t, 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := h.dispatcher.Dispatch(ctx, core.CommandRefresh)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLateResultExpires(t *testing.T) {
	h := newHarness(t, 50*time.Millisecond)
	release := make(chan struct{})
	h.executor.Register("slow", func(context.Context, []any) (any, error) {
		<-release
		return "late", nil
	})
	h.start(t)

	_, err := h.dispatcher.Dispatch(context.Background(), "slow")
	require.ErrorIs(t, err, cErr.DispatchTimeout(""))

	close(release)
	require.Eventually(t, func() bool { return len(h.mr.Keys()) == 1 }, time.Second, 5*time.Millisecond)
	key := h.mr.Keys()[0]
	assert.Equal(t, 30*time.Second, h.mr.TTL(key), "orphaned result carries a TTL")

	h.mr.FastForward(31 * time.Second)
	assert.False(t, h.mr.Exists(key))
}

func TestPanickingHandlerStillAnswers(t *testing.T) {
	h := newHarness(t, 2*time.Second)
	h.executor.Register("boom", func(context.Context, []any) (any, error) {
		panic("nil map")
	})
	h.executor.Register("ok", func(context.Context, []any) (any, error) { return "fine", nil })
	h.start(t)

	result, err := h.dispatcher.Dispatch(context.Background(), "boom")
	require.NoError(t, err)
	assert.Equal(t, 500, result.Code)
	assert.Contains(t, result.Msg, "nil map")

	result, err = h.dispatcher.Dispatch(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, "fine", result.Data, "executor keeps serving after a panic")

	var panicked bool
	for _, l := range h.logs.snapshot() {
		panicked = panicked || l.Panicked
	}
	assert.True(t, panicked)
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t, 2*time.Second)
	h.start(t)

	result, err := h.dispatcher.Dispatch(context.Background(), "nope")
	require.NoError(t, err)
	assert.Equal(t, 400, result.Code)
}

func TestConcurrentDispatchesGetTheirOwnResults(t *testing.T) {
	h := newHarness(t, 3*time.Second)
	h.executor.Register("echo", func(_ context.Context, args []any) (any, error) {
		time.Sleep(5 * time.Millisecond)
		return args[0], nil
	})
	h.start(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			want := fmt.Sprintf("req-%d", i)
			result, err := h.dispatcher.Dispatch(context.Background(), "echo", want)
			if err != nil {
				errs <- err
				return
			}
			if result.Data != want {
				errs <- fmt.Errorf("got %v want %s", result.Data, want)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestExecuteWritesExactlyOnce(t *testing.T) {
	h := newHarness(t, time.Second)
	var calls int
	h.executor.Register("count", func(context.Context, []any) (any, error) {
		calls++
		return calls, nil
	})

	payload, err := (&core.Envelope{Cmd: "count", Args: []any{"cid-1"}}).MarshalMsg(nil)
	require.NoError(t, err)
	h.executor.Execute(context.Background(), payload)

	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"cid-1"}, h.mr.Keys())
	result, err := h.results.Take(context.Background(), "cid-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Data)
}

func TestExecuteDropsMessagesWithoutCorrelation(t *testing.T) {
	h := newHarness(t, time.Second)
	h.executor.Register("refresh", func(context.Context, []any) (any, error) {
		return nil, errors.New("must not run")
	})

	payload, err := (&core.Envelope{Cmd: "refresh"}).MarshalMsg(nil)
	require.NoError(t, err)
	h.executor.Execute(context.Background(), payload)
	h.executor.Execute(context.Background(), []byte("garbage"))

	assert.Empty(t, h.mr.Keys())
	assert.Empty(t, h.logs.snapshot())
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", outcome(core.OK(nil), nil))
	assert.Equal(t, "failed", outcome(core.Fail(409, "taken"), nil))
	assert.Equal(t, "timeout", outcome(nil, cErr.DispatchTimeout("refresh")))
	assert.Equal(t, "error", outcome(nil, errors.New("redis down")))
}
