package bridge

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"profile/config"
	"profile/internal/core"
	"profile/internal/database/fluentd/model"
	cErr "profile/internal/pkg/error"
	"profile/internal/telemetry"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HandlerFunc 回傳的 error 會轉成失敗的 Result
type HandlerFunc func(ctx context.Context, args []any) (any, error)

type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (*redis.PubSub, error)
}

type ResultWriter interface {
	Put(ctx context.Context, correlationID string, result *core.Result, ttl time.Duration) error
}

type CommandLogger interface {
	LogCommand(ctx context.Context, cmd model.CommandLog) error
}

// Executor 訂閱頻道、執行對應 handler，並對每個 command 寫回恰好一次結果
type Executor struct {
	channel    string
	ttl        time.Duration
	limit      int
	subscriber Subscriber
	results    ResultWriter
	commandLog CommandLogger
	trace      *telemetry.Trace
	metric     *telemetry.Metric
	logger     *zap.Logger

	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

func NewExecutor(
	conf *config.Configuration,
	subscriber Subscriber,
	results ResultWriter,
	commandLog CommandLogger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logger *zap.Logger,
) *Executor {
	return &Executor{
		channel:    conf.Bridge.ChannelName(),
		ttl:        conf.Bridge.ResultTTL(),
		limit:      conf.Bridge.WorkerLimit(),
		subscriber: subscriber,
		results:    results,
		commandLog: commandLog,
		trace:      trace,
		metric:     metric,
		logger:     logger,
		handlers:   map[string]HandlerFunc{},
	}
}

func (e *Executor) Register(cmd core.CommandName, handler HandlerFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[string(cmd)] = handler
}

func (e *Executor) handler(cmd string) (HandlerFunc, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	h, ok := e.handlers[cmd]
	return h, ok
}

// Run 阻塞直到 ctx 結束；離開前等待所有進行中的 command 寫完結果
func (e *Executor) Run(ctx context.Context) error {
	sub, err := e.subscriber.Subscribe(ctx, e.channel)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", e.channel, err)
	}
	defer sub.Close()
	e.logger.Info("executor: listening", zap.String("channel", e.channel), zap.Int("workers", e.limit))

	var group errgroup.Group
	group.SetLimit(e.limit)
	messages := sub.Channel()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case msg, ok := <-messages:
			if !ok {
				break loop
			}
			payload := []byte(msg.Payload)
			group.Go(func() error {
				e.Execute(context.WithoutCancel(ctx), payload)
				return nil
			})
		}
	}

	_ = group.Wait()
	e.logger.Info("executor: stopped", zap.String("channel", e.channel))
	return nil
}

// Execute 處理一則頻道訊息。沒有 correlation id 的訊息無法回覆，只記 log。
func (e *Executor) Execute(ctx context.Context, payload []byte) {
	start := time.Now()

	var envelope core.Envelope
	if _, err := envelope.UnmarshalMsg(payload); err != nil {
		e.logger.Warn("executor: drop undecodable message", zap.Int("bytes", len(payload)), zap.Error(err))
		return
	}
	correlationID, args, err := envelope.CorrelationID()
	if err != nil {
		e.logger.Warn("executor: drop message without correlation id", zap.Stringer("envelope", &envelope), zap.Error(err))
		return
	}

	ctx, span, end := e.trace.WithSpan(ctx, string(core.SpanExecute))
	result, panicked := e.invoke(ctx, envelope.Cmd, args)

	writeErr := e.results.Put(ctx, correlationID, result, e.ttl)
	if writeErr != nil {
		e.logger.Error("executor: write result",
			zap.String("cmd", envelope.Cmd), zap.String("correlation_id", correlationID), zap.Error(writeErr))
	}

	e.trace.ApplyTraceAttributes(span, core.TraceExecuteMeta{
		Command:       envelope.Cmd,
		CorrelationID: correlationID,
		ArgCount:      len(args),
		Code:          result.Code,
		Panicked:      panicked,
	})
	end(writeErr)
	e.metric.IncExecuted(envelope.Cmd, result.Code)

	if e.commandLog != nil {
		if err := e.commandLog.LogCommand(ctx, model.CommandLog{
			CorrelationID: correlationID,
			Command:       envelope.Cmd,
			Args:          fmt.Sprint(args),
			Code:          result.Code,
			Msg:           result.Msg,
			Panicked:      panicked,
			LatencyMs:     float64(time.Since(start).Microseconds()) / 1000,
		}); err != nil {
			e.logger.Warn("executor: ship command log", zap.Error(err))
		}
	}
}

func (e *Executor) invoke(ctx context.Context, cmd string, args []any) (result *core.Result, panicked bool) {
	handler, ok := e.handler(cmd)
	if !ok {
		return cErr.ToResult(cErr.ValidateArgsErr("unknown command: " + cmd)), false
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("executor: handler panic",
				zap.String("cmd", cmd), zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			result = core.Fail(http.StatusInternalServerError, fmt.Sprintf("%s panicked: %v", cmd, r))
			panicked = true
		}
	}()

	data, err := handler(ctx, args)
	if err != nil {
		appErr := cErr.From(err)
		if appErr.HttpCode() >= http.StatusInternalServerError {
			e.logger.Error("executor: command failed", zap.String("cmd", cmd), zap.Error(err))
		}
		return cErr.ToResult(appErr), false
	}
	return core.OK(data), false
}
