package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"profile/config"
	"profile/internal/core"
	cErr "profile/internal/pkg/error"
	"profile/internal/telemetry"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// Publisher 單向頻道，不保證送達
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) (int64, error)
}

// ResultTaker 取出並刪除 correlation 結果；尚未寫入時回傳 (nil, nil)
type ResultTaker interface {
	Take(ctx context.Context, correlationID string) (*core.Result, error)
}

// Dispatcher 發佈 command 並在呼叫者的 goroutine 內輪詢對應結果
type Dispatcher struct {
	channel   string
	timeout   time.Duration
	interval  time.Duration
	publisher Publisher
	results   ResultTaker
	trace     *telemetry.Trace
	metric    *telemetry.Metric
	logger    *zap.Logger
}

func NewDispatcher(conf *config.Configuration, publisher Publisher, results ResultTaker, trace *telemetry.Trace, metric *telemetry.Metric, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		channel:   conf.Bridge.ChannelName(),
		timeout:   conf.Bridge.Timeout(),
		interval:  conf.Bridge.PollInterval(),
		publisher: publisher,
		results:   results,
		trace:     trace,
		metric:    metric,
		logger:    logger,
	}
}

// Dispatch 發送到 processor 的頻道
func (d *Dispatcher) Dispatch(ctx context.Context, cmd core.CommandName, args ...any) (*core.Result, error) {
	return d.DispatchTo(ctx, d.channel, cmd, args...)
}

// DispatchTo 回傳的 error 只代表 bridge 本身失敗（逾時、store 錯誤）；
// 業務失敗放在 Result.Code。
func (d *Dispatcher) DispatchTo(ctx context.Context, channel string, cmd core.CommandName, args ...any) (result *core.Result, err error) {
	start := time.Now()
	correlationID := ksuid.New().String()

	ctx, span, end := d.trace.WithSpan(ctx, string(core.SpanDispatch))
	meta := core.TraceDispatchMeta{Channel: channel, Command: string(cmd), CorrelationID: correlationID}
	defer func() {
		if result != nil {
			meta.Code = result.Code
		}
		d.trace.ApplyTraceAttributes(span, meta)
		d.metric.ObserveDispatch(string(cmd), outcome(result, err), time.Since(start))
		end(err)
	}()

	envelope := core.Envelope{Cmd: string(cmd), Args: append(append(make([]any, 0, len(args)+1), args...), correlationID)}
	payload, err := envelope.MarshalMsg(nil)
	if err != nil {
		return nil, cErr.InternalServer(fmt.Sprintf("encode %s: %v", cmd, err))
	}

	receivers, err := d.publisher.Publish(ctx, channel, payload)
	if err != nil {
		d.logger.Error("dispatch: publish", zap.String("channel", channel), zap.String("cmd", string(cmd)), zap.Error(err))
		return nil, cErr.StoreError(err.Error())
	}
	if receivers == 0 {
		d.logger.Warn("dispatch: no subscriber on channel",
			zap.String("channel", channel), zap.String("cmd", string(cmd)), zap.String("correlation_id", correlationID))
	}

	deadline := time.NewTimer(d.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			meta.TimedOut = true
			d.logger.Warn("dispatch: timed out waiting for result",
				zap.String("cmd", string(cmd)), zap.String("correlation_id", correlationID), zap.Duration("timeout", d.timeout))
			return nil, cErr.DispatchTimeout(fmt.Sprintf("%s: no result within %s", cmd, d.timeout))
		case <-ticker.C:
			meta.Polls++
			result, err = d.results.Take(ctx, correlationID)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				d.logger.Error("dispatch: read result", zap.String("correlation_id", correlationID), zap.Error(err))
				return nil, cErr.StoreError(err.Error())
			}
			if result != nil {
				return result, nil
			}
		}
	}
}

func outcome(result *core.Result, err error) string {
	var appErr *cErr.Error
	switch {
	case errors.As(err, &appErr) && appErr.ErrorCode() == cErr.DISPATCH_TIMEOUT:
		return "timeout"
	case err != nil:
		return "error"
	case result.Succeeded():
		return "ok"
	default:
		return "failed"
	}
}
