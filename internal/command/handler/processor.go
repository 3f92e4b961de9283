package command

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"profile/internal/bridge"
	"profile/internal/cron"
	"profile/internal/processor"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ProcessorHandler processor process：訂閱 command 頻道並執行所有寫入
type ProcessorHandler struct {
	logger    *zap.Logger
	executor  *bridge.Executor
	processor *processor.Processor
	cronSrv   *cron.Cron
}

func NewProcessorHandler(
	logger *zap.Logger,
	executor *bridge.Executor,
	processor *processor.Processor,
	cronSrv *cron.Cron,
) *ProcessorHandler {
	return &ProcessorHandler{
		logger:    logger,
		executor:  executor,
		processor: processor,
		cronSrv:   cronSrv,
	}
}

// Serve 阻塞到收到 SIGINT/SIGTERM，離開前等待進行中的 command 寫完結果
func (handler *ProcessorHandler) Serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler.processor.Register(handler.executor)
	if err := handler.cronSrv.Run(); err != nil {
		return err
	}
	handler.logger.Info("start processor ...")

	runErr := handler.executor.Run(ctx)

	handler.logger.Info("shutdown processor ...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := handler.cronSrv.Stop(stopCtx); err != nil {
		handler.logger.Warn("cron stop", zap.Error(err))
	}
	return runErr
}
