package command

import (
	"context"
	"time"

	"profile/internal/projection"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const refreshTimeout = 10 * time.Minute

// RefreshHandler 不經過 bridge，直接在本機跑一次 Sync Engine
type RefreshHandler struct {
	logger *zap.Logger
	syncer *projection.Syncer
}

func NewRefreshHandler(logger *zap.Logger, syncer *projection.Syncer) *RefreshHandler {
	return &RefreshHandler{
		logger: logger,
		syncer: syncer,
	}
}

// Refresh 沒有參數時全量重建，否則依序同步每個 uid
func (handler *RefreshHandler) Refresh(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), refreshTimeout)
	defer cancel()

	start := time.Now()
	if len(args) == 0 {
		if err := handler.syncer.Sync(ctx, ""); err != nil {
			return err
		}
		cmd.Println("full refresh done in", time.Since(start).Round(time.Millisecond))
		return nil
	}
	if err := handler.syncer.SyncMany(ctx, args...); err != nil {
		return err
	}
	handler.logger.Info("refresh done", zap.Strings("uids", args), zap.Duration("elapsed", time.Since(start)))
	cmd.Printf("refreshed %d user(s)\n", len(args))
	return nil
}
