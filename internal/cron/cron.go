package cron

import (
	"context"
	"time"

	"profile/config"
	"profile/internal/projection"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(
	NewCron,
	wire.Bind(new(Refresher), new(*projection.Syncer)),
)

// Refresher 全量重建投影
type Refresher interface {
	Sync(ctx context.Context, uid string) error
}

type Cron struct {
	logger    *zap.Logger
	server    *cron.Cron
	spec      string
	timeout   time.Duration
	refresher Refresher
}

// NewCron .
func NewCron(conf *config.Configuration, logger *zap.Logger, refresher Refresher) *Cron {
	server := cron.New(
		cron.WithSeconds(),
		// 上一次全量 refresh 還沒跑完就跳過
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &Cron{
		logger:    logger,
		server:    server,
		spec:      conf.Cron.RefreshSpec,
		timeout:   conf.Cron.RefreshTimeout(),
		refresher: refresher,
	}
}

func (c *Cron) Run() error {
	if c.spec != "" {
		if _, err := c.server.AddFunc(c.spec, c.refreshAll); err != nil {
			return err
		}
		c.logger.Info("cron: full refresh scheduled", zap.String("spec", c.spec))
	}

	c.server.Start()
	return nil
}

func (c *Cron) refreshAll() {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	start := time.Now()
	if err := c.refresher.Sync(ctx, ""); err != nil {
		c.logger.Error("cron: full refresh", zap.Error(err))
		return
	}
	c.logger.Info("cron: full refresh done", zap.Duration("elapsed", time.Since(start)))
}

// Stop 等待執行中的 job 結束或 ctx 到期
func (c *Cron) Stop(ctx context.Context) error {
	done := c.server.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
