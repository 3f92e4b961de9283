package service

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const storePingTimeout = time.Second

// StorePinger 投影儲存的連線檢查
type StorePinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	live   atomic.Bool
	ready  atomic.Bool
	store  StorePinger
	logger *zap.Logger
}

func NewHealthService(store StorePinger, logger *zap.Logger) *HealthService {
	s := &HealthService{store: store, logger: logger}
	s.live.Store(true)
	s.ready.Store(false) // 啟動完成後再打開
	return s
}

func (s *HealthService) SetReady(v bool) {
	s.ready.Store(v)
}

func (s *HealthService) IsLive() bool {
	return s.live.Load()
}

// Readiness 服務已啟動且 redis 可連線才算 ready；回傳不 ready 的原因
func (s *HealthService) Readiness(ctx context.Context) (bool, string) {
	if !s.ready.Load() {
		return false, "starting"
	}
	if s.store == nil {
		return true, ""
	}
	ctx, cancel := context.WithTimeout(ctx, storePingTimeout)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("projection store unreachable", zap.Error(err))
		return false, "store unreachable"
	}
	return true, ""
}
