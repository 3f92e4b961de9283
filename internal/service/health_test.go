package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthReadiness(t *testing.T) {
	var pingErr error
	s := NewHealthService(pingFunc(func(context.Context) error { return pingErr }), zap.NewNop())

	assert.True(t, s.IsLive())
	ready, reason := s.Readiness(context.Background())
	assert.False(t, ready)
	assert.Equal(t, "starting", reason)

	s.SetReady(true)
	ready, _ = s.Readiness(context.Background())
	assert.True(t, ready)

	pingErr = errors.New("connection refused")
	ready, reason = s.Readiness(context.Background())
	assert.False(t, ready)
	assert.Equal(t, "store unreachable", reason)
}
