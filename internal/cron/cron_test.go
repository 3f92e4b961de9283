package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"profile/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRefresher struct {
	mu   sync.Mutex
	uids []string
	err  error
}

func (r *countingRefresher) Sync(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uids = append(r.uids, uid)
	return r.err
}

func (r *countingRefresher) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.uids...)
}

func TestScheduledRefreshIsFull(t *testing.T) {
	refresher := &countingRefresher{}
	conf := &config.Configuration{Cron: config.Cron{RefreshSpec: "* * * * * *"}}
	c := NewCron(conf, zap.NewNop(), refresher)

	require.NoError(t, c.Run())
	assert.Eventually(t, func() bool { return len(refresher.calls()) > 0 }, 3*time.Second, 50*time.Millisecond)
	require.NoError(t, c.Stop(context.Background()))
	assert.Equal(t, "", refresher.calls()[0])
}

func TestNoSpecSchedulesNothing(t *testing.T) {
	c := NewCron(&config.Configuration{}, zap.NewNop(), &countingRefresher{})
	require.NoError(t, c.Run())
	assert.Empty(t, c.server.Entries())
	require.NoError(t, c.Stop(context.Background()))
}

func TestInvalidSpec(t *testing.T) {
	conf := &config.Configuration{Cron: config.Cron{RefreshSpec: "every day"}}
	c := NewCron(conf, zap.NewNop(), &countingRefresher{})
	assert.Error(t, c.Run())
}

func TestRefreshFailureIsLogged(t *testing.T) {
	refresher := &countingRefresher{err: errors.New("redis down")}
	c := NewCron(&config.Configuration{}, zap.NewNop(), refresher)
	assert.NotPanics(t, c.refreshAll)
	assert.Equal(t, []string{""}, refresher.calls())
}
