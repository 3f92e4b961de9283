package repository

import (
	"context"
	"testing"
	"time"

	"profile/internal/core"
	client "profile/internal/database/client"
	"profile/internal/telemetry"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *client.RedisClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, client.NewRedisClientFrom(zap.NewNop(), rdb)
}

func strPtr(s string) *string { return &s }

func testUsers() []*core.User {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return []*core.User{
		{ID: "u1", OpenID: "o1", Name: "Alice", Pnrid: "PN1", CreatedAt: created, UpdatedAt: created, Insured: strPtr("P-1")},
		{ID: "u2", OpenID: "o2", Name: "Bob", CreatedAt: created, UpdatedAt: created},
	}
}

func TestApplyPerUserWritesIndexes(t *testing.T) {
	mr, rc := newTestClient(t)
	repo := NewProjectionRepository(&telemetry.Trace{}, rc)
	ctx := context.Background()

	require.NoError(t, repo.Apply(ctx, testUsers()[:1], false))

	assert.Equal(t, "u1", mr.HGet("pnrid-uid", "PN1"))
	assert.Equal(t, "o1", mr.HGet("wxuser", "u1"))
	assert.Equal(t, "u1", mr.HGet("wxuser", "o1"))
	assert.False(t, mr.Exists("profile"), "per-user sync must not touch the list")

	got, err := repo.GetEntity(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alice", got.Name)
	assert.Empty(t, got.OpenID, "projection never carries openid")
	assert.Equal(t, "P-1", *got.Insured)
}

func TestApplySkipsEmptyPnrid(t *testing.T) {
	mr, rc := newTestClient(t)
	repo := NewProjectionRepository(&telemetry.Trace{}, rc)

	require.NoError(t, repo.Apply(context.Background(), testUsers()[1:], false))
	keys, err := mr.HKeys("pnrid-uid")
	if err == nil {
		assert.Empty(t, keys)
	}
	assert.Equal(t, "o2", mr.HGet("wxuser", "u2"))
}

func TestApplyFullRebuildClearsStaleEntries(t *testing.T) {
	mr, rc := newTestClient(t)
	repo := NewProjectionRepository(&telemetry.Trace{}, rc)
	ctx := context.Background()

	mr.HSet("profile-entities", "ghost", "stale")
	mr.HSet("pnrid-uid", "OLD", "ghost")
	mr.HSet("openid_ticket", "o9", "t9")
	_, _ = mr.RPush("profile", "ghost")

	users := testUsers()
	require.NoError(t, repo.Apply(ctx, users, true))
	first := mr.Dump()
	require.NoError(t, repo.Apply(ctx, users, true))
	assert.Equal(t, first, mr.Dump(), "full rebuild is idempotent")

	assert.Equal(t, "", mr.HGet("profile-entities", "ghost"))
	assert.Equal(t, "", mr.HGet("pnrid-uid", "OLD"))
	assert.False(t, mr.Exists("openid_ticket"))

	ids, err := repo.ListIDs(ctx, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, ids)

	count, err := repo.CountIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestApplyClearsRemovedOpenID(t *testing.T) {
	mr, rc := newTestClient(t)
	repo := NewProjectionRepository(&telemetry.Trace{}, rc)
	ctx := context.Background()

	user := &core.User{ID: "u1", OpenID: "o1", Pnrid: "PN1"}
	require.NoError(t, repo.Apply(ctx, []*core.User{user}, false))

	cleared := &core.User{ID: "u1", Pnrid: "PN1"}
	require.NoError(t, repo.Apply(ctx, []*core.User{cleared}, false))

	openID, err := repo.GetOpenID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, openID)
	assert.Empty(t, mr.HGet("wxuser", "o1"), "reverse entry of the old openid is removed")
	assert.Equal(t, "u1", mr.HGet("pnrid-uid", "PN1"))
}

func TestApplyMovesChangedIndexes(t *testing.T) {
	mr, rc := newTestClient(t)
	repo := NewProjectionRepository(&telemetry.Trace{}, rc)
	ctx := context.Background()

	require.NoError(t, repo.Apply(ctx, []*core.User{{ID: "u1", OpenID: "o1", Pnrid: "PN1"}}, false))
	require.NoError(t, repo.Apply(ctx, []*core.User{{ID: "u1", OpenID: "o2", Pnrid: "PN2"}}, false))

	assert.Equal(t, "o2", mr.HGet("wxuser", "u1"))
	assert.Equal(t, "u1", mr.HGet("wxuser", "o2"))
	assert.Empty(t, mr.HGet("wxuser", "o1"))
	assert.Equal(t, "u1", mr.HGet("pnrid-uid", "PN2"))
	assert.Empty(t, mr.HGet("pnrid-uid", "PN1"))
}

func TestApplyKeepsIndexTakenOverByAnotherUser(t *testing.T) {
	mr, rc := newTestClient(t)
	repo := NewProjectionRepository(&telemetry.Trace{}, rc)
	ctx := context.Background()

	require.NoError(t, repo.Apply(ctx, []*core.User{{ID: "u1", OpenID: "o1", Pnrid: "PN1"}}, false))
	// u2 先同步到 o1 / PN1，u1 之後才同步到清空後的狀態
	require.NoError(t, repo.Apply(ctx, []*core.User{{ID: "u2", OpenID: "o1", Pnrid: "PN1"}}, false))
	require.NoError(t, repo.Apply(ctx, []*core.User{{ID: "u1"}}, false))

	assert.Equal(t, "u2", mr.HGet("wxuser", "o1"))
	assert.Equal(t, "u2", mr.HGet("pnrid-uid", "PN1"))
	assert.Empty(t, mr.HGet("wxuser", "u1"))
}

func TestGetEntitiesSkipsMissing(t *testing.T) {
	_, rc := newTestClient(t)
	repo := NewProjectionRepository(&telemetry.Trace{}, rc)
	ctx := context.Background()
	require.NoError(t, repo.Apply(ctx, testUsers(), false))

	users, err := repo.GetEntities(ctx, []string{"u2", "nope", "u1"})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u2", users[0].ID)
	assert.Equal(t, "u1", users[1].ID)

	empty, err := repo.GetEntities(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLookups(t *testing.T) {
	mr, rc := newTestClient(t)
	repo := NewProjectionRepository(&telemetry.Trace{}, rc)
	ctx := context.Background()
	require.NoError(t, repo.Apply(ctx, testUsers(), false))
	require.NoError(t, mr.Set("InviteKey:abc", "u2"))

	openID, err := repo.GetOpenID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "o1", openID)

	openID, err = repo.GetOpenID(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, openID)

	uid, err := repo.GetInviteUID(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "u2", uid)

	uid, err = repo.GetInviteUID(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, uid)

	missing, err := repo.GetEntity(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestResultPutTake(t *testing.T) {
	mr, rc := newTestClient(t)
	repo := NewResultRepository(rc)
	ctx := context.Background()

	pending, err := repo.Take(ctx, "cid-1")
	require.NoError(t, err)
	assert.Nil(t, pending)

	require.NoError(t, repo.Put(ctx, "cid-1", core.Fail(409, "already bound"), 30*time.Second))
	assert.Equal(t, 30*time.Second, mr.TTL("cid-1"))

	got, err := repo.Take(ctx, "cid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 409, got.Code)
	assert.Equal(t, "already bound", got.Msg)
	assert.False(t, mr.Exists("cid-1"), "result is consumed")
}

func TestResultExpires(t *testing.T) {
	mr, rc := newTestClient(t)
	repo := NewResultRepository(rc)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "cid-2", core.OK(nil), time.Second))
	mr.FastForward(2 * time.Second)

	got, err := repo.Take(ctx, "cid-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestChannelPublishSubscribe(t *testing.T) {
	_, rc := newTestClient(t)
	repo := NewChannelRepository(rc)
	ctx := context.Background()

	receivers, err := repo.Publish(ctx, "profile", []byte("lost"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), receivers, "no subscriber, message dropped")

	sub, err := repo.Subscribe(ctx, "profile")
	require.NoError(t, err)
	defer sub.Close()

	receivers, err = repo.Publish(ctx, "profile", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), receivers)

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, "hello", msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}
