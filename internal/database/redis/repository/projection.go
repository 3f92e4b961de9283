package repository

import (
	"context"
	"errors"
	"fmt"

	"profile/internal/core"
	client "profile/internal/database/client"
	"profile/internal/telemetry"

	"github.com/redis/go-redis/v9"
)

// ProjectionRepository users 表在 Redis 上的投影（profile-entities / wxuser / pnrid-uid / profile）
type ProjectionRepository struct {
	trace  *telemetry.Trace
	client *redis.Client
}

func NewProjectionRepository(trace *telemetry.Trace, client *client.RedisClient) *ProjectionRepository {
	return &ProjectionRepository{trace: trace, client: client.Client()}
}

// Apply 在單一 MULTI/EXEC 內寫入所有使用者的投影；
// full 為 true 時先刪除所有投影 key，並重建 profile 列表。
func (repository *ProjectionRepository) Apply(contextValue context.Context, users []*core.User, full bool) (returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() {
		endSpan(returnedError)
	}()
	repository.trace.ApplyTraceAttributes(span, core.TraceSyncMeta{Full: full, Rows: len(users)})

	if !full && len(users) == 0 {
		return nil
	}

	payloads := make([][]byte, len(users))
	for i, user := range users {
		b, err := user.Projection().MarshalMsg(nil)
		if err != nil {
			return fmt.Errorf("encode user %s: %w", user.ID, err)
		}
		payloads[i] = b
	}

	var stale staleIndexes
	if !full {
		var err error
		if stale, err = repository.findStaleIndexes(contextValue, users); err != nil {
			return fmt.Errorf("read previous indexes: %w", err)
		}
	}

	_, err := repository.client.TxPipelined(contextValue, func(pipe redis.Pipeliner) error {
		if full {
			keys := make([]string, len(core.ProjectionKeys))
			for i, k := range core.ProjectionKeys {
				keys[i] = k.String()
			}
			pipe.Del(contextValue, keys...)
		}
		if len(stale.openIDs) > 0 {
			pipe.HDel(contextValue, core.RedisKeyWxUser.String(), stale.openIDs...)
		}
		if len(stale.pnrids) > 0 {
			pipe.HDel(contextValue, core.RedisKeyPnridUID.String(), stale.pnrids...)
		}
		for i, user := range users {
			if user.Pnrid != "" {
				pipe.HSet(contextValue, core.RedisKeyPnridUID.String(), user.Pnrid, user.ID)
			}
			// 沒有 openid 時移除 uid 那一側，反向的 "" 不建索引
			if user.OpenID != "" {
				pipe.HSet(contextValue, core.RedisKeyWxUser.String(), user.ID, user.OpenID, user.OpenID, user.ID)
			} else if !full {
				pipe.HDel(contextValue, core.RedisKeyWxUser.String(), user.ID)
			}
			pipe.HSet(contextValue, core.RedisKeyProfileEntities.String(), user.ID, payloads[i])
			if full {
				pipe.RPush(contextValue, core.RedisKeyProfileList.String(), user.ID)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("apply projection: %w", err)
	}
	return nil
}

// staleIndexes 舊 openid / pnrid 仍指向同一個 uid 的反向索引
type staleIndexes struct {
	openIDs []string
	pnrids  []string
}

// findStaleIndexes 比對目前投影與新資料，找出 openid 或 pnrid 變更後留下的反向索引
func (repository *ProjectionRepository) findStaleIndexes(contextValue context.Context, users []*core.User) (staleIndexes, error) {
	var stale staleIndexes
	uids := make([]string, len(users))
	for i, user := range users {
		uids[i] = user.ID
	}

	oldOpenIDs, err := repository.client.HMGet(contextValue, core.RedisKeyWxUser.String(), uids...).Result()
	if err != nil {
		return stale, err
	}
	oldEntities, err := repository.client.HMGet(contextValue, core.RedisKeyProfileEntities.String(), uids...).Result()
	if err != nil {
		return stale, err
	}

	owners := map[string]string{}
	var openIDCandidates, pnridCandidates []string
	for i, user := range users {
		if old, ok := oldOpenIDs[i].(string); ok && old != "" && old != user.OpenID {
			openIDCandidates = append(openIDCandidates, old)
			owners["wx:"+old] = user.ID
		}
		raw, ok := oldEntities[i].(string)
		if !ok {
			continue
		}
		previous, err := core.DecodeUser([]byte(raw))
		if err != nil {
			// 無法解碼的舊投影會被覆蓋，索引交給下次全量重建
			continue
		}
		if previous.Pnrid != "" && previous.Pnrid != user.Pnrid {
			pnridCandidates = append(pnridCandidates, previous.Pnrid)
			owners["pn:"+previous.Pnrid] = user.ID
		}
	}

	// 只移除仍指向該 uid 的項目，已被其他使用者接手的保留
	if stale.openIDs, err = repository.ownedBy(contextValue, core.RedisKeyWxUser.String(), "wx:", openIDCandidates, owners); err != nil {
		return stale, err
	}
	if stale.pnrids, err = repository.ownedBy(contextValue, core.RedisKeyPnridUID.String(), "pn:", pnridCandidates, owners); err != nil {
		return stale, err
	}
	return stale, nil
}

func (repository *ProjectionRepository) ownedBy(contextValue context.Context, key, prefix string, fields []string, owners map[string]string) ([]string, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	values, err := repository.client.HMGet(contextValue, key, fields...).Result()
	if err != nil {
		return nil, err
	}
	var owned []string
	for i, v := range values {
		if uid, ok := v.(string); ok && uid == owners[prefix+fields[i]] {
			owned = append(owned, fields[i])
		}
	}
	return owned, nil
}

// GetEntity 不存在時回傳 (nil, nil)
func (repository *ProjectionRepository) GetEntity(contextValue context.Context, uid string) (*core.User, error) {
	b, err := repository.client.HGet(contextValue, core.RedisKeyProfileEntities.String(), uid).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return core.DecodeUser(b)
}

// GetEntities 依 uids 順序回傳，不存在的略過
func (repository *ProjectionRepository) GetEntities(contextValue context.Context, uids []string) ([]*core.User, error) {
	if len(uids) == 0 {
		return []*core.User{}, nil
	}
	values, err := repository.client.HMGet(contextValue, core.RedisKeyProfileEntities.String(), uids...).Result()
	if err != nil {
		return nil, err
	}
	users := make([]*core.User, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		user, err := core.DecodeUser([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("decode user %s: %w", uids[i], err)
		}
		users = append(users, user)
	}
	return users, nil
}

// ListIDs LRANGE profile start stop（含 stop）
func (repository *ProjectionRepository) ListIDs(contextValue context.Context, start, stop int64) ([]string, error) {
	return repository.client.LRange(contextValue, core.RedisKeyProfileList.String(), start, stop).Result()
}

func (repository *ProjectionRepository) CountIDs(contextValue context.Context) (int64, error) {
	return repository.client.LLen(contextValue, core.RedisKeyProfileList.String()).Result()
}

// GetOpenID 未綁定時回傳空字串
func (repository *ProjectionRepository) GetOpenID(contextValue context.Context, uid string) (string, error) {
	openID, err := repository.client.HGet(contextValue, core.RedisKeyWxUser.String(), uid).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return openID, err
}

// GetInviteUID 邀請碼由外部流程寫入，這裡只讀
func (repository *ProjectionRepository) GetInviteUID(contextValue context.Context, key string) (string, error) {
	uid, err := repository.client.Get(contextValue, core.RedisKeyInvitePrefix.String()+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return uid, err
}
