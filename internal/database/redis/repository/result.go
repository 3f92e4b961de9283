package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"profile/internal/core"
	client "profile/internal/database/client"

	"github.com/redis/go-redis/v9"
)

// ResultRepository correlation id -> msgpack(Result)，帶 TTL
type ResultRepository struct {
	client *redis.Client
}

func NewResultRepository(client *client.RedisClient) *ResultRepository {
	return &ResultRepository{client: client.Client()}
}

func (repository *ResultRepository) Put(ctx context.Context, correlationID string, result *core.Result, ttl time.Duration) error {
	b, err := result.MarshalMsg(nil)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return repository.client.Set(ctx, correlationID, b, ttl).Err()
}

// Take 以 GETDEL 取出並刪除結果；尚未寫入時回傳 (nil, nil)
func (repository *ResultRepository) Take(ctx context.Context, correlationID string) (*core.Result, error) {
	b, err := repository.client.GetDel(ctx, correlationID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result core.Result
	if _, err := result.UnmarshalMsg(b); err != nil {
		return nil, fmt.Errorf("decode result %s: %w", correlationID, err)
	}
	return &result, nil
}
