package repository

import (
	"context"

	client "profile/internal/database/client"

	"github.com/redis/go-redis/v9"
)

// ChannelRepository 單向、不確認的 command 頻道（PUBLISH/SUBSCRIBE）
type ChannelRepository struct {
	client *redis.Client
}

func NewChannelRepository(client *client.RedisClient) *ChannelRepository {
	return &ChannelRepository{client: client.Client()}
}

// Publish 回傳收到訊息的訂閱者數量；0 代表訊息已遺失
func (repository *ChannelRepository) Publish(ctx context.Context, channel string, payload []byte) (int64, error) {
	return repository.client.Publish(ctx, channel, payload).Result()
}

// Subscribe 等到訂閱確認後才回傳，呼叫端負責 Close
func (repository *ChannelRepository) Subscribe(ctx context.Context, channel string) (*redis.PubSub, error) {
	sub := repository.client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}
	return sub, nil
}
