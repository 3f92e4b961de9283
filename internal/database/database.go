package database

import (
	client "profile/internal/database/client"
	fluentdRepo "profile/internal/database/fluentd/repository"
	postgresRepo "profile/internal/database/postgres/repository"
	redisRepo "profile/internal/database/redis/repository"

	"github.com/google/wire"
)

// ServerProviderSet server 只需要 redis 與 fluentd，不連 postgres
var ServerProviderSet = wire.NewSet(
	client.NewRedisClient,
	client.NewFluentdClient,
	redisRepo.ProviderSet,
	fluentdRepo.ProviderSet,
)

// ProviderSet 定義所有 DB Client 與 repository 的依賴
var ProviderSet = wire.NewSet(
	ServerProviderSet,
	client.NewPostgresClient,
	postgresRepo.ProviderSet,
)
