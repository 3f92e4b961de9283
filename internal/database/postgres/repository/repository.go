package repository

import (
	client "profile/internal/database/client"

	"github.com/google/wire"
)

// NewPgxPool 讓 repository 只依賴 PgxPool 介面
func NewPgxPool(postgresClient *client.PostgresClient) PgxPool {
	return postgresClient.Pool()
}

// Wire 依賴提供
var ProviderSet = wire.NewSet(
	NewPgxPool,
	NewUserRepository,
)
