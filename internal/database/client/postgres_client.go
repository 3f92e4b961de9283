package client

import (
	"context"
	"profile/config"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresClient 連接 Source of Truth（users 表）
type PostgresClient struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresClient(logger *zap.Logger, config *config.Configuration) (*PostgresClient, func(), error) {
	postgresClient := &PostgresClient{logger: logger}
	pool, err := postgresClient.connectDB(config)
	if err != nil {
		logger.Error("failed to connect to Postgres", zap.String("host", config.Postgres.Host), zap.Error(err))
		return nil, nil, err
	}
	logger.Info("Connected to Postgres", zap.String("host", config.Postgres.Host), zap.String("database", config.Postgres.Database))
	postgresClient.pool = pool

	cleanup := func() {
		logger.Info("closing the Postgres resources")
		postgresClient.Close()
	}

	return postgresClient, cleanup, nil
}

func (client *PostgresClient) connectDB(config *config.Configuration) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(config.Postgres.DSN())
	if err != nil {
		return nil, err
	}
	if config.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = config.Postgres.MaxConns
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Close 關閉連線池
func (client *PostgresClient) Close() {
	client.pool.Close()
}

// Pool 回傳連線池
func (client *PostgresClient) Pool() *pgxpool.Pool {
	return client.pool
}
