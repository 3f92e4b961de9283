//go:build wireinject
// +build wireinject

package main

import (
	"profile/config"
	"profile/internal/binding"
	"profile/internal/bridge"
	"profile/internal/command"
	"profile/internal/cron"
	"profile/internal/database"
	"profile/internal/handler"
	"profile/internal/middleware"
	"profile/internal/peer"
	"profile/internal/processor"
	"profile/internal/projection"
	"profile/internal/router"
	"profile/internal/service"
	"profile/internal/telemetry"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// wireApp server 只讀 redis 投影，寫入透過 bridge 交給 processor
func wireApp(*config.Configuration, *zap.Logger) (*App, func(), error) {
	panic(
		wire.Build(
			database.ServerProviderSet,
			telemetry.ProviderSet,
			bridge.DispatcherProviderSet,
			service.ProviderSet,
			handler.ProviderSet,
			middleware.ProviderSet,
			router.ProviderSet,
			newHttpServer,
			newApp,
		),
	)
}

// wireCommand processor 與 refresh 子命令
func wireCommand(*config.Configuration, *zap.Logger) (*command.Command, func(), error) {
	panic(
		wire.Build(
			database.ProviderSet,
			telemetry.ProviderSet,
			bridge.ProviderSet,
			projection.ProviderSet,
			peer.ProviderSet,
			binding.ProviderSet,
			processor.ProviderSet,
			cron.ProviderSet,
			command.ProviderSet,
		),
	)
}
