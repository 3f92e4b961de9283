package service

import (
	"profile/internal/bridge"
	client "profile/internal/database/client"
	redisRepo "profile/internal/database/redis/repository"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewHealthService,
	NewProfileService,
	wire.Bind(new(ProjectionReader), new(*redisRepo.ProjectionRepository)),
	wire.Bind(new(CommandDispatcher), new(*bridge.Dispatcher)),
	wire.Bind(new(StorePinger), new(*client.RedisClient)),
)
