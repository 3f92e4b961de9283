package bridge

import (
	fluentdRepo "profile/internal/database/fluentd/repository"
	redisRepo "profile/internal/database/redis/repository"

	"github.com/google/wire"
)

// DispatcherProviderSet server 端只發佈 command 並等待結果
var DispatcherProviderSet = wire.NewSet(
	NewDispatcher,
	wire.Bind(new(Publisher), new(*redisRepo.ChannelRepository)),
	wire.Bind(new(ResultTaker), new(*redisRepo.ResultRepository)),
)

var ProviderSet = wire.NewSet(
	DispatcherProviderSet,
	NewExecutor,
	wire.Bind(new(Subscriber), new(*redisRepo.ChannelRepository)),
	wire.Bind(new(ResultWriter), new(*redisRepo.ResultRepository)),
	wire.Bind(new(CommandLogger), new(*fluentdRepo.LogRepository)),
)
