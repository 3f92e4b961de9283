package binding

import (
	postgresRepo "profile/internal/database/postgres/repository"
	"profile/internal/peer"
	"profile/internal/projection"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewResolver,
	wire.Bind(new(UserStore), new(*postgresRepo.UserRepository)),
	wire.Bind(new(Syncer), new(*projection.Syncer)),
	wire.Bind(new(PersonVerifier), new(*peer.PersonClient)),
)
