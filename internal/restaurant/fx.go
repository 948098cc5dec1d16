package restaurant

import (
	"github.com/forkastlabs/forkast/internal/restaurant/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("restaurant",
	fx.Provide(repository.NewRepository),
)
