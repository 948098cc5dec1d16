package inventory

import (
	"github.com/forkastlabs/forkast/internal/inventory/repository"
	"github.com/forkastlabs/forkast/internal/inventory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inventory",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
