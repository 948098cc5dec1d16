package loyalty

import (
	"github.com/forkastlabs/forkast/internal/loyalty/repository"
	"github.com/forkastlabs/forkast/internal/loyalty/service"
	"go.uber.org/fx"
)

var Module = fx.Module("loyalty",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
