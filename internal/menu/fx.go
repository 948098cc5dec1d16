package menu

import (
	"github.com/forkastlabs/forkast/internal/menu/repository"
	"github.com/forkastlabs/forkast/internal/menu/service"
	"go.uber.org/fx"
)

var Module = fx.Module("menu",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
