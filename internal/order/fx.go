package order

import (
	"github.com/forkastlabs/forkast/internal/order/repository"
	"github.com/forkastlabs/forkast/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
