package payment

import (
	"github.com/forkastlabs/forkast/internal/payment/repository"
	"github.com/forkastlabs/forkast/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
