package apikey

import (
	"github.com/forkastlabs/forkast/internal/apikey/repository"
	"github.com/forkastlabs/forkast/internal/apikey/service"
	"go.uber.org/fx"
)

var Module = fx.Module("apikey",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
