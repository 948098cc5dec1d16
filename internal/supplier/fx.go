package supplier

import (
	"github.com/forkastlabs/forkast/internal/supplier/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("supplier",
	fx.Provide(repository.NewRepository),
)
