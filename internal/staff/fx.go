package staff

import (
	"github.com/forkastlabs/forkast/internal/staff/repository"
	"github.com/forkastlabs/forkast/internal/staff/service"
	"go.uber.org/fx"
)

var Module = fx.Module("staff",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
