package quota

import (
	"github.com/forkastlabs/forkast/internal/quota/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quota",
	fx.Provide(service.NewService),
)
