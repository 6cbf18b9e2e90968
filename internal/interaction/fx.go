package interaction

import (
	"github.com/praxislegal/praxis/internal/interaction/service"
	"go.uber.org/fx"
)

var Module = fx.Module("interaction.service",
	fx.Provide(service.New),
)
