package invoice

import (
	"github.com/praxislegal/praxis/internal/invoice/render"
	"github.com/praxislegal/praxis/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(render.NewRenderer),
	fx.Provide(service.New),
)
