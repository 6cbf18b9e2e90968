package partnershare

import (
	"github.com/praxislegal/praxis/internal/partnershare/service"
	"go.uber.org/fx"
)

var Module = fx.Module("partnershare.service",
	fx.Provide(service.New),
)
