package opportunity

import (
	"github.com/praxislegal/praxis/internal/opportunity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("opportunity.service",
	fx.Provide(service.New),
)
