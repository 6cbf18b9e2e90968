package timesheet

import (
	"github.com/praxislegal/praxis/internal/timesheet/service"
	"go.uber.org/fx"
)

var Module = fx.Module("timesheet.service",
	fx.Provide(service.New),
)
