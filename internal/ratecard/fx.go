package ratecard

import (
	"github.com/praxislegal/praxis/internal/ratecard/repository"
	"github.com/praxislegal/praxis/internal/ratecard/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ratecard.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
