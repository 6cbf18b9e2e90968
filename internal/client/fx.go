package client

import (
	"github.com/praxislegal/praxis/internal/client/repository"
	"github.com/praxislegal/praxis/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
