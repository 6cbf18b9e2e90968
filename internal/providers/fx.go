package providers

import (
	"github.com/praxislegal/praxis/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	fx.Provide(pdf.New),
)
