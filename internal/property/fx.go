package property

import (
	"go.uber.org/fx"

	"github.com/roomledger/roomledger/internal/property/repository"
	"github.com/roomledger/roomledger/internal/property/service"
)

var Module = fx.Module("property.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
