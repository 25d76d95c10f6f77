package tenancy

import (
	"go.uber.org/fx"

	"github.com/roomledger/roomledger/internal/tenancy/repository"
	"github.com/roomledger/roomledger/internal/tenancy/service"
)

var Module = fx.Module("tenancy.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
