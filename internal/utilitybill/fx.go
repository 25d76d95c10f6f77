package utilitybill

import (
	"go.uber.org/fx"

	"github.com/roomledger/roomledger/internal/utilitybill/repository"
	"github.com/roomledger/roomledger/internal/utilitybill/service"
)

var Module = fx.Module("utilitybill.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
