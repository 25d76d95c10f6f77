package ledger

import (
	"go.uber.org/fx"

	"github.com/roomledger/roomledger/internal/ledger/repository"
	"github.com/roomledger/roomledger/internal/ledger/service"
)

var Module = fx.Module("ledger.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
