package migration

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roomledger/roomledger/internal/seed"
)

var Module = fx.Module("migration",
	fx.Invoke(func(lc fx.Lifecycle, db *gorm.DB, log *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				if err := RunMigrations(db); err != nil {
					return err
				}
				if err := seed.EnsureChartOfAccounts(db); err != nil {
					return err
				}
				if err := seed.EnsureDemoProperty(db); err != nil {
					return err
				}
				log.Info("schema migrated")
				return nil
			},
		})
	}),
)
