package migration

import (
	"strings"

	"github.com/praxislegal/praxis/internal/config"
	"github.com/praxislegal/praxis/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if !strings.EqualFold(cfg.DBType, "postgres") {
			// Embedded migrations target postgres; other dialects rely on
			// external schema management.
			log.Warn("skipping embedded migrations", zap.String("db_type", cfg.DBType))
			return seedFirm(conn, cfg)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		if err := RunMigrations(sqlDB); err != nil {
			return err
		}
		return seedFirm(conn, cfg)
	}),
)

func seedFirm(conn *gorm.DB, cfg config.Config) error {
	if cfg.DefaultFirmID != 0 {
		return seed.EnsureDefaultFirmWithID(conn, cfg.DefaultFirmID)
	}
	return seed.EnsureDefaultFirm(conn)
}
