// Package seed bootstraps the default firm so a fresh install is usable
// without any manual setup.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	firmdomain "github.com/praxislegal/praxis/internal/firm/domain"
	"gorm.io/gorm"
)

const (
	defaultFirmName = "Main"
	defaultFirmSlug = "main"
)

// EnsureDefaultFirm seeds the default firm for startup bootstrap.
func EnsureDefaultFirm(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}
	return ensureFirm(db, node.Generate())
}

// EnsureDefaultFirmWithID seeds the default firm with a fixed identifier so
// self-hosted deployments keep a stable tenant id across restarts.
func EnsureDefaultFirmWithID(db *gorm.DB, firmID int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if firmID == 0 {
		return errors.New("seed firm id is required")
	}
	return ensureFirm(db, snowflake.ID(firmID))
}

func ensureFirm(db *gorm.DB, firmID snowflake.ID) error {
	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing firmdomain.Firm
		err := tx.Where("slug = ?", defaultFirmSlug).Limit(1).Find(&existing).Error
		if err != nil {
			return err
		}
		if existing.ID != 0 {
			return nil
		}

		now := time.Now().UTC()
		firm := firmdomain.Firm{
			ID:        firmID,
			Name:      defaultFirmName,
			Slug:      defaultFirmSlug,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Create(&firm).Error
	})
}
