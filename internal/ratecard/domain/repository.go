package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	UserID      *snowflake.ID
	ServiceType string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, card *RateCard) error
	FindByID(ctx context.Context, db *gorm.DB, firmID, id snowflake.ID) (*RateCard, error)
	List(ctx context.Context, db *gorm.DB, firmID snowflake.ID, filter ListFilter) ([]*RateCard, error)
	Update(ctx context.Context, db *gorm.DB, card *RateCard) error
	Delete(ctx context.Context, db *gorm.DB, firmID, id snowflake.ID) error
	// FindEffective returns active cards covering the given date for the
	// user and service type, most recent effective date first.
	FindEffective(ctx context.Context, db *gorm.DB, firmID, userID snowflake.ID, serviceType string, date time.Time) ([]*RateCard, error)
}
