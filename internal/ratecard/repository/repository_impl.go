package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/praxislegal/praxis/internal/ratecard/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, card *domain.RateCard) error {
	return db.WithContext(ctx).Create(card).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, firmID, id snowflake.ID) (*domain.RateCard, error) {
	var card domain.RateCard
	err := db.WithContext(ctx).
		Where("firm_id = ? AND id = ?", firmID, id).
		First(&card).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, firmID snowflake.ID, filter domain.ListFilter) ([]*domain.RateCard, error) {
	var cards []*domain.RateCard
	stmt := db.WithContext(ctx).
		Model(&domain.RateCard{}).
		Where("firm_id = ?", firmID)
	if filter.UserID != nil {
		stmt = stmt.Where("user_id = ?", *filter.UserID)
	}
	if filter.ServiceType != "" {
		stmt = stmt.Where("service_type = ?", filter.ServiceType)
	}
	err := stmt.
		Order("effective_date desc, id desc").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, card *domain.RateCard) error {
	return db.WithContext(ctx).Save(card).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, firmID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("firm_id = ? AND id = ?", firmID, id).
		Delete(&domain.RateCard{}).Error
}

func (r *repo) FindEffective(ctx context.Context, db *gorm.DB, firmID, userID snowflake.ID, serviceType string, date time.Time) ([]*domain.RateCard, error) {
	day := domain.DateOnly(date)
	var cards []*domain.RateCard
	err := db.WithContext(ctx).
		Model(&domain.RateCard{}).
		Where("firm_id = ? AND user_id = ? AND service_type = ?", firmID, userID, serviceType).
		Where("is_active = ?", true).
		Where("effective_date <= ?", day).
		Where("end_date IS NULL OR end_date >= ?", day).
		Order("effective_date desc, id desc").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}
