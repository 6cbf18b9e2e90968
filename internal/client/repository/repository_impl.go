package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/praxislegal/praxis/internal/client/domain"
	"github.com/praxislegal/praxis/pkg/db/option"
	"github.com/praxislegal/praxis/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Create(client).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, firmID, id snowflake.ID) (*domain.Client, error) {
	var client domain.Client
	err := db.WithContext(ctx).
		Where("firm_id = ? AND id = ?", firmID, id).
		Limit(1).
		Find(&client).Error
	if err != nil {
		return nil, err
	}
	if client.ID == 0 {
		return nil, nil
	}
	return &client, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, firmID snowflake.ID, filter domain.ListClientFilter, page pagination.Pagination) ([]*domain.Client, error) {
	var clients []*domain.Client
	stmt := db.WithContext(ctx).
		Model(&domain.Client{}).
		Where("firm_id = ?", firmID)
	if filter.Name != "" {
		stmt = stmt.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).
		Model(&domain.Client{}).
		Where("firm_id = ? AND id = ?", client.FirmID, client.ID).
		Updates(client).Error
}

func (r *repo) InsertMatter(ctx context.Context, db *gorm.DB, matter *domain.Matter) error {
	return db.WithContext(ctx).Create(matter).Error
}

func (r *repo) ListMatters(ctx context.Context, db *gorm.DB, firmID, clientID snowflake.ID) ([]*domain.Matter, error) {
	var matters []*domain.Matter
	err := db.WithContext(ctx).
		Where("firm_id = ? AND client_id = ?", firmID, clientID).
		Order("created_at asc").
		Find(&matters).Error
	if err != nil {
		return nil, err
	}
	return matters, nil
}
