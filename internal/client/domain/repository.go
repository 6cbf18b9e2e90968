package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/praxislegal/praxis/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListClientFilter struct {
	Name   string
	Status ClientStatus
	Type   ClientType
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, client *Client) error
	FindByID(ctx context.Context, db *gorm.DB, firmID, id snowflake.ID) (*Client, error)
	List(ctx context.Context, db *gorm.DB, firmID snowflake.ID, filter ListClientFilter, page pagination.Pagination) ([]*Client, error)
	Update(ctx context.Context, db *gorm.DB, client *Client) error
	InsertMatter(ctx context.Context, db *gorm.DB, matter *Matter) error
	ListMatters(ctx context.Context, db *gorm.DB, firmID, clientID snowflake.ID) ([]*Matter, error)
}
