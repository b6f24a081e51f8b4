package domain

import (
	"context"
	"time"
)

type Article struct {
	ID          uint
	Title       string
	Content     string
	AuthorID    uint
	AuthorEmail string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ArticleRepository interface {
	Create(ctx context.Context, article *Article) error
	GetByID(ctx context.Context, id uint) (*Article, error)
	List(ctx context.Context) ([]Article, error)
	Update(ctx context.Context, article *Article) error
	Delete(ctx context.Context, id uint) error
}
