package db

import (
	"context"
	"errors"

	"newsroom/internal/domain"

	"gorm.io/gorm"
)

type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	if r.db == nil {
		return errDBUnavailable
	}
	model := ArticleModel{
		Title:    article.Title,
		Content:  article.Content,
		AuthorID: article.AuthorID,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	article.ID = model.ID
	article.CreatedAt = model.CreatedAt
	article.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *ArticleRepository) GetByID(ctx context.Context, id uint) (*domain.Article, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model ArticleModel
	err := r.db.WithContext(ctx).Preload("Author").First(&model, "articles.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	article := articleFromModel(model)
	return &article, nil
}

func (r *ArticleRepository) List(ctx context.Context) ([]domain.Article, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []ArticleModel
	if err := r.db.WithContext(ctx).Preload("Author").Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	articles := make([]domain.Article, 0, len(models))
	for _, model := range models {
		articles = append(articles, articleFromModel(model))
	}
	return articles, nil
}

func (r *ArticleRepository) Update(ctx context.Context, article *domain.Article) error {
	if r.db == nil {
		return errDBUnavailable
	}
	result := r.db.WithContext(ctx).
		Model(&ArticleModel{ID: article.ID}).
		Updates(map[string]any{
			"title":   article.Title,
			"content": article.Content,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id uint) error {
	if r.db == nil {
		return errDBUnavailable
	}
	result := r.db.WithContext(ctx).Delete(&ArticleModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func articleFromModel(model ArticleModel) domain.Article {
	return domain.Article{
		ID:          model.ID,
		Title:       model.Title,
		Content:     model.Content,
		AuthorID:    model.AuthorID,
		AuthorEmail: model.Author.Email,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

var _ domain.ArticleRepository = (*ArticleRepository)(nil)
