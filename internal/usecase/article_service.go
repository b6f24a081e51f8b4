package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"newsroom/internal/domain"
)

// ArticleView is the cached shape of an article.
type ArticleView struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ArticleService struct {
	articles domain.ArticleRepository
	cache    ContentCache
	cacheTTL time.Duration
}

func NewArticleService(articles domain.ArticleRepository, cache ContentCache, cacheTTL time.Duration) *ArticleService {
	return &ArticleService{articles: articles, cache: cache, cacheTTL: cacheTTL}
}

func (s *ArticleService) Create(ctx context.Context, author domain.User, title, content string) (*domain.Article, error) {
	if title == "" || content == "" {
		return nil, fmt.Errorf("title and content are required: %w", domain.ErrValidation)
	}
	article := &domain.Article{
		Title:       title,
		Content:     content,
		AuthorID:    author.ID,
		AuthorEmail: author.Email,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}
	// A new article stales the list aggregate only; no per-id entry can
	// exist yet for a fresh id.
	if err := s.cache.Invalidate(ctx, articleListCacheKey); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *ArticleService) Get(ctx context.Context, id uint) (ArticleView, error) {
	payload, err := s.cache.GetOrCompute(ctx, articleCacheKey(id), s.cacheTTL, func(ctx context.Context) ([]byte, error) {
		article, err := s.articles.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(viewOf(*article))
	})
	if err != nil {
		return ArticleView{}, err
	}
	var view ArticleView
	if err := json.Unmarshal(payload, &view); err != nil {
		return ArticleView{}, fmt.Errorf("decode cached article: %w", err)
	}
	return view, nil
}

func (s *ArticleService) List(ctx context.Context) ([]ArticleView, error) {
	payload, err := s.cache.GetOrCompute(ctx, articleListCacheKey, s.cacheTTL, func(ctx context.Context) ([]byte, error) {
		articles, err := s.articles.List(ctx)
		if err != nil {
			return nil, err
		}
		views := make([]ArticleView, 0, len(articles))
		for _, article := range articles {
			views = append(views, viewOf(article))
		}
		return json.Marshal(views)
	})
	if err != nil {
		return nil, err
	}
	var views []ArticleView
	if err := json.Unmarshal(payload, &views); err != nil {
		return nil, fmt.Errorf("decode cached article list: %w", err)
	}
	return views, nil
}

// Update rewrites title and/or content. Only the authoring user or an admin
// may update; empty fields keep their current value. The per-article entry
// and the list aggregate are both invalidated after the write commits and
// before the update is acknowledged.
func (s *ArticleService) Update(ctx context.Context, actor domain.User, id uint, title, content string) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != actor.ID && actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("only the author or an admin may update: %w", domain.ErrForbidden)
	}
	if title == "" && content == "" {
		return nil, fmt.Errorf("nothing to update: %w", domain.ErrValidation)
	}
	if title != "" {
		article.Title = title
	}
	if content != "" {
		article.Content = content
	}
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, articleCacheKey(id), articleListCacheKey); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *ArticleService) Delete(ctx context.Context, actor domain.User, id uint) error {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if article.AuthorID != actor.ID && actor.Role != domain.RoleAdmin {
		return fmt.Errorf("only the author or an admin may delete: %w", domain.ErrForbidden)
	}
	if err := s.articles.Delete(ctx, id); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, articleCacheKey(id), articleListCacheKey)
}

func viewOf(article domain.Article) ArticleView {
	return ArticleView{
		ID:        article.ID,
		Title:     article.Title,
		Content:   article.Content,
		Author:    article.AuthorEmail,
		CreatedAt: article.CreatedAt,
		UpdatedAt: article.UpdatedAt,
	}
}
