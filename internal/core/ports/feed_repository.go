package ports

import (
	"context"

	"github.com/coffeeshop/site-api/internal/core/domain"
)

// FeedRepository persists one article feed together with its likes and comments.
type FeedRepository interface {
	// List returns all articles newest first. viewerID may be empty.
	List(ctx context.Context, viewerID string) ([]domain.Article, error)
	Get(ctx context.Context, id int64, viewerID string) (*domain.Article, error)
	Create(ctx context.Context, article *domain.Article) (*domain.Article, error)
	Update(ctx context.Context, id int64, patch domain.ArticlePatch) (*domain.Article, error)
	// Delete removes the article and its likes and comments in one transaction.
	Delete(ctx context.Context, id int64) (domain.CascadeResult, error)

	ToggleLike(ctx context.Context, articleID int64, userID string) (*domain.LikeResult, error)
	Comments(ctx context.Context, articleID int64) ([]domain.Comment, error)
	AddComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	FindComment(ctx context.Context, articleID, commentID int64) (*domain.Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
}
