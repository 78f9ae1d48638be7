package ports

import (
	"context"

	"github.com/coffeeshop/site-api/internal/core/domain"
)

// DrinkRepository persists the menu and its reviews.
type DrinkRepository interface {
	List(ctx context.Context) ([]domain.Drink, error)
	Get(ctx context.Context, id int64) (*domain.Drink, error)
	Create(ctx context.Context, drink *domain.Drink) (*domain.Drink, error)
	Update(ctx context.Context, id int64, patch domain.DrinkPatch) (*domain.Drink, error)
	// Delete removes the drink and its reviews in one transaction.
	Delete(ctx context.Context, id int64) (domain.CascadeResult, error)

	Reviews(ctx context.Context, drinkID int64) ([]domain.Review, error)
	// AddReview inserts the review and returns the refreshed aggregate.
	AddReview(ctx context.Context, review *domain.Review) (*domain.ReviewSummary, error)
	FindReview(ctx context.Context, drinkID, reviewID int64) (*domain.Review, error)
	DeleteReview(ctx context.Context, reviewID int64) error
}
