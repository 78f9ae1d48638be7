package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/policy"
	"github.com/coffeeshop/site-api/internal/core/ports"
)

type drinkService struct {
	repo   ports.DrinkRepository
	policy *policy.Policy
	images *Images
	audit  ports.AuditRepository
	log    zerolog.Logger
}

// NewDrinkService returns a DrinkService implementation.
func NewDrinkService(
	repo ports.DrinkRepository,
	p *policy.Policy,
	images *Images,
	auditRepo ports.AuditRepository,
	log zerolog.Logger,
) ports.DrinkService {
	return &drinkService{repo: repo, policy: p, images: images, audit: auditRepo, log: log}
}

func (s *drinkService) List(ctx context.Context) ([]domain.Drink, error) {
	return s.repo.List(ctx)
}

func (s *drinkService) Get(ctx context.Context, id int64) (*domain.Drink, error) {
	return s.repo.Get(ctx, id)
}

func (s *drinkService) Create(ctx context.Context, actor *domain.Actor, in ports.DrinkInput) (*domain.Drink, error) {
	if err := authorize(s.policy, actor, policy.ActionCreate, policy.Resource{Kind: policy.KindDrink}); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name is required")
	}
	if in.Price != nil && *in.Price < 0 {
		return nil, domain.Invalid("price must not be negative")
	}

	image := in.ImageURL
	if in.Image != nil {
		upload, err := s.images.Save(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		image = &upload.URL
	}

	ingredients := in.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}

	drink, err := s.repo.Create(ctx, &domain.Drink{
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		ImageURL:    image,
		Ingredients: ingredients,
	})
	if err != nil {
		if in.Image != nil {
			s.images.Discard(ctx, image)
		}
		return nil, err
	}
	return drink, nil
}

func (s *drinkService) Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.DrinkPatch) (*domain.Drink, error) {
	if err := authorize(s.policy, actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindDrink}); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, domain.ErrNoFields
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.Invalid("name must not be empty")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, domain.Invalid("price must not be negative")
	}
	return s.repo.Update(ctx, id, patch)
}

// Delete removes the drink and its reviews in one transaction.
func (s *drinkService) Delete(ctx context.Context, actor *domain.Actor, id int64) (domain.CascadeResult, error) {
	if err := authorize(s.policy, actor, policy.ActionDelete, policy.Resource{Kind: policy.KindDrink}); err != nil {
		return domain.CascadeResult{}, err
	}

	drink, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.CascadeResult{}, err
	}

	res, err := s.repo.Delete(ctx, id)
	if err != nil {
		return domain.CascadeResult{}, err
	}
	s.images.Discard(ctx, drink.ImageURL)

	audit(ctx, s.audit, s.log, domain.AuditEvent{
		Action:   domain.AuditContentDeleted,
		ActorID:  actor.ID,
		TargetID: "drink:" + itoa(id),
		Details:  map[string]any{"name": drink.Name, "reviews": res.Reviews},
	})
	s.log.Info().Int64("drink_id", id).Int64("reviews", res.Reviews).Msg("drink deleted")
	return res, nil
}

func (s *drinkService) Reviews(ctx context.Context, id int64) ([]domain.Review, error) {
	return s.repo.Reviews(ctx, id)
}

func (s *drinkService) AddReview(ctx context.Context, actor *domain.Actor, id int64, in ports.ReviewInput) (*domain.ReviewSummary, error) {
	if err := authorize(s.policy, actor, policy.ActionCreate, policy.Resource{Kind: policy.KindReview}); err != nil {
		return nil, err
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, domain.Invalid("rating must be between 1 and 5")
	}

	comment := in.Comment
	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		if len(trimmed) > maxCommentLen {
			return nil, domain.Invalid("comment is too long")
		}
		comment = &trimmed
	}

	userID := actor.ID
	return s.repo.AddReview(ctx, &domain.Review{
		DrinkID:  id,
		UserID:   &userID,
		UserName: actor.Username,
		Rating:   in.Rating,
		Comment:  comment,
	})
}

func (s *drinkService) DeleteReview(ctx context.Context, actor *domain.Actor, drinkID, reviewID int64) error {
	if actor == nil {
		return authorize(s.policy, nil, policy.ActionDelete, policy.Resource{Kind: policy.KindReview})
	}

	review, err := s.repo.FindReview(ctx, drinkID, reviewID)
	if err != nil {
		return err
	}

	res := policy.Resource{Kind: policy.KindReview, OwnerID: review.UserID, OwnerName: review.UserName, LegacyOwner: review.LegacyOwner}
	if err := authorize(s.policy, actor, policy.ActionDelete, res); err != nil {
		return err
	}

	if err := s.repo.DeleteReview(ctx, reviewID); err != nil {
		return err
	}

	if !policy.Owns(actor, res) {
		audit(ctx, s.audit, s.log, domain.AuditEvent{
			Action:   domain.AuditCommentModerated,
			ActorID:  actor.ID,
			TargetID: "review:" + itoa(reviewID),
			Details:  map[string]any{"author": review.UserName, "drink_id": drinkID},
		})
	}
	return nil
}
