package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/ports"
)

type stubDrinkRepo struct {
	drinks  map[int64]domain.Drink
	reviews map[int64]domain.Review
	nextID  int64
}

func newStubDrinkRepo() *stubDrinkRepo {
	return &stubDrinkRepo{drinks: map[int64]domain.Drink{}, reviews: map[int64]domain.Review{}, nextID: 1}
}

func (s *stubDrinkRepo) List(context.Context) ([]domain.Drink, error) {
	out := make([]domain.Drink, 0, len(s.drinks))
	for _, d := range s.drinks {
		out = append(out, d)
	}
	return out, nil
}

func (s *stubDrinkRepo) Get(_ context.Context, id int64) (*domain.Drink, error) {
	d, ok := s.drinks[id]
	if !ok {
		return nil, domain.ErrDrinkNotFound
	}
	return &d, nil
}

func (s *stubDrinkRepo) Create(_ context.Context, d *domain.Drink) (*domain.Drink, error) {
	d.ID = s.nextID
	s.nextID++
	s.drinks[d.ID] = *d
	return d, nil
}

func (s *stubDrinkRepo) Update(_ context.Context, id int64, p domain.DrinkPatch) (*domain.Drink, error) {
	d, ok := s.drinks[id]
	if !ok {
		return nil, domain.ErrDrinkNotFound
	}
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Price != nil {
		d.Price = p.Price
	}
	s.drinks[id] = d
	return &d, nil
}

func (s *stubDrinkRepo) Delete(_ context.Context, id int64) (domain.CascadeResult, error) {
	if _, ok := s.drinks[id]; !ok {
		return domain.CascadeResult{}, domain.ErrDrinkNotFound
	}
	var n int64
	for rid, r := range s.reviews {
		if r.DrinkID == id {
			delete(s.reviews, rid)
			n++
		}
	}
	delete(s.drinks, id)
	return domain.CascadeResult{Reviews: n}, nil
}

func (s *stubDrinkRepo) Reviews(_ context.Context, drinkID int64) ([]domain.Review, error) {
	var out []domain.Review
	for _, r := range s.reviews {
		if r.DrinkID == drinkID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubDrinkRepo) AddReview(_ context.Context, r *domain.Review) (*domain.ReviewSummary, error) {
	if _, ok := s.drinks[r.DrinkID]; !ok {
		return nil, domain.ErrDrinkNotFound
	}
	r.ID = s.nextID
	s.nextID++
	s.reviews[r.ID] = *r
	sum, n := 0, 0
	for _, x := range s.reviews {
		if x.DrinkID == r.DrinkID {
			sum += x.Rating
			n++
		}
	}
	avg := float64(sum) / float64(n)
	return &domain.ReviewSummary{Review: r, Rating: &avg, ReviewsCount: n}, nil
}

func (s *stubDrinkRepo) FindReview(_ context.Context, drinkID, reviewID int64) (*domain.Review, error) {
	r, ok := s.reviews[reviewID]
	if !ok || r.DrinkID != drinkID {
		return nil, domain.ErrReviewNotFound
	}
	return &r, nil
}

func (s *stubDrinkRepo) DeleteReview(_ context.Context, reviewID int64) error {
	delete(s.reviews, reviewID)
	return nil
}

func newDrinkFixture() (*stubDrinkRepo, ports.DrinkService) {
	repo := newStubDrinkRepo()
	return repo, NewDrinkService(repo, testPolicy(), NewImages(newMemImages(), 0, zerolog.Nop()), nil, zerolog.Nop())
}

func TestDrinkService_DeleteCascadesReviews(t *testing.T) {
	repo, svc := newDrinkFixture()
	ctx := context.Background()
	repo.drinks[999] = domain.Drink{ID: 999, Name: "Signature Latte"}

	alice := &domain.Actor{ID: "u-1", Username: "alice", Role: domain.RoleUser}
	bob := &domain.Actor{ID: "u-2", Username: "bob", Role: domain.RoleUser}
	if _, err := svc.AddReview(ctx, alice, 999, ports.ReviewInput{Rating: 5}); err != nil {
		t.Fatalf("review: %v", err)
	}
	summary, err := svc.AddReview(ctx, bob, 999, ports.ReviewInput{Rating: 4})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if summary.ReviewsCount != 2 || *summary.Rating != 4.5 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	res, err := svc.Delete(ctx, creator(), 999)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if res.Reviews != 2 {
		t.Fatalf("expected 2 reviews removed, got %d", res.Reviews)
	}
	if len(repo.reviews) != 0 {
		t.Fatalf("no review may be left orphaned")
	}
	if _, err := svc.Get(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected drink gone, got %v", err)
	}
}

func TestDrinkService_CreatorOnly(t *testing.T) {
	_, svc := newDrinkFixture()
	ctx := context.Background()
	manager := &domain.Actor{ID: "m", Username: "m", Role: domain.RoleManager}

	if _, err := svc.Create(ctx, manager, ports.DrinkInput{Name: "Mocha"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.Create(ctx, creator(), ports.DrinkInput{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation, got %v", err)
	}
	d, err := svc.Create(ctx, creator(), ports.DrinkInput{Name: "Mocha"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Ingredients == nil {
		t.Fatalf("ingredients must default to an empty list")
	}
	if _, err := svc.Update(ctx, creator(), d.ID, domain.DrinkPatch{}); !errors.Is(err, domain.ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}
}

func TestDrinkService_AddReview_Validation(t *testing.T) {
	repo, svc := newDrinkFixture()
	repo.drinks[1] = domain.Drink{ID: 1, Name: "Tea"}
	alice := &domain.Actor{ID: "u-1", Username: "alice", Role: domain.RoleUser}

	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.AddReview(context.Background(), alice, 1, ports.ReviewInput{Rating: rating}); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("rating %d: expected validation, got %v", rating, err)
		}
	}
	if _, err := svc.AddReview(context.Background(), nil, 1, ports.ReviewInput{Rating: 3}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("anonymous: expected 401 kind, got %v", err)
	}
}

func TestDrinkService_DeleteReview_Ownership(t *testing.T) {
	repo, svc := newDrinkFixture()
	ctx := context.Background()
	repo.drinks[1] = domain.Drink{ID: 1, Name: "Tea"}
	owner := "u-1"
	repo.reviews[10] = domain.Review{ID: 10, DrinkID: 1, UserID: &owner, UserName: "alice", Rating: 2}
	repo.reviews[11] = domain.Review{ID: 11, DrinkID: 1, UserID: &owner, UserName: "alice", Rating: 3}

	stranger := &domain.Actor{ID: "u-2", Username: "bob", Role: domain.RoleUser}
	if err := svc.DeleteReview(ctx, stranger, 1, 10); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	alice := &domain.Actor{ID: "u-1", Username: "alice", Role: domain.RoleUser}
	if err := svc.DeleteReview(ctx, alice, 1, 10); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	manager := &domain.Actor{ID: "m", Username: "m", Role: domain.RoleManager}
	if err := svc.DeleteReview(ctx, manager, 1, 11); err != nil {
		t.Fatalf("moderator delete: %v", err)
	}

	if err := svc.DeleteReview(ctx, alice, 1, 10); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDrinkService_DeleteReview_OrphanedByDeletedAccount(t *testing.T) {
	repo, svc := newDrinkFixture()
	ctx := context.Background()
	repo.drinks[1] = domain.Drink{ID: 1, Name: "Tea"}
	// alice's account was deleted: user_id is cleared and the name kept.
	repo.reviews[10] = domain.Review{ID: 10, DrinkID: 1, UserName: "alice", Rating: 4}
	repo.reviews[11] = domain.Review{ID: 11, DrinkID: 1, UserName: "alice", Rating: 5, LegacyOwner: true}

	newcomer := &domain.Actor{ID: "u-new", Username: "alice", Role: domain.RoleUser}
	if err := svc.DeleteReview(ctx, newcomer, 1, 10); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for reused name, got %v", err)
	}
	if _, ok := repo.reviews[10]; !ok {
		t.Fatalf("orphaned review must survive")
	}

	if err := svc.DeleteReview(ctx, newcomer, 1, 11); err != nil {
		t.Fatalf("legacy row owned by name: %v", err)
	}
}
