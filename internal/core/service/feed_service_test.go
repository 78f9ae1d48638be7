package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/ports"
)

type stubFeedRepo struct {
	getFn           func(ctx context.Context, id int64, viewerID string) (*domain.Article, error)
	createFn        func(ctx context.Context, a *domain.Article) (*domain.Article, error)
	updateFn        func(ctx context.Context, id int64, p domain.ArticlePatch) (*domain.Article, error)
	deleteFn        func(ctx context.Context, id int64) (domain.CascadeResult, error)
	toggleLikeFn    func(ctx context.Context, articleID int64, userID string) (*domain.LikeResult, error)
	addCommentFn    func(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	findCommentFn   func(ctx context.Context, articleID, commentID int64) (*domain.Comment, error)
	deleteCommentFn func(ctx context.Context, commentID int64) error
}

func (s *stubFeedRepo) List(context.Context, string) ([]domain.Article, error) { return nil, nil }
func (s *stubFeedRepo) Get(ctx context.Context, id int64, viewerID string) (*domain.Article, error) {
	return s.getFn(ctx, id, viewerID)
}
func (s *stubFeedRepo) Create(ctx context.Context, a *domain.Article) (*domain.Article, error) {
	return s.createFn(ctx, a)
}
func (s *stubFeedRepo) Update(ctx context.Context, id int64, p domain.ArticlePatch) (*domain.Article, error) {
	return s.updateFn(ctx, id, p)
}
func (s *stubFeedRepo) Delete(ctx context.Context, id int64) (domain.CascadeResult, error) {
	return s.deleteFn(ctx, id)
}
func (s *stubFeedRepo) ToggleLike(ctx context.Context, articleID int64, userID string) (*domain.LikeResult, error) {
	return s.toggleLikeFn(ctx, articleID, userID)
}
func (s *stubFeedRepo) Comments(context.Context, int64) ([]domain.Comment, error) { return nil, nil }
func (s *stubFeedRepo) AddComment(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	return s.addCommentFn(ctx, c)
}
func (s *stubFeedRepo) FindComment(ctx context.Context, articleID, commentID int64) (*domain.Comment, error) {
	return s.findCommentFn(ctx, articleID, commentID)
}
func (s *stubFeedRepo) DeleteComment(ctx context.Context, commentID int64) error {
	return s.deleteCommentFn(ctx, commentID)
}

func newFeed(repo ports.FeedRepository, store *memImages, rec *recordingAudit) *FeedService {
	var auditRepo ports.AuditRepository
	if rec != nil {
		auditRepo = rec
	}
	return NewFeedService(domain.FeedNews, repo, testPolicy(), NewImages(store, 0, zerolog.Nop()), auditRepo, zerolog.Nop())
}

func TestFeedService_Create(t *testing.T) {
	store := newMemImages()
	repo := &stubFeedRepo{
		createFn: func(_ context.Context, a *domain.Article) (*domain.Article, error) {
			if a.Author != bootstrapName || a.AuthorID == nil || *a.AuthorID != "c-1" {
				t.Fatalf("author not taken from actor: %+v", a)
			}
			if a.Image == nil || *a.Image == "" {
				t.Fatalf("expected stored image reference")
			}
			a.ID = 7
			return a, nil
		},
	}
	svc := newFeed(repo, store, nil)

	img := ports.ImageInput{Filename: "x.png", Data: pngBytes}
	article, err := svc.Create(context.Background(), creator(), ports.ArticleInput{Title: " Hello ", Content: "World", Image: &img})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.ID != 7 || article.Title != "Hello" {
		t.Fatalf("unexpected article: %+v", article)
	}
	if len(store.files) != 1 {
		t.Fatalf("expected one stored file, got %d", len(store.files))
	}
}

func TestFeedService_Create_Denied(t *testing.T) {
	repo := &stubFeedRepo{
		createFn: func(context.Context, *domain.Article) (*domain.Article, error) {
			t.Fatalf("repository must not be called")
			return nil, nil
		},
	}
	svc := newFeed(repo, newMemImages(), nil)
	in := ports.ArticleInput{Title: "t", Content: "c"}

	if _, err := svc.Create(context.Background(), nil, in); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("anonymous: expected 401 kind, got %v", err)
	}
	user := &domain.Actor{ID: "u-1", Username: "alice", Role: domain.RoleUser}
	if _, err := svc.Create(context.Background(), user, in); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("user: expected 403 kind, got %v", err)
	}
	if _, err := svc.Create(context.Background(), creator(), ports.ArticleInput{Title: "t"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("missing content: expected validation, got %v", err)
	}
}

func TestFeedService_Create_RepoFailureDiscardsImage(t *testing.T) {
	store := newMemImages()
	repo := &stubFeedRepo{
		createFn: func(context.Context, *domain.Article) (*domain.Article, error) {
			return nil, errors.New("db down")
		},
	}
	svc := newFeed(repo, store, nil)

	img := ports.ImageInput{Data: pngBytes}
	if _, err := svc.Create(context.Background(), creator(), ports.ArticleInput{Title: "t", Content: "c", Image: &img}); err == nil {
		t.Fatalf("expected error")
	}
	if len(store.files) != 0 || len(store.deleted) != 1 {
		t.Fatalf("orphaned image must be removed: files=%d deleted=%d", len(store.files), len(store.deleted))
	}
}

func TestFeedService_Update_NoFields(t *testing.T) {
	svc := newFeed(&stubFeedRepo{}, newMemImages(), nil)
	if _, err := svc.Update(context.Background(), creator(), 1, domain.ArticlePatch{}); !errors.Is(err, domain.ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}
}

func TestFeedService_Delete_ReportsCascade(t *testing.T) {
	store := newMemImages()
	image := "/uploads/old.png"
	store.files[image] = pngBytes
	rec := &recordingAudit{}
	repo := &stubFeedRepo{
		getFn: func(context.Context, int64, string) (*domain.Article, error) {
			return &domain.Article{ID: 3, Image: &image}, nil
		},
		deleteFn: func(context.Context, int64) (domain.CascadeResult, error) {
			return domain.CascadeResult{Comments: 4, Likes: 2}, nil
		},
	}
	svc := newFeed(repo, store, rec)

	res, err := svc.Delete(context.Background(), creator(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Comments != 4 || res.Likes != 2 {
		t.Fatalf("unexpected cascade: %+v", res)
	}
	if _, ok := store.files[image]; ok {
		t.Fatalf("article image must be removed")
	}
	if got := rec.actions(); len(got) != 1 || got[0] != domain.AuditContentDeleted {
		t.Fatalf("unexpected audit: %v", got)
	}
}

func TestFeedService_Delete_NotFound(t *testing.T) {
	repo := &stubFeedRepo{
		getFn: func(context.Context, int64, string) (*domain.Article, error) { return nil, domain.ErrNewsNotFound },
		deleteFn: func(context.Context, int64) (domain.CascadeResult, error) {
			t.Fatalf("delete must not run")
			return domain.CascadeResult{}, nil
		},
	}
	svc := newFeed(repo, newMemImages(), nil)
	if _, err := svc.Delete(context.Background(), creator(), 3); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFeedService_ToggleLike_RequiresAuth(t *testing.T) {
	repo := &stubFeedRepo{
		toggleLikeFn: func(_ context.Context, _ int64, userID string) (*domain.LikeResult, error) {
			return &domain.LikeResult{LikesCount: 1, UserHasLiked: true}, nil
		},
	}
	svc := newFeed(repo, newMemImages(), nil)

	if _, err := svc.ToggleLike(context.Background(), nil, 1); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected 401 kind, got %v", err)
	}
	res, err := svc.ToggleLike(context.Background(), &domain.Actor{ID: "g", Username: "g", Role: domain.RoleGuest}, 1)
	if err != nil || !res.UserHasLiked {
		t.Fatalf("unexpected: %+v %v", res, err)
	}
}

func TestFeedService_AddComment(t *testing.T) {
	repo := &stubFeedRepo{
		addCommentFn: func(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
			if c.UserName != "alice" || c.UserID == nil || *c.UserID != "u-1" || c.ArticleID != 5 {
				t.Fatalf("unexpected comment: %+v", c)
			}
			c.ID = 1
			return c, nil
		},
	}
	svc := newFeed(repo, newMemImages(), nil)
	alice := &domain.Actor{ID: "u-1", Username: "alice", Role: domain.RoleUser}

	if _, err := svc.AddComment(context.Background(), alice, 5, "  "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	c, err := svc.AddComment(context.Background(), alice, 5, " nice ")
	if err != nil || c.Content != "nice" {
		t.Fatalf("unexpected: %+v %v", c, err)
	}
}

func TestFeedService_DeleteComment(t *testing.T) {
	owner := "u-1"
	tests := []struct {
		name      string
		actor     *domain.Actor
		comment   domain.Comment
		want      error
		moderated bool
	}{
		{"owner", &domain.Actor{ID: "u-1", Username: "alice", Role: domain.RoleUser}, domain.Comment{ID: 9, UserID: &owner, UserName: "alice"}, nil, false},
		{"stranger", &domain.Actor{ID: "u-2", Username: "bob", Role: domain.RoleUser}, domain.Comment{ID: 9, UserID: &owner, UserName: "alice"}, domain.ErrForbidden, false},
		{"worker moderates", &domain.Actor{ID: "w-1", Username: "wendy", Role: domain.RoleWorker}, domain.Comment{ID: 9, UserID: &owner, UserName: "alice"}, nil, true},
		{"legacy owner by name", &domain.Actor{ID: "u-3", Username: "carol", Role: domain.RoleUser}, domain.Comment{ID: 9, UserName: "carol", LegacyOwner: true}, nil, false},
		{"legacy stranger", &domain.Actor{ID: "u-3", Username: "carol", Role: domain.RoleUser}, domain.Comment{ID: 9, UserName: "dave", LegacyOwner: true}, domain.ErrForbidden, false},
		{"deleted author name reused", &domain.Actor{ID: "u-new", Username: "carol", Role: domain.RoleUser}, domain.Comment{ID: 9, UserName: "carol"}, domain.ErrForbidden, false},
		{"anonymous", nil, domain.Comment{ID: 9, UserID: &owner}, domain.ErrUnauthenticated, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := false
			rec := &recordingAudit{}
			repo := &stubFeedRepo{
				findCommentFn: func(context.Context, int64, int64) (*domain.Comment, error) {
					c := tt.comment
					return &c, nil
				},
				deleteCommentFn: func(context.Context, int64) error { deleted = true; return nil },
			}
			svc := newFeed(repo, newMemImages(), rec)

			err := svc.DeleteComment(context.Background(), tt.actor, 1, 9)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if deleted != (tt.want == nil) {
				t.Fatalf("deleted=%v, want %v", deleted, tt.want == nil)
			}
			if got := len(rec.actions()) == 1; got != tt.moderated {
				t.Fatalf("moderation audit=%v, want %v", got, tt.moderated)
			}
		})
	}
}
