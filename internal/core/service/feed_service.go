package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/policy"
	"github.com/coffeeshop/site-api/internal/core/ports"
)

const maxCommentLen = 2000

// FeedService serves one article feed. News and posts differ only in the
// repository tables and the policy resource kind.
type FeedService struct {
	kind   policy.Kind
	repo   ports.FeedRepository
	policy *policy.Policy
	images *Images
	audit  ports.AuditRepository
	log    zerolog.Logger
}

// NewFeedService returns a FeedService for the given feed kind.
func NewFeedService(
	kind domain.FeedKind,
	repo ports.FeedRepository,
	p *policy.Policy,
	images *Images,
	auditRepo ports.AuditRepository,
	log zerolog.Logger,
) *FeedService {
	k := policy.KindNews
	if kind == domain.FeedPosts {
		k = policy.KindPost
	}
	return &FeedService{
		kind:   k,
		repo:   repo,
		policy: p,
		images: images,
		audit:  auditRepo,
		log:    log.With().Str("feed", string(kind)).Logger(),
	}
}

func (s *FeedService) List(ctx context.Context, viewerID string) ([]domain.Article, error) {
	return s.repo.List(ctx, viewerID)
}

func (s *FeedService) Get(ctx context.Context, id int64, viewerID string) (*domain.Article, error) {
	return s.repo.Get(ctx, id, viewerID)
}

func (s *FeedService) Create(ctx context.Context, actor *domain.Actor, in ports.ArticleInput) (*domain.Article, error) {
	if err := authorize(s.policy, actor, policy.ActionCreate, policy.Resource{Kind: s.kind}); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, domain.Invalid("title and content are required")
	}

	image := in.ImageURL
	if in.Image != nil {
		upload, err := s.images.Save(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		image = &upload.URL
	}

	authorID := actor.ID
	article, err := s.repo.Create(ctx, &domain.Article{
		Title:    title,
		Content:  content,
		Author:   actor.Username,
		AuthorID: &authorID,
		Image:    image,
	})
	if err != nil {
		if in.Image != nil {
			s.images.Discard(ctx, image)
		}
		return nil, err
	}
	return article, nil
}

func (s *FeedService) Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.ArticlePatch) (*domain.Article, error) {
	if err := authorize(s.policy, actor, policy.ActionUpdate, policy.Resource{Kind: s.kind}); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, domain.ErrNoFields
	}
	return s.repo.Update(ctx, id, patch)
}

// Delete removes the article with its likes and comments and reports how
// many dependent rows went with it.
func (s *FeedService) Delete(ctx context.Context, actor *domain.Actor, id int64) (domain.CascadeResult, error) {
	if err := authorize(s.policy, actor, policy.ActionDelete, policy.Resource{Kind: s.kind}); err != nil {
		return domain.CascadeResult{}, err
	}

	article, err := s.repo.Get(ctx, id, "")
	if err != nil {
		return domain.CascadeResult{}, err
	}

	res, err := s.repo.Delete(ctx, id)
	if err != nil {
		return domain.CascadeResult{}, err
	}
	s.images.Discard(ctx, article.Image)

	audit(ctx, s.audit, s.log, domain.AuditEvent{
		Action:   domain.AuditContentDeleted,
		ActorID:  actor.ID,
		TargetID: string(s.kind) + ":" + itoa(id),
		Details:  map[string]any{"comments": res.Comments, "likes": res.Likes},
	})
	return res, nil
}

func (s *FeedService) ToggleLike(ctx context.Context, actor *domain.Actor, id int64) (*domain.LikeResult, error) {
	if err := authorize(s.policy, actor, policy.ActionCreate, policy.Resource{Kind: policy.KindLike}); err != nil {
		return nil, err
	}
	return s.repo.ToggleLike(ctx, id, actor.ID)
}

func (s *FeedService) Comments(ctx context.Context, id int64) ([]domain.Comment, error) {
	return s.repo.Comments(ctx, id)
}

// AddComment stores the comment under the actor's current username.
func (s *FeedService) AddComment(ctx context.Context, actor *domain.Actor, id int64, content string) (*domain.Comment, error) {
	if err := authorize(s.policy, actor, policy.ActionCreate, policy.Resource{Kind: policy.KindComment}); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.Invalid("comment content is required")
	}
	if len(content) > maxCommentLen {
		return nil, domain.Invalid("comment is too long")
	}

	userID := actor.ID
	return s.repo.AddComment(ctx, &domain.Comment{
		ArticleID: id,
		UserID:    &userID,
		UserName:  actor.Username,
		Content:   content,
	})
}

func (s *FeedService) DeleteComment(ctx context.Context, actor *domain.Actor, articleID, commentID int64) error {
	if actor == nil {
		return authorize(s.policy, nil, policy.ActionDelete, policy.Resource{Kind: policy.KindComment})
	}

	comment, err := s.repo.FindComment(ctx, articleID, commentID)
	if err != nil {
		return err
	}

	res := policy.Resource{Kind: policy.KindComment, OwnerID: comment.UserID, OwnerName: comment.UserName, LegacyOwner: comment.LegacyOwner}
	if err := authorize(s.policy, actor, policy.ActionDelete, res); err != nil {
		return err
	}

	if err := s.repo.DeleteComment(ctx, commentID); err != nil {
		return err
	}

	if !policy.Owns(actor, res) {
		audit(ctx, s.audit, s.log, domain.AuditEvent{
			Action:   domain.AuditCommentModerated,
			ActorID:  actor.ID,
			TargetID: "comment:" + itoa(commentID),
			Details:  map[string]any{"author": comment.UserName, "feed": string(s.kind)},
		})
	}
	return nil
}
