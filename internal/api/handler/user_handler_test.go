package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/ports"
)

func TestUserHandler_Vote(t *testing.T) {
	up := domain.VoteUp
	rep := &stubReputationService{
		voteFn: func(ctx context.Context, actor *domain.Actor, targetID string, dir domain.VoteDirection) (*domain.VoteResult, error) {
			if actor.ID != "u-1" || targetID != "u-2" || dir != domain.VoteUp {
				t.Fatalf("unexpected vote %s -> %s (%s)", actor.ID, targetID, dir)
			}
			return &domain.VoteResult{Reputation: 11, HasVoted: true, VoteType: &up}, nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/api/user/u-2/reputation", `{"voteType":"up"}`)
	withParams(c, "userId", "u-2")
	asUser(c, "u-1", domain.RoleUser)

	if err := NewUserHandler(&stubAccountService{}, rep).Vote(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	if resp["reputation"] != float64(11) || resp["hasVoted"] != true || resp["voteType"] != "up" {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestUserHandler_Vote_InvalidDirection(t *testing.T) {
	rep := &stubReputationService{
		voteFn: func(ctx context.Context, actor *domain.Actor, targetID string, dir domain.VoteDirection) (*domain.VoteResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/api/user/u-2/reputation", `{"voteType":"sideways"}`)
	withParams(c, "userId", "u-2")
	asUser(c, "u-1", domain.RoleUser)

	err := NewUserHandler(&stubAccountService{}, rep).Vote(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserHandler_ReputationStatus_NoVote(t *testing.T) {
	rep := &stubReputationService{
		statusFn: func(ctx context.Context, actor *domain.Actor, targetID string) (*domain.VoteStatus, error) {
			return &domain.VoteStatus{}, nil
		},
	}
	c, rec := newJSONContext(http.MethodGet, "/api/user/u-2/reputation-status", "")
	withParams(c, "userId", "u-2")
	asUser(c, "u-1", domain.RoleUser)

	if err := NewUserHandler(&stubAccountService{}, rep).ReputationStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	if resp["hasVoted"] != false || resp["voteType"] != nil {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestUserHandler_UploadAvatar_MissingFile(t *testing.T) {
	acc := &stubAccountService{
		setAvatarFn: func(ctx context.Context, actor *domain.Actor, img ports.ImageInput) (*domain.Account, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newMultipartContext(t, "/api/user/avatar", map[string]string{"note": "x"}, "", nil)
	asUser(c, "u-1", domain.RoleUser)

	if err := NewUserHandler(acc, &stubReputationService{}).UploadAvatar(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserHandler_UploadAvatar(t *testing.T) {
	acc := &stubAccountService{
		setAvatarFn: func(ctx context.Context, actor *domain.Actor, img ports.ImageInput) (*domain.Account, error) {
			if string(img.Data) != "avatar-bytes" {
				t.Fatalf("unexpected image data %q", img.Data)
			}
			avatar := "/uploads/a.png"
			return &domain.Account{ID: actor.ID, Avatar: &avatar}, nil
		},
	}
	c, rec := newMultipartContext(t, "/api/user/avatar", nil, "avatar", []byte("avatar-bytes"))
	asUser(c, "u-1", domain.RoleUser)

	if err := NewUserHandler(acc, &stubReputationService{}).UploadAvatar(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if decode(t, rec)["user"] == nil {
		t.Fatalf("expected user in response")
	}
}
