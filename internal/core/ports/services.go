package ports

import (
	"context"

	"github.com/coffeeshop/site-api/internal/core/domain"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token   string
	Account *domain.Account
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, login, password string) (*AuthResult, error)
}

// ImageInput is an uploaded file as received from the client. The declared
// content type is not trusted.
type ImageInput struct {
	Filename string
	Data     []byte
}

type AccountService interface {
	Profile(ctx context.Context, actor *domain.Actor) (*domain.Account, error)
	PublicProfile(ctx context.Context, id string) (*domain.Account, error)
	SetAvatar(ctx context.Context, actor *domain.Actor, img ImageInput) (*domain.Account, error)
	DeleteAvatar(ctx context.Context, actor *domain.Actor) (*domain.Account, error)

	List(ctx context.Context, actor *domain.Actor, search string) ([]domain.Account, error)
	SetReputation(ctx context.Context, actor *domain.Actor, targetID string, value int) (*domain.Account, error)
	Delete(ctx context.Context, actor *domain.Actor, targetID string) error
}

// RoleService is the only code path that changes account roles.
type RoleService interface {
	AssignRole(ctx context.Context, actor *domain.Actor, targetID string, role domain.Role) (*domain.Account, error)
	// PromoteBootstrap makes the account the creator if it is the bootstrap identity.
	PromoteBootstrap(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Reconcile(ctx context.Context) error
}

type ReputationService interface {
	Vote(ctx context.Context, actor *domain.Actor, targetID string, dir domain.VoteDirection) (*domain.VoteResult, error)
	Status(ctx context.Context, actor *domain.Actor, targetID string) (*domain.VoteStatus, error)
}

// ArticleInput carries a new news item or post. Image wins over ImageURL.
type ArticleInput struct {
	Title    string
	Content  string
	ImageURL *string
	Image    *ImageInput
}

type FeedService interface {
	List(ctx context.Context, viewerID string) ([]domain.Article, error)
	Get(ctx context.Context, id int64, viewerID string) (*domain.Article, error)
	Create(ctx context.Context, actor *domain.Actor, in ArticleInput) (*domain.Article, error)
	Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.ArticlePatch) (*domain.Article, error)
	Delete(ctx context.Context, actor *domain.Actor, id int64) (domain.CascadeResult, error)

	ToggleLike(ctx context.Context, actor *domain.Actor, id int64) (*domain.LikeResult, error)
	Comments(ctx context.Context, id int64) ([]domain.Comment, error)
	AddComment(ctx context.Context, actor *domain.Actor, id int64, content string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, actor *domain.Actor, articleID, commentID int64) error
}

// DrinkInput carries a new menu entry. Image wins over ImageURL.
type DrinkInput struct {
	Name        string
	Description *string
	Price       *float64
	Category    *string
	Ingredients []string
	ImageURL    *string
	Image       *ImageInput
}

// ReviewInput carries a drink review.
type ReviewInput struct {
	Rating  int
	Comment *string
}

type DrinkService interface {
	List(ctx context.Context) ([]domain.Drink, error)
	Get(ctx context.Context, id int64) (*domain.Drink, error)
	Create(ctx context.Context, actor *domain.Actor, in DrinkInput) (*domain.Drink, error)
	Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.DrinkPatch) (*domain.Drink, error)
	Delete(ctx context.Context, actor *domain.Actor, id int64) (domain.CascadeResult, error)

	Reviews(ctx context.Context, id int64) ([]domain.Review, error)
	AddReview(ctx context.Context, actor *domain.Actor, id int64, in ReviewInput) (*domain.ReviewSummary, error)
	DeleteReview(ctx context.Context, actor *domain.Actor, drinkID, reviewID int64) error
}

// ShiftInput carries a new shift.
type ShiftInput struct {
	UserID    string
	ShiftDate string
	StartTime string
	EndTime   string
	Hours     float64
	Notes     *string
}

type ScheduleService interface {
	Shifts(ctx context.Context, start, end string) ([]domain.Shift, error)
	Employees(ctx context.Context) ([]domain.Employee, error)
	Templates(ctx context.Context) ([]domain.ShiftTemplate, error)
	Create(ctx context.Context, actor *domain.Actor, in ShiftInput) (*domain.Shift, error)
	Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.ShiftPatch) (*domain.Shift, error)
	Delete(ctx context.Context, actor *domain.Actor, id int64) error
}

type UploadService interface {
	Store(ctx context.Context, actor *domain.Actor, img ImageInput) (*domain.Upload, error)
}
