package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/coffeeshop/site-api/internal/api/middleware"
	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/ports"
)

// --- request helpers ---

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newMultipartContext(t *testing.T, target string, fields map[string]string, fileField string, file []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, "photo.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = fw.Write(file)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withParams(c echo.Context, kv ...string) {
	var names, values []string
	for i := 0; i+1 < len(kv); i += 2 {
		names = append(names, kv[i])
		values = append(values, kv[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
}

func asUser(c echo.Context, id string, role domain.Role) {
	middleware.SetAccount(c, &domain.Account{ID: id, Username: "user-" + id, Role: role})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success envelope, got %v", resp)
	}
	return resp
}

func strPtr(s string) *string { return &s }

// --- service stubs ---

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, login, password string) (*ports.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, login, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, login, password)
}

type stubFeedService struct {
	listFn          func(ctx context.Context, viewerID string) ([]domain.Article, error)
	getFn           func(ctx context.Context, id int64, viewerID string) (*domain.Article, error)
	createFn        func(ctx context.Context, actor *domain.Actor, in ports.ArticleInput) (*domain.Article, error)
	updateFn        func(ctx context.Context, actor *domain.Actor, id int64, patch domain.ArticlePatch) (*domain.Article, error)
	deleteFn        func(ctx context.Context, actor *domain.Actor, id int64) (domain.CascadeResult, error)
	toggleLikeFn    func(ctx context.Context, actor *domain.Actor, id int64) (*domain.LikeResult, error)
	commentsFn      func(ctx context.Context, id int64) ([]domain.Comment, error)
	addCommentFn    func(ctx context.Context, actor *domain.Actor, id int64, content string) (*domain.Comment, error)
	deleteCommentFn func(ctx context.Context, actor *domain.Actor, articleID, commentID int64) error
}

func (s *stubFeedService) List(ctx context.Context, viewerID string) ([]domain.Article, error) {
	return s.listFn(ctx, viewerID)
}

func (s *stubFeedService) Get(ctx context.Context, id int64, viewerID string) (*domain.Article, error) {
	return s.getFn(ctx, id, viewerID)
}

func (s *stubFeedService) Create(ctx context.Context, actor *domain.Actor, in ports.ArticleInput) (*domain.Article, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubFeedService) Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.ArticlePatch) (*domain.Article, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubFeedService) Delete(ctx context.Context, actor *domain.Actor, id int64) (domain.CascadeResult, error) {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubFeedService) ToggleLike(ctx context.Context, actor *domain.Actor, id int64) (*domain.LikeResult, error) {
	return s.toggleLikeFn(ctx, actor, id)
}

func (s *stubFeedService) Comments(ctx context.Context, id int64) ([]domain.Comment, error) {
	return s.commentsFn(ctx, id)
}

func (s *stubFeedService) AddComment(ctx context.Context, actor *domain.Actor, id int64, content string) (*domain.Comment, error) {
	return s.addCommentFn(ctx, actor, id, content)
}

func (s *stubFeedService) DeleteComment(ctx context.Context, actor *domain.Actor, articleID, commentID int64) error {
	return s.deleteCommentFn(ctx, actor, articleID, commentID)
}

type stubDrinkService struct {
	listFn         func(ctx context.Context) ([]domain.Drink, error)
	getFn          func(ctx context.Context, id int64) (*domain.Drink, error)
	createFn       func(ctx context.Context, actor *domain.Actor, in ports.DrinkInput) (*domain.Drink, error)
	updateFn       func(ctx context.Context, actor *domain.Actor, id int64, patch domain.DrinkPatch) (*domain.Drink, error)
	deleteFn       func(ctx context.Context, actor *domain.Actor, id int64) (domain.CascadeResult, error)
	reviewsFn      func(ctx context.Context, id int64) ([]domain.Review, error)
	addReviewFn    func(ctx context.Context, actor *domain.Actor, id int64, in ports.ReviewInput) (*domain.ReviewSummary, error)
	deleteReviewFn func(ctx context.Context, actor *domain.Actor, drinkID, reviewID int64) error
}

func (s *stubDrinkService) List(ctx context.Context) ([]domain.Drink, error) { return s.listFn(ctx) }

func (s *stubDrinkService) Get(ctx context.Context, id int64) (*domain.Drink, error) {
	return s.getFn(ctx, id)
}

func (s *stubDrinkService) Create(ctx context.Context, actor *domain.Actor, in ports.DrinkInput) (*domain.Drink, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubDrinkService) Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.DrinkPatch) (*domain.Drink, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubDrinkService) Delete(ctx context.Context, actor *domain.Actor, id int64) (domain.CascadeResult, error) {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubDrinkService) Reviews(ctx context.Context, id int64) ([]domain.Review, error) {
	return s.reviewsFn(ctx, id)
}

func (s *stubDrinkService) AddReview(ctx context.Context, actor *domain.Actor, id int64, in ports.ReviewInput) (*domain.ReviewSummary, error) {
	return s.addReviewFn(ctx, actor, id, in)
}

func (s *stubDrinkService) DeleteReview(ctx context.Context, actor *domain.Actor, drinkID, reviewID int64) error {
	return s.deleteReviewFn(ctx, actor, drinkID, reviewID)
}

type stubScheduleService struct {
	shiftsFn    func(ctx context.Context, start, end string) ([]domain.Shift, error)
	employeesFn func(ctx context.Context) ([]domain.Employee, error)
	templatesFn func(ctx context.Context) ([]domain.ShiftTemplate, error)
	createFn    func(ctx context.Context, actor *domain.Actor, in ports.ShiftInput) (*domain.Shift, error)
	updateFn    func(ctx context.Context, actor *domain.Actor, id int64, patch domain.ShiftPatch) (*domain.Shift, error)
	deleteFn    func(ctx context.Context, actor *domain.Actor, id int64) error
}

func (s *stubScheduleService) Shifts(ctx context.Context, start, end string) ([]domain.Shift, error) {
	return s.shiftsFn(ctx, start, end)
}

func (s *stubScheduleService) Employees(ctx context.Context) ([]domain.Employee, error) {
	return s.employeesFn(ctx)
}

func (s *stubScheduleService) Templates(ctx context.Context) ([]domain.ShiftTemplate, error) {
	return s.templatesFn(ctx)
}

func (s *stubScheduleService) Create(ctx context.Context, actor *domain.Actor, in ports.ShiftInput) (*domain.Shift, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubScheduleService) Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.ShiftPatch) (*domain.Shift, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubScheduleService) Delete(ctx context.Context, actor *domain.Actor, id int64) error {
	return s.deleteFn(ctx, actor, id)
}

type stubAccountService struct {
	profileFn       func(ctx context.Context, actor *domain.Actor) (*domain.Account, error)
	publicFn        func(ctx context.Context, id string) (*domain.Account, error)
	setAvatarFn     func(ctx context.Context, actor *domain.Actor, img ports.ImageInput) (*domain.Account, error)
	deleteAvatarFn  func(ctx context.Context, actor *domain.Actor) (*domain.Account, error)
	listFn          func(ctx context.Context, actor *domain.Actor, search string) ([]domain.Account, error)
	setReputationFn func(ctx context.Context, actor *domain.Actor, targetID string, value int) (*domain.Account, error)
	deleteFn        func(ctx context.Context, actor *domain.Actor, targetID string) error
}

func (s *stubAccountService) Profile(ctx context.Context, actor *domain.Actor) (*domain.Account, error) {
	return s.profileFn(ctx, actor)
}

func (s *stubAccountService) PublicProfile(ctx context.Context, id string) (*domain.Account, error) {
	return s.publicFn(ctx, id)
}

func (s *stubAccountService) SetAvatar(ctx context.Context, actor *domain.Actor, img ports.ImageInput) (*domain.Account, error) {
	return s.setAvatarFn(ctx, actor, img)
}

func (s *stubAccountService) DeleteAvatar(ctx context.Context, actor *domain.Actor) (*domain.Account, error) {
	return s.deleteAvatarFn(ctx, actor)
}

func (s *stubAccountService) List(ctx context.Context, actor *domain.Actor, search string) ([]domain.Account, error) {
	return s.listFn(ctx, actor, search)
}

func (s *stubAccountService) SetReputation(ctx context.Context, actor *domain.Actor, targetID string, value int) (*domain.Account, error) {
	return s.setReputationFn(ctx, actor, targetID, value)
}

func (s *stubAccountService) Delete(ctx context.Context, actor *domain.Actor, targetID string) error {
	return s.deleteFn(ctx, actor, targetID)
}

type stubReputationService struct {
	voteFn   func(ctx context.Context, actor *domain.Actor, targetID string, dir domain.VoteDirection) (*domain.VoteResult, error)
	statusFn func(ctx context.Context, actor *domain.Actor, targetID string) (*domain.VoteStatus, error)
}

func (s *stubReputationService) Vote(ctx context.Context, actor *domain.Actor, targetID string, dir domain.VoteDirection) (*domain.VoteResult, error) {
	return s.voteFn(ctx, actor, targetID, dir)
}

func (s *stubReputationService) Status(ctx context.Context, actor *domain.Actor, targetID string) (*domain.VoteStatus, error) {
	return s.statusFn(ctx, actor, targetID)
}

type stubRoleService struct {
	assignFn func(ctx context.Context, actor *domain.Actor, targetID string, role domain.Role) (*domain.Account, error)
}

func (s *stubRoleService) AssignRole(ctx context.Context, actor *domain.Actor, targetID string, role domain.Role) (*domain.Account, error) {
	return s.assignFn(ctx, actor, targetID, role)
}

func (s *stubRoleService) PromoteBootstrap(_ context.Context, account *domain.Account) (*domain.Account, error) {
	return account, nil
}

func (s *stubRoleService) Reconcile(context.Context) error { return nil }

type stubUploadService struct {
	storeFn func(ctx context.Context, actor *domain.Actor, img ports.ImageInput) (*domain.Upload, error)
}

func (s *stubUploadService) Store(ctx context.Context, actor *domain.Actor, img ports.ImageInput) (*domain.Upload, error) {
	return s.storeFn(ctx, actor, img)
}

type stubAuditReader struct {
	recentFn func(ctx context.Context, targetID string, limit int64) ([]domain.AuditEvent, error)
}

func (s *stubAuditReader) Recent(ctx context.Context, targetID string, limit int64) ([]domain.AuditEvent, error) {
	return s.recentFn(ctx, targetID, limit)
}
