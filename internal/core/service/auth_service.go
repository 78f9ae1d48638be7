package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/coffeeshop/site-api/internal/core/domain"
	"github.com/coffeeshop/site-api/internal/core/ports"
	"github.com/coffeeshop/site-api/internal/pkg/metrics"
)

const minPasswordLen = 6

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(account *domain.Account) (string, error)
}

// AuthService implements registration and login.
type AuthService struct {
	accounts ports.AccountRepository
	roles    ports.RoleService
	tokens   TokenIssuer
	throttle ports.LoginThrottle
	log      zerolog.Logger
}

// NewAuthService wires the auth flow. throttle may be nil.
func NewAuthService(
	accounts ports.AccountRepository,
	roles ports.RoleService,
	tokens TokenIssuer,
	throttle ports.LoginThrottle,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{accounts: accounts, roles: roles, tokens: tokens, throttle: throttle, log: log}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return nil, domain.Invalid("username, email and password are required")
	}
	if len(in.Password) < minPasswordLen {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return nil, domain.Invalid("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account, err := s.accounts.Create(ctx, &domain.Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		}
		return nil, err
	}

	// Registering the bootstrap username yields the creator role straight away.
	// The account is already stored, so a failed promotion must not fail the
	// request; Reconcile raises the role on the next start.
	if promoted, err := s.roles.PromoteBootstrap(ctx, account); err != nil {
		s.log.Warn().Err(err).Str("account_id", account.ID).Str("username", account.Username).
			Msg("bootstrap promotion failed, role left for startup reconcile")
	} else {
		account = promoted
	}

	tkn, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "ok").Inc()
	s.log.Info().Str("user_id", account.ID).Str("role", string(account.Role)).Msg("account registered")
	return &ports.AuthResult{Token: tkn, Account: account}, nil
}

// Login accepts either the username or the email as login.
func (s *AuthService) Login(ctx context.Context, login, password string) (*ports.AuthResult, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return nil, domain.Invalid("username or email and password are required")
	}

	if !s.allowed(ctx, login) {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "throttled").Inc()
		return nil, domain.ErrTooManyLogins
	}

	account, err := s.accounts.FindByLogin(ctx, login)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.failed(ctx, login)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		s.failed(ctx, login)
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, login); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	tkn, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()
	return &ports.AuthResult{Token: tkn, Account: account}, nil
}

// allowed fails open when the throttle store errors.
func (s *AuthService) allowed(ctx context.Context, login string) bool {
	if s.throttle == nil {
		return true
	}
	ok, err := s.throttle.Allowed(ctx, login)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
		return true
	}
	return ok
}

func (s *AuthService) failed(ctx context.Context, login string) {
	metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Failed(ctx, login); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}
