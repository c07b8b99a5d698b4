package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/common/validation"
	"golang.org/x/crypto/bcrypt"
)

type ServiceAPI interface {
	Login(ctx context.Context, input map[string]any) (*LoginResponse, error)
	Logout(ctx context.Context, caller internal.Principal) error
	Authenticate(ctx context.Context, token string) (internal.Principal, error)
}

type Service struct {
	repo     RepositoryAPI
	tokens   TokenGeneratorAPI
	sessions SessionStore
	ttl      time.Duration
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, tokens *JWTTokenGenerator, sessions SessionStore, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		sessions: sessions,
		ttl:      tokens.TTL,
		logger:   logger,
	}
}

// Login checks the credentials and opens a session. Unknown emails and wrong
// passwords produce the same error.
func (s *Service) Login(ctx context.Context, input map[string]any) (*LoginResponse, error) {
	fields, err := loginRules.Validate(ctx, input, validation.Options{Operation: validation.OperationCreate})
	if err != nil {
		return nil, err
	}
	dto := LoginDTO{Email: fields["email"].(string), Password: fields["password"].(string)}

	u, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		s.logger.Error("failed to load user for login", "error", err)
		return nil, internal.NewInternalError(internal.InternalErrorMessage, err)
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(dto.Password)) != nil {
		s.logger.Warn("login rejected", "email", dto.Email)
		return nil, internal.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Generate(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return nil, internal.NewInternalError(internal.InternalErrorMessage, err)
	}
	if err := s.sessions.Save(ctx, Session{ID: claims.ID, UserID: u.ID}, s.ttl); err != nil {
		s.logger.Error("failed to store session", "user_id", u.ID, "error", err)
		return nil, internal.NewInternalError(internal.InternalErrorMessage, err)
	}

	s.logger.Info("user logged in", "user_id", u.ID)
	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        AccountInfo{ID: u.ID, Email: u.Email, IsAdmin: u.IsAdmin},
	}, nil
}

func (s *Service) Logout(ctx context.Context, caller internal.Principal) error {
	if err := s.sessions.Revoke(ctx, caller.SessionID); err != nil {
		s.logger.Error("failed to revoke session", "user_id", caller.UserID, "error", err)
		return internal.NewInternalError(internal.InternalErrorMessage, err)
	}
	s.logger.Info("user logged out", "user_id", caller.UserID)
	return nil
}

// Authenticate resolves a bearer token to a principal. The admin flag is read
// from the database so a demotion takes effect on the next request.
func (s *Service) Authenticate(ctx context.Context, token string) (internal.Principal, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return internal.Principal{}, err
	}

	live, err := s.sessions.Exists(ctx, claims.ID)
	if err != nil {
		s.logger.Error("failed to check session", "user_id", claims.UserID, "error", err)
		return internal.Principal{}, internal.NewInternalError(internal.InternalErrorMessage, err)
	}
	if !live {
		return internal.Principal{}, internal.ErrSessionRevoked
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return internal.Principal{}, internal.NewInternalError(internal.InternalErrorMessage, err)
	}
	if u == nil {
		return internal.Principal{}, internal.ErrInvalidToken
	}

	return internal.Principal{
		UserID:    u.ID,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		SessionID: claims.ID,
	}, nil
}
