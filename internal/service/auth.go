package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nhasan/codebin/internal/apperror"
	"github.com/nhasan/codebin/internal/auth"
	"github.com/nhasan/codebin/internal/model"
	"github.com/nhasan/codebin/internal/repository"
)

// AuthService resolves credentials to users and issues access tokens. It
// implements auth.Verifier, so the identity middleware calls straight into
// it for both Basic and Bearer requests.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService // nil when no JWT secret is configured
	passwords *auth.PasswordService
	logger    *slog.Logger
}

var _ auth.Verifier = (*AuthService)(nil)

// NewAuthService wires an AuthService. tokens may be nil — Basic auth keeps
// working, bearer tokens are refused.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// VerifyPassword checks a username/password pair against the stored bcrypt
// hash. Unknown usernames and wrong passwords both come back as the same
// Unauthorized error — the response must not reveal which half was wrong.
func (s *AuthService) VerifyPassword(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid username or password")
		}
		return nil, err
	}

	ok, err := s.passwords.Verify(user.PasswordHash, password)
	if err != nil {
		s.logger.Error("password verification failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	if !ok {
		return nil, apperror.Unauthorized("invalid username or password")
	}

	return user, nil
}

// VerifyToken validates a bearer token and loads its user. Loading the user
// (rather than trusting the token alone) means a deleted account stops
// authenticating the moment the row is gone, not when its tokens expire.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	if s.tokens == nil {
		return nil, apperror.Unauthorized("token authentication is not enabled")
	}

	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, apperror.Unauthorized("invalid or expired token")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid or expired token")
		}
		return nil, err
	}

	return user, nil
}

// IssueToken verifies a username/password pair and returns a signed access
// token for the user.
func (s *AuthService) IssueToken(ctx context.Context, username, password string) (string, error) {
	if s.tokens == nil {
		return "", apperror.Unauthorized("token authentication is not enabled")
	}

	user, err := s.VerifyPassword(ctx, username, password)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		s.logger.Error("failed to issue token",
			slog.Int64("userID", user.ID),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	s.logger.Info("token issued", slog.String("username", user.Username))
	return token, nil
}

// TokensEnabled reports whether bearer-token auth is configured. The server
// uses it to decide whether to register /auth/token/.
func (s *AuthService) TokensEnabled() bool {
	return s.tokens != nil
}
