package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nhasan/codebin/internal/apperror"
	"github.com/nhasan/codebin/internal/auth"
	"github.com/nhasan/codebin/internal/model"
	"github.com/nhasan/codebin/internal/repository"
)

type mockUserRepo struct {
	users      map[int64]*model.User
	snippetIDs map[int64][]int64
	nextID     int64
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:      make(map[int64]*model.User),
		snippetIDs: make(map[int64][]int64),
	}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, &apperror.AppError{
		Err:     apperror.ErrNotFound,
		Message: fmt.Sprintf("user not found with username %q", username),
	}
}

func (m *mockUserRepo) ListUsers(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(m.users))
	for id := int64(1); id <= m.nextID; id++ {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) SnippetIDsByOwner(_ context.Context, ownerID int64) ([]int64, error) {
	if ids, ok := m.snippetIDs[ownerID]; ok {
		return ids, nil
	}
	return []int64{}, nil
}

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()

	repo := newMockUserRepo()
	passwords := auth.NewPasswordServiceWithCost(bcrypt.MinCost)
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := NewAuthService(repo, tokens, passwords, logger)

	hash, err := passwords.Hash("sekrit")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if err := repo.CreateUser(context.Background(), &model.User{Username: "alice", PasswordHash: hash}); err != nil {
		t.Fatalf("creating fixture user: %v", err)
	}

	return svc, repo
}

func TestVerifyPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	user, err := svc.VerifyPassword(context.Background(), "alice", "sekrit")
	if err != nil {
		t.Fatalf("VerifyPassword() error = %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want %q", user.Username, "alice")
	}
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.VerifyPassword(context.Background(), "alice", "wrong")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyPassword_UnknownUser(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.VerifyPassword(context.Background(), "mallory", "sekrit")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
	// Same category as a wrong password — the caller can't probe usernames.
}

func TestIssueAndVerifyToken(t *testing.T) {
	svc, _ := newTestAuthService(t)

	token, err := svc.IssueToken(context.Background(), "alice", "sekrit")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	user, err := svc.VerifyToken(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want %q", user.Username, "alice")
	}
}

func TestIssueToken_BadCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.IssueToken(context.Background(), "alice", "wrong")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyToken_DeletedUser(t *testing.T) {
	svc, repo := newTestAuthService(t)

	token, err := svc.IssueToken(context.Background(), "alice", "sekrit")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	delete(repo.users, 1)

	_, err = svc.VerifyToken(context.Background(), token)
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized — a valid token for a deleted user must not authenticate", err)
	}
}

func TestTokensDisabled(t *testing.T) {
	repo := newMockUserRepo()
	passwords := auth.NewPasswordServiceWithCost(bcrypt.MinCost)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := NewAuthService(repo, nil, passwords, logger)

	if svc.TokensEnabled() {
		t.Error("TokensEnabled() = true with a nil TokenService")
	}
	if _, err := svc.VerifyToken(context.Background(), "whatever"); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("VerifyToken error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.IssueToken(context.Background(), "a", "b"); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("IssueToken error = %v, want ErrUnauthorized", err)
	}
}
