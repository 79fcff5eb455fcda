package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nhasan/codebin/internal/model"
	"github.com/nhasan/codebin/internal/repository"
)

// UserService exposes the read-only user surface: a user plus the ids of the
// snippets it owns. Account creation happens out of band (cmd/useradd).
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// GetByID returns one user with its owned snippet ids.
func (s *UserService) GetByID(ctx context.Context, id int64) (model.UserDetail, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return model.UserDetail{}, err
	}

	ids, err := s.users.SnippetIDsByOwner(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to load snippet ids",
			slog.Int64("userID", user.ID),
			slog.String("error", err.Error()),
		)
		return model.UserDetail{}, fmt.Errorf("loading snippet ids for user %d: %w", user.ID, err)
	}

	return model.NewUserDetail(user, ids), nil
}

// List returns every user with their owned snippet ids, ordered by id.
func (s *UserService) List(ctx context.Context) ([]model.UserDetail, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}

	details := make([]model.UserDetail, 0, len(users))
	for i := range users {
		ids, err := s.users.SnippetIDsByOwner(ctx, users[i].ID)
		if err != nil {
			return nil, fmt.Errorf("loading snippet ids for user %d: %w", users[i].ID, err)
		}
		details = append(details, model.NewUserDetail(&users[i], ids))
	}

	return details, nil
}
