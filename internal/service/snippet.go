// Package service contains the business logic layer: validation, ownership
// checks, and the derived-field rule that keeps `highlighted` in sync with
// the fields it is rendered from.
//
// The layering follows the usual handler → service → repository split:
// handlers know HTTP, services know the rules, repositories know SQL. The
// service receives interfaces (repository.SnippetRepository,
// highlight.Renderer), so tests swap in mocks and nothing here imports
// net/http or database/sql.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nhasan/codebin/internal/apperror"
	"github.com/nhasan/codebin/internal/auth"
	"github.com/nhasan/codebin/internal/highlight"
	"github.com/nhasan/codebin/internal/model"
	"github.com/nhasan/codebin/internal/policy"
	"github.com/nhasan/codebin/internal/repository"
)

// MaxTitleLength bounds snippet titles.
const MaxTitleLength = 100

// SnippetService handles snippet business logic.
type SnippetService struct {
	repo     repository.SnippetRepository
	renderer highlight.Renderer
	logger   *slog.Logger
}

// NewSnippetService wires a SnippetService. The caller chooses the concrete
// repository (SQLite in production, a mock in tests) and renderer.
func NewSnippetService(repo repository.SnippetRepository, renderer highlight.Renderer, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:     repo,
		renderer: renderer,
		logger:   logger,
	}
}

// Create validates the input, renders the highlighted HTML, and persists a
// new snippet owned by the caller. The owner always comes from the
// authenticated identity — a client cannot assign a snippet to someone else.
func (s *SnippetService) Create(ctx context.Context, ident *auth.Identity, in model.SnippetInput) (*model.Snippet, error) {
	if err := s.authorize(http.MethodPost, ident, 0); err != nil {
		return nil, err
	}

	language := in.Language
	if language == "" {
		language = highlight.DefaultLanguage
	}
	style := in.Style
	if style == "" {
		style = highlight.DefaultStyle
	}

	snippet := &model.Snippet{
		OwnerID:  ident.UserID,
		Owner:    ident.Username,
		Title:    in.Title,
		Code:     in.Code,
		Linenos:  in.Linenos,
		Language: language,
		Style:    style,
	}

	if err := s.validate(snippet); err != nil {
		return nil, err
	}
	if err := s.render(snippet); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.Int64("ownerID", ident.UserID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.Int64("id", snippet.ID),
		slog.String("owner", snippet.Owner),
		slog.String("language", snippet.Language),
	)

	return snippet, nil
}

// GetByID retrieves one snippet. Reads need no identity.
func (s *SnippetService) GetByID(ctx context.Context, id int64) (*model.Snippet, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all snippets, oldest first.
func (s *SnippetService) List(ctx context.Context) ([]model.Snippet, error) {
	snippets, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing snippets: %w", err)
	}
	return snippets, nil
}

// Update applies a partial update to a snippet the caller owns. Fields absent
// from the input keep their stored values; validation covers the merged
// result, so an invalid value rejects the whole update with nothing written.
// The highlighted HTML is re-rendered from the merged fields on every update,
// whether or not the code itself changed — a style change alone changes the
// rendering too.
func (s *SnippetService) Update(ctx context.Context, ident *auth.Identity, id int64, in model.SnippetUpdate) (*model.Snippet, error) {
	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(http.MethodPut, ident, snippet.OwnerID); err != nil {
		return nil, err
	}

	if in.Title != nil {
		snippet.Title = *in.Title
	}
	if in.Code != nil {
		snippet.Code = *in.Code
	}
	if in.Linenos != nil {
		snippet.Linenos = *in.Linenos
	}
	if in.Language != nil {
		snippet.Language = *in.Language
	}
	if in.Style != nil {
		snippet.Style = *in.Style
	}

	if err := s.validate(snippet); err != nil {
		return nil, err
	}
	if err := s.render(snippet); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, snippet); err != nil {
		s.logger.Error("failed to update snippet",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	s.logger.Info("snippet updated", slog.Int64("id", snippet.ID))

	return snippet, nil
}

// Delete removes a snippet the caller owns. A second delete of the same id
// reports NotFound from the load, before the policy check.
func (s *SnippetService) Delete(ctx context.Context, ident *auth.Identity, id int64) error {
	snippet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorize(http.MethodDelete, ident, snippet.OwnerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("snippet deleted", slog.Int64("id", id))
	return nil
}

// authorize maps the pure policy decision to the error taxonomy: a denied
// anonymous caller gets Unauthorized (401), a denied authenticated caller
// gets Forbidden (403).
func (s *SnippetService) authorize(method string, ident *auth.Identity, ownerID int64) error {
	var requesterID int64
	authenticated := ident != nil
	if authenticated {
		requesterID = ident.UserID
	}

	if policy.Allows(method, authenticated, requesterID, ownerID) {
		return nil
	}
	if !authenticated {
		return apperror.Unauthorized("authentication credentials were not provided")
	}
	return apperror.Forbidden("you do not have permission to modify this snippet")
}

// validate enforces the field rules on a fully merged snippet.
func (s *SnippetService) validate(snippet *model.Snippet) error {
	if snippet.Code == "" {
		return apperror.ValidationFailed("code", "code is required")
	}
	if len(snippet.Title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if !highlight.IsLanguage(snippet.Language) {
		return apperror.ValidationFailed("language",
			fmt.Sprintf("%q is not a supported language", snippet.Language))
	}
	if !highlight.IsStyle(snippet.Style) {
		return apperror.ValidationFailed("style",
			fmt.Sprintf("%q is not a supported style", snippet.Style))
	}
	return nil
}

// render recomputes the derived HTML from the current field values. Called
// immediately before every write so the stored rendering can never drift
// from the fields it was rendered from.
func (s *SnippetService) render(snippet *model.Snippet) error {
	html, err := s.renderer.Render(snippet.Code, snippet.Language, snippet.Style, snippet.Linenos, snippet.Title)
	if err != nil {
		return fmt.Errorf("rendering snippet: %w", err)
	}
	snippet.Highlighted = html
	return nil
}
