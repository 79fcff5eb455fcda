package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/nhasan/codebin/internal/apperror"
	"github.com/nhasan/codebin/internal/auth"
	"github.com/nhasan/codebin/internal/model"
	"github.com/nhasan/codebin/internal/repository"
)

// mockSnippetRepo is an in-memory stand-in for the SQLite repository. It
// implements the same interface, so the service can't tell the difference —
// and the tests run without touching a database.
type mockSnippetRepo struct {
	snippets map[int64]*model.Snippet
	nextID   int64
}

var _ repository.SnippetRepository = (*mockSnippetRepo)(nil)

func newMockRepo() *mockSnippetRepo {
	return &mockSnippetRepo{snippets: make(map[int64]*model.Snippet)}
}

func (m *mockSnippetRepo) Create(_ context.Context, snippet *model.Snippet) error {
	m.nextID++
	snippet.ID = m.nextID
	snippet.Created = time.Now()
	stored := *snippet
	m.snippets[snippet.ID] = &stored
	return nil
}

func (m *mockSnippetRepo) GetByID(_ context.Context, id int64) (*model.Snippet, error) {
	snippet, ok := m.snippets[id]
	if !ok {
		return nil, apperror.NotFound("snippet", id)
	}
	result := *snippet
	return &result, nil
}

func (m *mockSnippetRepo) List(_ context.Context) ([]model.Snippet, error) {
	result := make([]model.Snippet, 0, len(m.snippets))
	for _, s := range m.snippets {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockSnippetRepo) Update(_ context.Context, snippet *model.Snippet) error {
	if _, ok := m.snippets[snippet.ID]; !ok {
		return apperror.NotFound("snippet", snippet.ID)
	}
	stored := *snippet
	m.snippets[snippet.ID] = &stored
	return nil
}

func (m *mockSnippetRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.snippets[id]; !ok {
		return apperror.NotFound("snippet", id)
	}
	delete(m.snippets, id)
	return nil
}

// stubRenderer encodes its inputs into the output, so tests can check that
// the stored rendering matches the stored fields without depending on real
// highlighter output.
type stubRenderer struct{}

func (stubRenderer) Render(code, language, style string, linenos bool, title string) (string, error) {
	return fmt.Sprintf("render(%s|%s|%s|%v|%s)", code, language, style, linenos, title), nil
}

func newTestService(t *testing.T) (*SnippetService, *mockSnippetRepo) {
	t.Helper()
	repo := newMockRepo()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := NewSnippetService(repo, stubRenderer{}, logger)
	return svc, repo
}

var (
	alice = &auth.Identity{UserID: 1, Username: "alice"}
	bob   = &auth.Identity{UserID: 2, Username: "bob"}
)

func TestCreate_Defaults(t *testing.T) {
	svc, _ := newTestService(t)

	snippet, err := svc.Create(context.Background(), alice, model.SnippetInput{Code: "print(123)"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if snippet.ID == 0 {
		t.Error("expected snippet to have an ID")
	}
	if snippet.Language != "python" {
		t.Errorf("Language = %q, want default %q", snippet.Language, "python")
	}
	if snippet.Style != "friendly" {
		t.Errorf("Style = %q, want default %q", snippet.Style, "friendly")
	}
	if snippet.Linenos {
		t.Error("Linenos should default to false")
	}
	if snippet.Title != "" {
		t.Errorf("Title = %q, want empty", snippet.Title)
	}
}

func TestCreate_OwnerForcedFromIdentity(t *testing.T) {
	svc, _ := newTestService(t)

	snippet, err := svc.Create(context.Background(), alice, model.SnippetInput{Code: "x"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if snippet.OwnerID != alice.UserID || snippet.Owner != "alice" {
		t.Errorf("owner = (%d, %q), want (%d, %q)", snippet.OwnerID, snippet.Owner, alice.UserID, "alice")
	}
}

func TestCreate_HighlightedDerived(t *testing.T) {
	svc, _ := newTestService(t)

	snippet, err := svc.Create(context.Background(), alice, model.SnippetInput{
		Code: "x = 1", Language: "python", Style: "monokai", Linenos: true, Title: "t",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	want := "render(x = 1|python|monokai|true|t)"
	if snippet.Highlighted != want {
		t.Errorf("Highlighted = %q, want %q", snippet.Highlighted, want)
	}
}

func TestCreate_Anonymous(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.Create(context.Background(), nil, model.SnippetInput{Code: "x"})
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
	if len(repo.snippets) != 0 {
		t.Error("nothing should be written on a rejected create")
	}
}

func TestCreate_MissingCode(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), alice, model.SnippetInput{})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestCreate_InvalidEnums(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), alice, model.SnippetInput{Code: "x", Language: "klingon"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("language error = %v, want ErrValidation", err)
	}

	_, err = svc.Create(context.Background(), alice, model.SnippetInput{Code: "x", Style: "invisible"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("style error = %v, want ErrValidation", err)
	}
}

func TestCreate_TitleTooLong(t *testing.T) {
	svc, _ := newTestService(t)

	long := make([]byte, MaxTitleLength+1)
	for i := range long {
		long[i] = 'a'
	}

	_, err := svc.Create(context.Background(), alice, model.SnippetInput{Code: "x", Title: string(long)})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func createFixture(t *testing.T, svc *SnippetService, ident *auth.Identity) *model.Snippet {
	t.Helper()
	snippet, err := svc.Create(context.Background(), ident, model.SnippetInput{
		Code: "original", Title: "original title", Language: "go", Style: "monokai",
	})
	if err != nil {
		t.Fatalf("setup: Create() error = %v", err)
	}
	return snippet
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestUpdate_PartialKeepsOmittedFields(t *testing.T) {
	svc, _ := newTestService(t)
	created := createFixture(t, svc, alice)

	updated, err := svc.Update(context.Background(), alice, created.ID, model.SnippetUpdate{
		Code: strPtr("changed"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Code != "changed" {
		t.Errorf("Code = %q, want %q", updated.Code, "changed")
	}
	if updated.Title != "original title" {
		t.Errorf("Title = %q, want unchanged %q", updated.Title, "original title")
	}
	if updated.Language != "go" || updated.Style != "monokai" {
		t.Errorf("enums changed: language=%q style=%q", updated.Language, updated.Style)
	}
}

func TestUpdate_ExplicitZeroValueApplies(t *testing.T) {
	svc, _ := newTestService(t)
	created := createFixture(t, svc, alice)

	// {"title": ""} clears the title; omitting it would keep it.
	updated, err := svc.Update(context.Background(), alice, created.ID, model.SnippetUpdate{
		Title: strPtr(""),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "" {
		t.Errorf("Title = %q, want cleared", updated.Title)
	}
}

func TestUpdate_RecomputesHighlighted(t *testing.T) {
	svc, _ := newTestService(t)
	created := createFixture(t, svc, alice)

	updated, err := svc.Update(context.Background(), alice, created.ID, model.SnippetUpdate{
		Linenos: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	want := "render(original|go|monokai|true|original title)"
	if updated.Highlighted != want {
		t.Errorf("Highlighted = %q, want %q", updated.Highlighted, want)
	}
	if updated.Highlighted == created.Highlighted {
		t.Error("Highlighted should change when linenos changes")
	}
}

func TestUpdate_InvalidEnumWritesNothing(t *testing.T) {
	svc, repo := newTestService(t)
	created := createFixture(t, svc, alice)

	_, err := svc.Update(context.Background(), alice, created.ID, model.SnippetUpdate{
		Code:  strPtr("would be lost"),
		Style: strPtr("invisible"),
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}

	stored, _ := repo.GetByID(context.Background(), created.ID)
	if stored.Code != "original" {
		t.Errorf("Code = %q — the rejected update was partially applied", stored.Code)
	}
}

func TestUpdate_NonOwnerForbidden(t *testing.T) {
	svc, _ := newTestService(t)
	created := createFixture(t, svc, alice)

	_, err := svc.Update(context.Background(), bob, created.ID, model.SnippetUpdate{Code: strPtr("stolen")})
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

func TestUpdate_AnonymousUnauthorized(t *testing.T) {
	svc, _ := newTestService(t)
	created := createFixture(t, svc, alice)

	_, err := svc.Update(context.Background(), nil, created.ID, model.SnippetUpdate{Code: strPtr("x")})
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), alice, 999, model.SnippetUpdate{Code: strPtr("x")})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDelete_Owner(t *testing.T) {
	svc, _ := newTestService(t)
	created := createFixture(t, svc, alice)

	if err := svc.Delete(context.Background(), alice, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := svc.GetByID(context.Background(), created.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID after delete: error = %v, want ErrNotFound", err)
	}
}

func TestDelete_Twice(t *testing.T) {
	svc, _ := newTestService(t)
	created := createFixture(t, svc, alice)

	if err := svc.Delete(context.Background(), alice, created.ID); err != nil {
		t.Fatalf("first Delete() error = %v", err)
	}
	err := svc.Delete(context.Background(), alice, created.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete(): error = %v, want ErrNotFound", err)
	}
}

func TestDelete_NonOwnerForbidden(t *testing.T) {
	svc, repo := newTestService(t)
	created := createFixture(t, svc, alice)

	err := svc.Delete(context.Background(), bob, created.ID)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
	if _, ok := repo.snippets[created.ID]; !ok {
		t.Error("snippet was deleted despite the forbidden error")
	}
}

func TestDelete_AnonymousUnauthorized(t *testing.T) {
	svc, _ := newTestService(t)
	created := createFixture(t, svc, alice)

	err := svc.Delete(context.Background(), nil, created.ID)
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}
