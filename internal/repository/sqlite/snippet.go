package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nhasan/codebin/internal/apperror"
	"github.com/nhasan/codebin/internal/model"
	"github.com/nhasan/codebin/internal/repository"
)

// Compile-time check that *DB implements repository.SnippetRepository.
var _ repository.SnippetRepository = (*DB)(nil)

// Every read joins users so Snippet.Owner (the username) comes back filled —
// the wire format exposes the owner's name, not its numeric id.
const snippetColumns = `s.id, s.owner_id, u.username, s.title, s.code,
	s.linenos, s.language, s.style, s.highlighted, s.created_at`

// Create inserts a new snippet. The id is assigned by SQLite and written back
// into the struct, along with the creation timestamp. Created and OwnerID are
// set exactly once, here; no code path updates them afterwards.
func (db *DB) Create(ctx context.Context, snippet *model.Snippet) error {
	snippet.Created = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO snippets (owner_id, title, code, linenos, language, style, highlighted, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.OwnerID,
		snippet.Title,
		snippet.Code,
		snippet.Linenos,
		snippet.Language,
		snippet.Style,
		snippet.Highlighted,
		snippet.Created,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted snippet id: %w", err)
	}
	snippet.ID = id

	return nil
}

// GetByID retrieves a single snippet, or ErrNotFound.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.Snippet, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+snippetColumns+`
		 FROM snippets s JOIN users u ON u.id = s.owner_id
		 WHERE s.id = ?`,
		id,
	)

	snippet, err := scanSnippet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %d: %w", id, err)
	}

	return snippet, nil
}

// List returns all snippets ordered by creation time ascending. The id
// tiebreak keeps the order stable when two snippets share a timestamp.
func (db *DB) List(ctx context.Context) ([]model.Snippet, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+snippetColumns+`
		 FROM snippets s JOIN users u ON u.id = s.owner_id
		 ORDER BY s.created_at ASC, s.id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := []model.Snippet{}
	for rows.Next() {
		snippet, err := scanSnippet(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, *snippet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// Update rewrites the mutable fields of an existing snippet. id, owner_id and
// created_at are deliberately absent from the SET list — they are immutable.
func (db *DB) Update(ctx context.Context, snippet *model.Snippet) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE snippets
		 SET title = ?, code = ?, linenos = ?, language = ?, style = ?, highlighted = ?
		 WHERE id = ?`,
		snippet.Title,
		snippet.Code,
		snippet.Linenos,
		snippet.Language,
		snippet.Style,
		snippet.Highlighted,
		snippet.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %d: %w", snippet.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}

	return nil
}

// Delete removes a snippet. A second delete of the same id reports NotFound —
// RowsAffected distinguishes "deleted" from "was never there".
func (db *DB) Delete(ctx context.Context, id int64) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnippet(s scanner) (*model.Snippet, error) {
	var snippet model.Snippet
	err := s.Scan(
		&snippet.ID,
		&snippet.OwnerID,
		&snippet.Owner,
		&snippet.Title,
		&snippet.Code,
		&snippet.Linenos,
		&snippet.Language,
		&snippet.Style,
		&snippet.Highlighted,
		&snippet.Created,
	)
	if err != nil {
		return nil, err
	}
	return &snippet, nil
}
