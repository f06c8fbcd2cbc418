package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/writeitdown/internal/models"
	"github.com/magabrotheeeer/writeitdown/internal/storage"
)

const entryColumns = `id, account_id, title, content, favorite, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*models.Entry, error) {
	var e models.Entry
	if err := row.Scan(&e.ID, &e.AccountID, &e.Title, &e.Content,
		&e.Favorite, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEntry сохраняет новую запись.
func (s *Storage) CreateEntry(ctx context.Context, entry models.Entry) error {
	const op = "storage.CreateEntry"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO entries (` + entryColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := s.DB.ExecContext(ctx, query,
		entry.ID, entry.AccountID, entry.Title, entry.Content,
		entry.Favorite, entry.CreatedAt, entry.UpdatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

// ListEntries возвращает записи аккаунта, новые первыми.
func (s *Storage) ListEntries(ctx context.Context, accountID string) ([]models.Entry, error) {
	const op = "storage.ListEntries"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + entryColumns + `
			  FROM entries
			  WHERE account_id = $1
			  ORDER BY created_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateEntry меняет заголовок и текст записи аккаунта.
func (s *Storage) UpdateEntry(ctx context.Context, accountID, id, title, content string, updatedAt time.Time) (*models.Entry, error) {
	const op = "storage.UpdateEntry"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE entries
			  SET title = $1, content = $2, updated_at = $3
			  WHERE id = $4 AND account_id = $5
			  RETURNING ` + entryColumns
	e, err := scanEntry(s.DB.QueryRowContext(ctx, query, title, content, updatedAt, id, accountID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return e, nil
}

// ToggleFavorite инвертирует признак избранного одной командой UPDATE.
func (s *Storage) ToggleFavorite(ctx context.Context, accountID, id string, updatedAt time.Time) (*models.Entry, error) {
	const op = "storage.ToggleFavorite"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE entries
			  SET favorite = NOT favorite, updated_at = $1
			  WHERE id = $2 AND account_id = $3
			  RETURNING ` + entryColumns
	e, err := scanEntry(s.DB.QueryRowContext(ctx, query, updatedAt, id, accountID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return e, nil
}

// DeleteEntry удаляет запись аккаунта.
func (s *Storage) DeleteEntry(ctx context.Context, accountID, id string) error {
	const op = "storage.DeleteEntry"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM entries WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
