package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/writeitdown/internal/models"
)

// CreateAccount сохраняет новый аккаунт.
// Занятый nickname возвращается как storage.ErrAlreadyExists.
func (s *Storage) CreateAccount(ctx context.Context, account models.Account) error {
	const op = "storage.CreateAccount"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO accounts (id, nickname, password_record, created_at)
			  VALUES ($1, $2, $3, $4)`
	if _, err := s.DB.ExecContext(ctx, query,
		account.ID, account.Nickname, account.PasswordRecord, account.CreatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

// GetAccountByNickname возвращает аккаунт по nickname.
func (s *Storage) GetAccountByNickname(ctx context.Context, nickname string) (*models.Account, error) {
	const op = "storage.GetAccountByNickname"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, nickname, password_record, created_at
			  FROM accounts
			  WHERE nickname = $1`
	a := &models.Account{}
	if err := s.DB.QueryRowContext(ctx, query, nickname).Scan(
		&a.ID, &a.Nickname, &a.PasswordRecord, &a.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return a, nil
}
