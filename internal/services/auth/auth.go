// Package services содержит бизнес-логику регистрации, входа и проверки токенов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/writeitdown/internal/lib/errs"
	"github.com/magabrotheeeer/writeitdown/internal/lib/jwt"
	"github.com/magabrotheeeer/writeitdown/internal/lib/sl"
	"github.com/magabrotheeeer/writeitdown/internal/metrics"
	"github.com/magabrotheeeer/writeitdown/internal/models"
	"github.com/magabrotheeeer/writeitdown/internal/storage"
)

// AccountRepository описывает контракт хранилища аккаунтов.
type AccountRepository interface {
	// CreateAccount сохраняет аккаунт; при занятом nickname возвращает storage.ErrAlreadyExists.
	CreateAccount(ctx context.Context, account models.Account) error
	// GetAccountByNickname возвращает аккаунт или storage.ErrNotFound.
	GetAccountByNickname(ctx context.Context, nickname string) (*models.Account, error)
}

// PasswordHasher хеширует и проверяет пароли.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(record, attempt string) bool
}

// Publisher публикует события аккаунтов.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// AuthService отвечает за регистрацию, вход и валидацию JWT.
type AuthService struct {
	accounts  AccountRepository
	hasher    PasswordHasher
	jwtMaker  jwt.Maker
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(accounts AccountRepository, hasher PasswordHasher, jwtMaker jwt.Maker, publisher Publisher, log *slog.Logger) *AuthService {
	return &AuthService{
		accounts:  accounts,
		hasher:    hasher,
		jwtMaker:  jwtMaker,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Register создаёт аккаунт и сразу выдаёт токен.
//
// Поиск по nickname только быстрый путь, дубликат в итоге ловит
// ограничение уникальности в хранилище.
func (s *AuthService) Register(ctx context.Context, nickname, rawPassword string) (session *models.Session, err error) {
	const op = "services.auth.Register"
	defer func() { observe("register", err) }()

	if nickname == "" || rawPassword == "" {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrMissingFields)
	}

	_, err = s.accounts.GetAccountByNickname(ctx, nickname)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%s: %w", op, errs.ErrDuplicateAccount)
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	record, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	account := models.Account{
		ID:             uuid.NewString(),
		Nickname:       nickname,
		PasswordRecord: record,
		CreatedAt:      s.now().UTC(),
	}
	if err = s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrDuplicateAccount)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	session, err = s.issueSession(account)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.publish(ctx, models.EventAccountRegistered, account)
	return session, nil
}

// Login проверяет пароль и выдаёт токен.
func (s *AuthService) Login(ctx context.Context, nickname, rawPassword string) (session *models.Session, err error) {
	const op = "services.auth.Login"
	defer func() { observe("login", err) }()

	if nickname == "" || rawPassword == "" {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrMissingFields)
	}

	account, err := s.accounts.GetAccountByNickname(ctx, nickname)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if account.PasswordRecord == "" {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrServerMisconfigured)
	}
	if !s.hasher.Verify(account.PasswordRecord, rawPassword) {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrInvalidCredentials)
	}

	session, err = s.issueSession(*account)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.publish(ctx, models.EventAccountLoggedIn, *account)
	return session, nil
}

// ValidateToken проверяет JWT и возвращает id аккаунта.
func (s *AuthService) ValidateToken(_ context.Context, token string) (string, error) {
	const op = "services.auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidToken) {
			return "", err
		}
		return "", fmt.Errorf("%s: %w: %v", op, errs.ErrInvalidToken, err)
	}
	return claims.SubjectID(), nil
}

func (s *AuthService) issueSession(account models.Account) (*models.Session, error) {
	token, err := s.jwtMaker.GenerateToken(account.ID)
	if err != nil {
		return nil, err
	}
	return &models.Session{
		Token:   token,
		Account: account.Info(),
	}, nil
}

// publish не влияет на результат запроса: ошибка брокера только логируется.
func (s *AuthService) publish(ctx context.Context, eventType string, account models.Account) {
	event := models.AccountEvent{
		Type:       eventType,
		AccountID:  account.ID,
		Nickname:   account.Nickname,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		s.log.Warn("failed to publish account event",
			slog.String("event", eventType), sl.Err(err))
	}
}

func observe(operation string, err error) {
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case errors.Is(err, errs.ErrMissingFields),
		errors.Is(err, errs.ErrDuplicateAccount),
		errors.Is(err, errs.ErrNotFound),
		errors.Is(err, errs.ErrInvalidCredentials):
		result = metrics.ResultRejected
	default:
		result = metrics.ResultError
	}
	metrics.AuthAttemptsTotal.WithLabelValues(operation, result).Inc()
}
