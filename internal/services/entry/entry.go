// Package services содержит бизнес-логику записей дневника и их кеширование.
package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/magabrotheeeer/writeitdown/internal/lib/errs"
	"github.com/magabrotheeeer/writeitdown/internal/lib/sl"
	"github.com/magabrotheeeer/writeitdown/internal/models"
	"github.com/magabrotheeeer/writeitdown/internal/storage"
)

// listTTL: время жизни закешированного списка записей аккаунта.
const listTTL = time.Hour

// EntryRepository определяет методы для работы с записями в хранилище.
// Все методы ограничены записями указанного аккаунта.
type EntryRepository interface {
	// CreateEntry сохраняет новую запись.
	CreateEntry(ctx context.Context, entry models.Entry) error
	// ListEntries возвращает записи аккаунта, новые первыми.
	ListEntries(ctx context.Context, accountID string) ([]models.Entry, error)
	// UpdateEntry меняет заголовок и текст; storage.ErrNotFound если записи нет.
	UpdateEntry(ctx context.Context, accountID, id, title, content string, updatedAt time.Time) (*models.Entry, error)
	// ToggleFavorite инвертирует флаг избранного; storage.ErrNotFound если записи нет.
	ToggleFavorite(ctx context.Context, accountID, id string, updatedAt time.Time) (*models.Entry, error)
	// DeleteEntry удаляет запись; storage.ErrNotFound если записи нет.
	DeleteEntry(ctx context.Context, accountID, id string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни; 0 означает без срока.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// EntryService реализует бизнес-логику записей, включая кеширование списка.
type EntryService struct {
	repo  EntryRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// NewEntryService создает новый экземпляр EntryService.
func NewEntryService(repo EntryRepository, cache Cache, log *slog.Logger) *EntryService {
	return &EntryService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Список кешируется под ключом текущего поколения аккаунта. Мутация
// записывает новое поколение, поэтому List, прочитавший базу до мутации,
// кладёт результат под устаревший ключ, который больше никто не читает.
func generationKey(accountID string) string {
	return "entries:gen:" + accountID
}

func listKey(accountID, generation string) string {
	return "entries:" + accountID + ":" + generation
}

// generation возвращает текущее поколение списка; "0", если его ещё нет.
func (s *EntryService) generation(ctx context.Context, accountID string) string {
	key := generationKey(accountID)
	var gen string
	found, err := s.cache.Get(ctx, key, &gen)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if !found || gen == "" {
		return "0"
	}
	return gen
}

// List возвращает записи аккаунта, используя кеш или репозиторий.
func (s *EntryService) List(ctx context.Context, accountID string) ([]models.Entry, error) {
	const op = "services.entry.List"

	key := listKey(accountID, s.generation(ctx, accountID))
	var cached []models.Entry
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	entries, err := s.repo.ListEntries(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if entries == nil {
		entries = []models.Entry{}
	}

	if err := s.cache.Set(ctx, key, entries, listTTL); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}
	return entries, nil
}

// Create создаёт запись для аккаунта.
func (s *EntryService) Create(ctx context.Context, accountID string, in models.EntryInput) (*models.Entry, error) {
	const op = "services.entry.Create"

	if in.Title == "" || in.Content == "" {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrMissingFields)
	}

	now := s.now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entry := models.Entry{
		ID:        id.String(),
		AccountID: accountID,
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new entry", slog.String("id", entry.ID))

	s.invalidate(ctx, accountID)
	return &entry, nil
}

// Update меняет заголовок и текст записи.
func (s *EntryService) Update(ctx context.Context, accountID, id string, in models.EntryInput) (*models.Entry, error) {
	const op = "services.entry.Update"

	if in.Title == "" || in.Content == "" {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrMissingFields)
	}

	entry, err := s.repo.UpdateEntry(ctx, accountID, id, in.Title, in.Content, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapNotFound(err))
	}

	s.invalidate(ctx, accountID)
	return entry, nil
}

// ToggleFavorite инвертирует признак избранного.
func (s *EntryService) ToggleFavorite(ctx context.Context, accountID, id string) (*models.Entry, error) {
	const op = "services.entry.ToggleFavorite"

	entry, err := s.repo.ToggleFavorite(ctx, accountID, id, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapNotFound(err))
	}

	s.invalidate(ctx, accountID)
	return entry, nil
}

// Delete удаляет запись аккаунта.
func (s *EntryService) Delete(ctx context.Context, accountID, id string) error {
	const op = "services.entry.Delete"

	if err := s.repo.DeleteEntry(ctx, accountID, id); err != nil {
		return fmt.Errorf("%s: %w", op, mapNotFound(err))
	}

	s.invalidate(ctx, accountID)
	return nil
}

// invalidate переводит аккаунт на новое поколение и удаляет список старого.
func (s *EntryService) invalidate(ctx context.Context, accountID string) {
	old := listKey(accountID, s.generation(ctx, accountID))

	genKey := generationKey(accountID)
	if err := s.cache.Set(ctx, genKey, ulid.Make().String(), 0); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", genKey), sl.Err(err))
	}
	if err := s.cache.Invalidate(ctx, old); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", old), sl.Err(err))
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return errs.ErrEntryNotFound
	}
	return err
}
