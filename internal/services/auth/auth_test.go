package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/writeitdown/internal/lib/errs"
	"github.com/magabrotheeeer/writeitdown/internal/lib/jwt"
	"github.com/magabrotheeeer/writeitdown/internal/lib/password"
	"github.com/magabrotheeeer/writeitdown/internal/models"
	services "github.com/magabrotheeeer/writeitdown/internal/services/auth"
	"github.com/magabrotheeeer/writeitdown/internal/storage"
)

// AccountRepoMock: мок хранилища аккаунтов.
type AccountRepoMock struct {
	mock.Mock
}

func (m *AccountRepoMock) CreateAccount(ctx context.Context, account models.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *AccountRepoMock) GetAccountByNickname(ctx context.Context, nickname string) (*models.Account, error) {
	args := m.Called(ctx, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

// PublisherMock: мок публикации событий.
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, message any) error {
	return m.Called(ctx, routingKey, message).Error(0)
}

// memoryRepo хранит аккаунты в памяти и соблюдает уникальность nickname.
type memoryRepo struct {
	byNickname map[string]models.Account
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byNickname: make(map[string]models.Account)}
}

func (r *memoryRepo) CreateAccount(_ context.Context, account models.Account) error {
	if _, ok := r.byNickname[account.Nickname]; ok {
		return storage.ErrAlreadyExists
	}
	r.byNickname[account.Nickname] = account
	return nil
}

func (r *memoryRepo) GetAccountByNickname(_ context.Context, nickname string) (*models.Account, error) {
	account, ok := r.byNickname[nickname]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &account, nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var testParams = password.Params{N: 1024, R: 8, P: 1, KeyLen: 64, SaltLen: 16}

func newMaker(t *testing.T) *jwt.MakerImpl {
	t.Helper()
	maker, err := jwt.NewJWTMaker("test_secret", jwt.TokenTTL)
	require.NoError(t, err)
	return maker
}

func TestAuthService_RegisterTwice(t *testing.T) {
	maker := newMaker(t)
	svc := services.NewAuthService(newMemoryRepo(), password.NewHasher(testParams), maker, noopPublisher{}, newNoopLogger())

	first, err := svc.Register(context.Background(), "alice", "wonderland")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.NotEmpty(t, first.Token)
	assert.Equal(t, "alice", first.Account.Nickname)
	assert.NotEmpty(t, first.Account.ID)

	second, err := svc.Register(context.Background(), "alice", "other")
	assert.ErrorIs(t, err, errs.ErrDuplicateAccount)
	assert.Nil(t, second)
}

func TestAuthService_LoginFlow(t *testing.T) {
	maker := newMaker(t)
	svc := services.NewAuthService(newMemoryRepo(), password.NewHasher(testParams), maker, noopPublisher{}, newNoopLogger())

	registered, err := svc.Register(context.Background(), "alice", "wonderland")
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	assert.Nil(t, session)

	session, err = svc.Login(context.Background(), "alice", "wonderland")
	require.NoError(t, err)
	assert.Equal(t, registered.Account, session.Account)

	subjectID, err := svc.ValidateToken(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.Account.ID, subjectID)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		nickname   string
		password   string
		setupMocks func(r *AccountRepoMock, p *PublisherMock)
		wantErr    error
		wantAnyErr bool
	}{
		{
			name:     "successful registration",
			nickname: "bob",
			password: "password123",
			setupMocks: func(r *AccountRepoMock, p *PublisherMock) {
				r.On("GetAccountByNickname", mock.Anything, "bob").Return(nil, storage.ErrNotFound).Once()
				r.On("CreateAccount", mock.Anything, mock.MatchedBy(func(a models.Account) bool {
					return a.Nickname == "bob" && a.ID != "" && a.PasswordRecord != "" && a.PasswordRecord != "password123"
				})).Return(nil).Once()
				p.On("Publish", mock.Anything, models.EventAccountRegistered, mock.AnythingOfType("models.AccountEvent")).Return(nil).Once()
			},
		},
		{
			name:       "missing nickname",
			nickname:   "",
			password:   "password123",
			setupMocks: func(_ *AccountRepoMock, _ *PublisherMock) {},
			wantErr:    errs.ErrMissingFields,
		},
		{
			name:       "missing password",
			nickname:   "bob",
			password:   "",
			setupMocks: func(_ *AccountRepoMock, _ *PublisherMock) {},
			wantErr:    errs.ErrMissingFields,
		},
		{
			name:     "nickname taken",
			nickname: "bob",
			password: "password123",
			setupMocks: func(r *AccountRepoMock, _ *PublisherMock) {
				r.On("GetAccountByNickname", mock.Anything, "bob").Return(&models.Account{ID: "1", Nickname: "bob"}, nil).Once()
			},
			wantErr: errs.ErrDuplicateAccount,
		},
		{
			name:     "unique constraint wins the race",
			nickname: "bob",
			password: "password123",
			setupMocks: func(r *AccountRepoMock, _ *PublisherMock) {
				r.On("GetAccountByNickname", mock.Anything, "bob").Return(nil, storage.ErrNotFound).Once()
				r.On("CreateAccount", mock.Anything, mock.Anything).Return(storage.ErrAlreadyExists).Once()
			},
			wantErr: errs.ErrDuplicateAccount,
		},
		{
			name:     "lookup error",
			nickname: "bob",
			password: "password123",
			setupMocks: func(r *AccountRepoMock, _ *PublisherMock) {
				r.On("GetAccountByNickname", mock.Anything, "bob").Return(nil, errors.New("db down")).Once()
			},
			wantAnyErr: true,
		},
		{
			name:     "publish error does not fail registration",
			nickname: "bob",
			password: "password123",
			setupMocks: func(r *AccountRepoMock, p *PublisherMock) {
				r.On("GetAccountByNickname", mock.Anything, "bob").Return(nil, storage.ErrNotFound).Once()
				r.On("CreateAccount", mock.Anything, mock.Anything).Return(nil).Once()
				p.On("Publish", mock.Anything, models.EventAccountRegistered, mock.Anything).Return(errors.New("broker down")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AccountRepoMock)
			pub := new(PublisherMock)
			maker := newMaker(t)
			svc := services.NewAuthService(repo, password.NewHasher(testParams), maker, pub, newNoopLogger())

			tt.setupMocks(repo, pub)

			session, err := svc.Register(context.Background(), tt.nickname, tt.password)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, session)
			case tt.wantAnyErr:
				assert.Error(t, err)
				assert.Nil(t, session)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.nickname, session.Account.Nickname)
				subjectID, err := svc.ValidateToken(context.Background(), session.Token)
				require.NoError(t, err)
				assert.Equal(t, session.Account.ID, subjectID)
			}

			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hasher := password.NewHasher(testParams)
	record, err := hasher.Hash("correctpassword")
	require.NoError(t, err)

	stored := &models.Account{ID: "acc-1", Nickname: "alice", PasswordRecord: record}

	tests := []struct {
		name       string
		nickname   string
		password   string
		setupMocks func(r *AccountRepoMock, p *PublisherMock)
		wantErr    error
		wantAnyErr bool
	}{
		{
			name:     "successful login",
			nickname: "alice",
			password: "correctpassword",
			setupMocks: func(r *AccountRepoMock, p *PublisherMock) {
				r.On("GetAccountByNickname", mock.Anything, "alice").Return(stored, nil).Once()
				p.On("Publish", mock.Anything, models.EventAccountLoggedIn, mock.AnythingOfType("models.AccountEvent")).Return(nil).Once()
			},
		},
		{
			name:       "missing password",
			nickname:   "alice",
			setupMocks: func(_ *AccountRepoMock, _ *PublisherMock) {},
			wantErr:    errs.ErrMissingFields,
		},
		{
			name:     "account not found",
			nickname: "nobody",
			password: "correctpassword",
			setupMocks: func(r *AccountRepoMock, _ *PublisherMock) {
				r.On("GetAccountByNickname", mock.Anything, "nobody").Return(nil, storage.ErrNotFound).Once()
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name:     "empty password record",
			nickname: "alice",
			password: "correctpassword",
			setupMocks: func(r *AccountRepoMock, _ *PublisherMock) {
				r.On("GetAccountByNickname", mock.Anything, "alice").
					Return(&models.Account{ID: "acc-1", Nickname: "alice"}, nil).Once()
			},
			wantErr: errs.ErrServerMisconfigured,
		},
		{
			name:     "wrong password",
			nickname: "alice",
			password: "wrongpassword",
			setupMocks: func(r *AccountRepoMock, _ *PublisherMock) {
				r.On("GetAccountByNickname", mock.Anything, "alice").Return(stored, nil).Once()
			},
			wantErr: errs.ErrInvalidCredentials,
		},
		{
			name:     "malformed password record",
			nickname: "alice",
			password: "correctpassword",
			setupMocks: func(r *AccountRepoMock, _ *PublisherMock) {
				r.On("GetAccountByNickname", mock.Anything, "alice").
					Return(&models.Account{ID: "acc-1", Nickname: "alice", PasswordRecord: "garbage"}, nil).Once()
			},
			wantErr: errs.ErrInvalidCredentials,
		},
		{
			name:     "repository error",
			nickname: "alice",
			password: "correctpassword",
			setupMocks: func(r *AccountRepoMock, _ *PublisherMock) {
				r.On("GetAccountByNickname", mock.Anything, "alice").Return(nil, errors.New("db error")).Once()
			},
			wantAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AccountRepoMock)
			pub := new(PublisherMock)
			svc := services.NewAuthService(repo, hasher, newMaker(t), pub, newNoopLogger())

			tt.setupMocks(repo, pub)

			session, err := svc.Login(context.Background(), tt.nickname, tt.password)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, session)
			case tt.wantAnyErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, errs.ErrNotFound)
				assert.Nil(t, session)
			default:
				require.NoError(t, err)
				assert.Equal(t, stored.Info(), session.Account)
				assert.NotEmpty(t, session.Token)
			}

			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	maker := newMaker(t)
	svc := services.NewAuthService(newMemoryRepo(), password.NewHasher(testParams), maker, noopPublisher{}, newNoopLogger())

	token, err := maker.GenerateToken("acc-42")
	require.NoError(t, err)

	subjectID, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "acc-42", subjectID)

	expiredMaker, err := jwt.NewJWTMaker("test_secret", -jwt.TokenTTL)
	require.NoError(t, err)
	expired, err := expiredMaker.GenerateToken("acc-42")
	require.NoError(t, err)

	for _, bad := range []string{"", "garbage", token + "x", expired} {
		subjectID, err := svc.ValidateToken(context.Background(), bad)
		assert.ErrorIs(t, err, errs.ErrInvalidToken)
		assert.Empty(t, subjectID)
	}
}
