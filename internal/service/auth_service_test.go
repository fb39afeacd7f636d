package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nahashon-source/globalship-backend/internal/cache"
	"github.com/nahashon-source/globalship-backend/internal/domain"
	"github.com/nahashon-source/globalship-backend/internal/dto"
	"github.com/nahashon-source/globalship-backend/internal/password"
	"github.com/nahashon-source/globalship-backend/internal/repository"
	"github.com/nahashon-source/globalship-backend/internal/token"
	"github.com/nahashon-source/globalship-backend/pkg/redis"
)

// mockUserRepository is a mock implementation of repository.UserRepository
type mockUserRepository struct {
	users      map[string]*domain.User
	emailIndex map[string]*domain.User
	getByIDN   int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:      make(map[string]*domain.User),
		emailIndex: make(map[string]*domain.User),
	}
}

func (r *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.users[user.ID] = user
	r.emailIndex[user.Email] = user
	return nil
}

func (r *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.getByIDN++
	return r.users[id], nil
}

func (r *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.emailIndex[email], nil
}

func (r *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	r.users[user.ID] = user
	r.emailIndex[user.Email] = user
	return nil
}

func (r *mockUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if user := r.users[id]; user != nil {
		user.LastLogin = &at
	}
	return nil
}

func (r *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, exists := r.emailIndex[email]
	return exists, nil
}

func (r *mockUserRepository) List(ctx context.Context, page repository.Page) ([]*domain.User, int64, error) {
	users := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, int64(len(users)), nil
}

// memStore is an in-memory cache.Store
type memStore struct {
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (s *memStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *memStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, _ := value.([]byte)
	s.values[key] = string(raw)
	return nil
}

func (s *memStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func newTestAuthService(userRepo repository.UserRepository) (AuthService, *token.Codec) {
	codec := token.NewCodec("test-secret", 30*time.Minute, 7*24*time.Hour)
	hasher := password.NewHasher(bcrypt.MinCost)
	snapshots := cache.New(newMemStore(), 5*time.Minute)
	return NewAuthService(userRepo, hasher, codec, snapshots, 30*time.Minute), codec
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active account with a hashed password", func(t *testing.T) {
		userRepo := newMockUserRepository()
		svc, _ := newTestAuthService(userRepo)

		user, err := svc.Register(ctx, &dto.RegisterRequest{
			Email:    "ada@example.com",
			Password: "Password1!",
			FullName: "Ada Lovelace",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, user.ID)
		assert.True(t, user.IsActive)
		assert.False(t, user.IsSuperuser)
		assert.NotEqual(t, "Password1!", user.HashedPassword)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("Password1!")))
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		userRepo := newMockUserRepository()
		svc, _ := newTestAuthService(userRepo)

		_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "ada@example.com", Password: "Password1!"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "ada@example.com", Password: "Other2@pass"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	register := func(t *testing.T, svc AuthService) *domain.User {
		t.Helper()
		user, err := svc.Register(ctx, &dto.RegisterRequest{Email: "ada@example.com", Password: "Password1!"})
		require.NoError(t, err)
		return user
	}

	t.Run("issues a token pair and records the login", func(t *testing.T) {
		userRepo := newMockUserRepository()
		svc, codec := newTestAuthService(userRepo)
		registered := register(t, svc)

		tokens, user, err := svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "Password1!"})
		require.NoError(t, err)

		assert.Equal(t, registered.ID, user.ID)
		assert.Equal(t, "bearer", tokens.TokenType)
		assert.Equal(t, int64(1800), tokens.ExpiresIn)
		require.NotNil(t, userRepo.users[registered.ID].LastLogin)

		accessClaims, err := codec.Verify(tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, token.KindAccess, accessClaims.Kind)
		assert.Equal(t, registered.ID, accessClaims.Subject())

		refreshClaims, err := codec.Verify(tokens.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, token.KindRefresh, refreshClaims.Kind)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		userRepo := newMockUserRepository()
		svc, _ := newTestAuthService(userRepo)
		register(t, svc)

		_, _, errUnknown := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "Password1!"})
		_, _, errWrong := svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "WrongPass9#"})

		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("rejects an inactive account", func(t *testing.T) {
		userRepo := newMockUserRepository()
		svc, _ := newTestAuthService(userRepo)
		registered := register(t, svc)
		userRepo.users[registered.ID].IsActive = false

		_, _, err := svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "Password1!"})
		assert.ErrorIs(t, err, ErrAccountInactive)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("exchanges a refresh token for a new pair", func(t *testing.T) {
		userRepo := newMockUserRepository()
		svc, codec := newTestAuthService(userRepo)
		user, err := svc.Register(ctx, &dto.RegisterRequest{Email: "ada@example.com", Password: "Password1!"})
		require.NoError(t, err)

		refresh, err := codec.Issue(user.ID, token.KindRefresh)
		require.NoError(t, err)

		tokens, err := svc.Refresh(ctx, refresh)
		require.NoError(t, err)

		claims, err := codec.Verify(tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.Subject())
	})

	t.Run("rejects an access token presented as refresh", func(t *testing.T) {
		userRepo := newMockUserRepository()
		svc, codec := newTestAuthService(userRepo)
		user, err := svc.Register(ctx, &dto.RegisterRequest{Email: "ada@example.com", Password: "Password1!"})
		require.NoError(t, err)

		access, err := codec.Issue(user.ID, token.KindAccess)
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, access)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a refresh for a deactivated account", func(t *testing.T) {
		userRepo := newMockUserRepository()
		svc, codec := newTestAuthService(userRepo)
		user, err := svc.Register(ctx, &dto.RegisterRequest{Email: "ada@example.com", Password: "Password1!"})
		require.NoError(t, err)

		refresh, err := codec.Issue(user.ID, token.KindRefresh)
		require.NoError(t, err)
		userRepo.users[user.ID].IsActive = false

		_, err = svc.Refresh(ctx, refresh)
		assert.ErrorIs(t, err, ErrAccountInactive)
	})
}

func TestAuthService_Resolve(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*mockUserRepository, AuthService, *token.Codec, *domain.User) {
		t.Helper()
		userRepo := newMockUserRepository()
		svc, codec := newTestAuthService(userRepo)
		user, err := svc.Register(ctx, &dto.RegisterRequest{Email: "ada@example.com", Password: "Password1!"})
		require.NoError(t, err)
		return userRepo, svc, codec, user
	}

	t.Run("resolves a valid access token", func(t *testing.T) {
		_, svc, codec, user := setup(t)

		access, err := codec.Issue(user.ID, token.KindAccess)
		require.NoError(t, err)

		identity, err := svc.Resolve(ctx, access)
		require.NoError(t, err)
		assert.Equal(t, user.ID, identity.UserID)
		assert.True(t, identity.Active)
		assert.False(t, identity.Superuser)
	})

	t.Run("rejects a refresh token used for access", func(t *testing.T) {
		_, svc, codec, user := setup(t)

		refresh, err := codec.Issue(user.ID, token.KindRefresh)
		require.NoError(t, err)

		_, err = svc.Resolve(ctx, refresh)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects malformed and expired tokens alike", func(t *testing.T) {
		_, svc, _, user := setup(t)

		expired := token.NewCodec("test-secret", -time.Minute, -time.Minute)
		expiredToken, err := expired.Issue(user.ID, token.KindAccess)
		require.NoError(t, err)

		for _, tok := range []string{"garbage", expiredToken} {
			_, err := svc.Resolve(ctx, tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		}
	})

	t.Run("rejects a token for a deleted account", func(t *testing.T) {
		userRepo, svc, codec, user := setup(t)

		access, err := codec.Issue(user.ID, token.KindAccess)
		require.NoError(t, err)

		delete(userRepo.users, user.ID)
		_, err = svc.Resolve(ctx, access)
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("rejects a token for a deactivated account", func(t *testing.T) {
		userRepo, svc, codec, user := setup(t)

		access, err := codec.Issue(user.ID, token.KindAccess)
		require.NoError(t, err)

		userRepo.users[user.ID].IsActive = false
		_, err = svc.Resolve(ctx, access)
		assert.ErrorIs(t, err, ErrAccountInactive)
	})

	t.Run("serves repeat resolutions from the snapshot cache", func(t *testing.T) {
		userRepo, svc, codec, user := setup(t)

		access, err := codec.Issue(user.ID, token.KindAccess)
		require.NoError(t, err)

		_, err = svc.Resolve(ctx, access)
		require.NoError(t, err)
		loads := userRepo.getByIDN

		_, err = svc.Resolve(ctx, access)
		require.NoError(t, err)
		assert.Equal(t, loads, userRepo.getByIDN)
	})

	t.Run("error kinds stay distinct for logging", func(t *testing.T) {
		assert.False(t, errors.Is(ErrInvalidToken, ErrAccountNotFound))
		assert.False(t, errors.Is(ErrAccountNotFound, ErrAccountInactive))
	})
}
