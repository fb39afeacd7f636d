// Package service contains the application services. Each service owns its
// sentinel errors; handlers map them to HTTP statuses with errors.Is.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/nahashon-source/globalship-backend/internal/cache"
	"github.com/nahashon-source/globalship-backend/internal/domain"
	"github.com/nahashon-source/globalship-backend/internal/dto"
	"github.com/nahashon-source/globalship-backend/internal/password"
	"github.com/nahashon-source/globalship-backend/internal/repository"
	"github.com/nahashon-source/globalship-backend/internal/token"
	"github.com/nahashon-source/globalship-backend/pkg/logger"
	"github.com/nahashon-source/globalship-backend/pkg/telemetry"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so responses cannot reveal which accounts exist
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAccountNotFound    = errors.New("account not found")
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Register creates a new account and returns its public view
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error)
	// Login verifies credentials and issues a token pair
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, *domain.User, error)
	// Refresh exchanges a refresh token for a new token pair
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Resolve turns a bearer token into the caller's identity
	Resolve(ctx context.Context, accessToken string) (*domain.Identity, error)
}

type authService struct {
	userRepo  repository.UserRepository
	hasher    *password.Hasher
	codec     *token.Codec
	cache     *cache.Cache
	accessTTL time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	hasher *password.Hasher,
	codec *token.Codec,
	snapshots *cache.Cache,
	accessTTL time.Duration,
) AuthService {
	if accessTTL == 0 {
		accessTTL = 30 * time.Minute
	}
	return &authService{
		userRepo:  userRepo,
		hasher:    hasher,
		codec:     codec,
		cache:     snapshots,
		accessTTL: accessTTL,
	}
}

// Register creates a new account
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register")
	defer span.End()

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if exists {
		span.SetStatus(codes.Error, "email taken")
		return nil, ErrEmailTaken
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:             uuid.New().String(),
		Email:          req.Email,
		HashedPassword: hashed,
		CompanyName:    req.CompanyName,
		Phone:          req.Phone,
		FullName:       req.FullName,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return user, nil
}

// Login verifies credentials and issues a token pair
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, *domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(req.Password, user.HashedPassword) {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		span.SetStatus(codes.Error, "account inactive")
		return nil, nil, ErrAccountInactive
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// A failed timestamp write must not block the login
		logger.Get().Warn("failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLogin = &now
		s.cache.Delete(ctx, cache.Key("user", user.ID))
	}

	pair, err := s.issueTokenPair(user.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return pair, user, nil
}

// Refresh exchanges a refresh token for a new pair. The account is
// re-checked so a deactivated user cannot keep minting access tokens.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.refresh")
	defer span.End()

	claims, err := s.codec.Verify(refreshToken)
	if err != nil {
		span.SetStatus(codes.Error, "invalid refresh token")
		return nil, ErrInvalidToken
	}
	if claims.Kind != token.KindRefresh {
		span.SetStatus(codes.Error, "wrong token kind")
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.Subject())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "account not found")
		return nil, ErrAccountNotFound
	}
	if !user.IsActive {
		span.SetStatus(codes.Error, "account inactive")
		return nil, ErrAccountInactive
	}

	pair, err := s.issueTokenPair(user.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return pair, nil
}

// Resolve turns a bearer token into the caller's identity. The error kinds
// are distinct for logging; callers must present them all the same way.
func (s *authService) Resolve(ctx context.Context, accessToken string) (*domain.Identity, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.resolve")
	defer span.End()

	claims, err := s.codec.Verify(accessToken)
	if err != nil {
		span.SetStatus(codes.Error, "invalid token")
		return nil, ErrInvalidToken
	}
	// A refresh token is not a credential for resource access
	if claims.Kind != token.KindAccess {
		span.SetStatus(codes.Error, "wrong token kind")
		return nil, ErrInvalidToken
	}

	user, err := s.lookupUser(ctx, claims.Subject())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "account not found")
		return nil, ErrAccountNotFound
	}
	if !user.IsActive {
		span.SetStatus(codes.Error, "account inactive")
		return nil, ErrAccountInactive
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return &domain.Identity{
		UserID:    user.ID,
		Active:    user.IsActive,
		Verified:  user.IsVerified,
		Superuser: user.IsSuperuser,
	}, nil
}

// lookupUser reads through the snapshot cache
func (s *authService) lookupUser(ctx context.Context, id string) (*domain.User, error) {
	key := cache.Key("user", id)

	cached := &domain.User{}
	if s.cache.Get(ctx, key, cached) {
		return cached, nil
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil || user == nil {
		return user, err
	}
	s.cache.Set(ctx, key, user)
	return user, nil
}

func (s *authService) issueTokenPair(userID string) (*dto.TokenResponse, error) {
	access, err := s.codec.Issue(userID, token.KindAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.Issue(userID, token.KindRefresh)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}
