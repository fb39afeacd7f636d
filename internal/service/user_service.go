package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/nahashon-source/globalship-backend/internal/cache"
	"github.com/nahashon-source/globalship-backend/internal/domain"
	"github.com/nahashon-source/globalship-backend/internal/dto"
	"github.com/nahashon-source/globalship-backend/internal/repository"
	"github.com/nahashon-source/globalship-backend/pkg/telemetry"
)

// UserService defines the interface for user profile operations
type UserService interface {
	// GetByID retrieves a user, read-through cached
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateProfile applies a partial profile update
	UpdateProfile(ctx context.Context, id string, req *dto.UpdateProfileRequest) (*domain.User, error)
	// List retrieves users for administration
	List(ctx context.Context, page repository.Page) ([]*domain.User, int64, error)
}

type userService struct {
	userRepo repository.UserRepository
	cache    *cache.Cache
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, snapshots *cache.Cache) UserService {
	return &userService{userRepo: userRepo, cache: snapshots}
}

// GetByID retrieves a user, read-through cached
func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", id))

	key := cache.Key("user", id)
	cached := &domain.User{}
	if s.cache.Get(ctx, key, cached) {
		span.SetStatus(codes.Ok, "")
		return cached, nil
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "account not found")
		return nil, ErrAccountNotFound
	}

	s.cache.Set(ctx, key, user)
	span.SetStatus(codes.Ok, "")
	return user, nil
}

// UpdateProfile applies a partial profile update and invalidates the snapshot
func (s *userService) UpdateProfile(ctx context.Context, id string, req *dto.UpdateProfileRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.update_profile")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", id))

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "account not found")
		return nil, ErrAccountNotFound
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.CompanyName != nil {
		user.CompanyName = *req.CompanyName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.cache.Delete(ctx, cache.Key("user", id))
	span.SetStatus(codes.Ok, "")
	return user, nil
}

// List retrieves users for administration
func (s *userService) List(ctx context.Context, page repository.Page) ([]*domain.User, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.list")
	defer span.End()

	users, total, err := s.userRepo.List(ctx, page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetStatus(codes.Ok, "")
	return users, total, nil
}
