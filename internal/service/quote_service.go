package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/nahashon-source/globalship-backend/internal/domain"
	"github.com/nahashon-source/globalship-backend/internal/dto"
	"github.com/nahashon-source/globalship-backend/internal/repository"
	"github.com/nahashon-source/globalship-backend/pkg/telemetry"
)

var ErrQuoteNotFound = errors.New("quote not found")

// QuoteService defines the interface for quote operations
type QuoteService interface {
	// Create registers a new quote request
	Create(ctx context.Context, userID string, req *dto.CreateQuoteRequest) (*domain.Quote, error)
	// GetByID retrieves a quote
	GetByID(ctx context.Context, id string) (*domain.Quote, error)
	// List retrieves quotes matching the filter
	List(ctx context.Context, filter repository.QuoteFilter, page repository.Page) ([]*domain.Quote, int64, error)
	// Update applies a review update
	Update(ctx context.Context, id string, req *dto.UpdateQuoteRequest) (*domain.Quote, error)
	// CountPendingByUser counts a user's quotes awaiting review
	CountPendingByUser(ctx context.Context, userID string) (int64, error)
}

type quoteService struct {
	quoteRepo repository.QuoteRepository
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(quoteRepo repository.QuoteRepository) QuoteService {
	return &quoteService{quoteRepo: quoteRepo}
}

// Create registers a new quote request
func (s *quoteService) Create(ctx context.Context, userID string, req *dto.CreateQuoteRequest) (*domain.Quote, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.quote.create")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	packageCount := req.PackageCount
	if packageCount == 0 {
		packageCount = 1
	}

	now := time.Now()
	quote := &domain.Quote{
		ID:     uuid.New().String(),
		UserID: userID,

		Origin:      req.Origin,
		Destination: req.Destination,
		ServiceType: string(req.ServiceType),

		Weight:       req.Weight,
		Dimensions:   req.Dimensions,
		PackageCount: packageCount,

		Currency: "USD",
		Status:   domain.QuotePending,

		SpecialRequirements: req.SpecialRequirements,

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("quote_id", quote.ID))
	span.SetStatus(codes.Ok, "")
	return quote, nil
}

// GetByID retrieves a quote
func (s *quoteService) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.quote.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("quote_id", id))

	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if quote == nil {
		span.SetStatus(codes.Error, "quote not found")
		return nil, ErrQuoteNotFound
	}

	span.SetStatus(codes.Ok, "")
	return quote, nil
}

// List retrieves quotes matching the filter
func (s *quoteService) List(ctx context.Context, filter repository.QuoteFilter, page repository.Page) ([]*domain.Quote, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.quote.list")
	defer span.End()

	quotes, total, err := s.quoteRepo.List(ctx, filter, page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetStatus(codes.Ok, "")
	return quotes, total, nil
}

// Update applies a review update
func (s *quoteService) Update(ctx context.Context, id string, req *dto.UpdateQuoteRequest) (*domain.Quote, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.quote.update")
	defer span.End()

	span.SetAttributes(attribute.String("quote_id", id))

	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if quote == nil {
		span.SetStatus(codes.Error, "quote not found")
		return nil, ErrQuoteNotFound
	}

	if req.Status != nil {
		quote.Status = *req.Status
	}
	if req.EstimatedCost != nil {
		quote.EstimatedCost = req.EstimatedCost
	}
	if req.Currency != nil {
		quote.Currency = *req.Currency
	}
	if req.Notes != nil {
		quote.Notes = *req.Notes
	}
	if req.ExpiresAt != nil {
		at, err := parseOptionalDate(req.ExpiresAt)
		if err != nil {
			span.SetStatus(codes.Error, "invalid expires_at")
			return nil, ErrInvalidDate
		}
		quote.ExpiresAt = at
	}

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return quote, nil
}

// CountPendingByUser counts a user's quotes awaiting review
func (s *quoteService) CountPendingByUser(ctx context.Context, userID string) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.quote.count_pending")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	count, err := s.quoteRepo.CountPendingByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetStatus(codes.Ok, "")
	return count, nil
}
