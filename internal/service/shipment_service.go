package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/nahashon-source/globalship-backend/internal/cache"
	"github.com/nahashon-source/globalship-backend/internal/domain"
	"github.com/nahashon-source/globalship-backend/internal/dto"
	"github.com/nahashon-source/globalship-backend/internal/repository"
	"github.com/nahashon-source/globalship-backend/pkg/telemetry"
)

var (
	ErrShipmentNotFound = errors.New("shipment not found")
	ErrInvalidDate      = errors.New("invalid date format, expected RFC 3339")
)

const trackingAttempts = 5

// ShipmentService defines the interface for shipment operations
type ShipmentService interface {
	// Create registers a new shipment with a fresh tracking number
	Create(ctx context.Context, userID string, req *dto.CreateShipmentRequest) (*domain.Shipment, error)
	// GetByID retrieves a shipment, read-through cached
	GetByID(ctx context.Context, id string) (*domain.Shipment, error)
	// GetByTrackingNumber retrieves a shipment for public tracking
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error)
	// List retrieves shipments matching the filter
	List(ctx context.Context, filter repository.ShipmentFilter, page repository.Page) ([]*domain.Shipment, int64, error)
	// Update applies a partial update
	Update(ctx context.Context, id string, req *dto.UpdateShipmentRequest) (*domain.Shipment, error)
	// UpdateStatus transitions a shipment's status and records a timeline event
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateShipmentStatusRequest) (*domain.Shipment, error)
	// Delete removes a shipment
	Delete(ctx context.Context, id string) error
	// StatsByUser aggregates a user's shipments for the dashboard
	StatsByUser(ctx context.Context, userID string) (*repository.ShipmentStats, error)
}

type shipmentService struct {
	shipmentRepo repository.ShipmentRepository
	eventRepo    repository.ShipmentEventRepository
	cache        *cache.Cache
}

// NewShipmentService creates a new ShipmentService
func NewShipmentService(
	shipmentRepo repository.ShipmentRepository,
	eventRepo repository.ShipmentEventRepository,
	snapshots *cache.Cache,
) ShipmentService {
	return &shipmentService{
		shipmentRepo: shipmentRepo,
		eventRepo:    eventRepo,
		cache:        snapshots,
	}
}

// newTrackingNumber returns "GS" plus 12 uppercase hex characters
func newTrackingNumber() (string, error) {
	raw := make([]byte, 6)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return "GS" + strings.ToUpper(hex.EncodeToString(raw)), nil
}

// Create registers a new shipment. Tracking numbers are random, so a
// collision is retried with a fresh number instead of failing the request.
func (s *shipmentService) Create(ctx context.Context, userID string, req *dto.CreateShipmentRequest) (*domain.Shipment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.shipment.create")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	estimatedDelivery, err := parseOptionalDate(req.EstimatedDelivery)
	if err != nil {
		span.SetStatus(codes.Error, "invalid estimated_delivery")
		return nil, ErrInvalidDate
	}

	packageCount := req.PackageCount
	if packageCount == 0 {
		packageCount = 1
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	now := time.Now()
	shipment := &domain.Shipment{
		ID:     uuid.New().String(),
		UserID: userID,

		OriginCity:            req.OriginCity,
		OriginCountry:         req.OriginCountry,
		OriginAddress:         req.OriginAddress,
		OriginPostalCode:      req.OriginPostalCode,
		DestinationCity:       req.DestinationCity,
		DestinationCountry:    req.DestinationCountry,
		DestinationAddress:    req.DestinationAddress,
		DestinationPostalCode: req.DestinationPostalCode,

		ServiceType: req.ServiceType,
		Status:      domain.StatusPending,

		Weight:       req.Weight,
		Dimensions:   req.Dimensions,
		PackageCount: packageCount,

		EstimatedCost: req.EstimatedCost,
		Currency:      currency,

		CreatedAt:         now,
		UpdatedAt:         now,
		EstimatedDelivery: estimatedDelivery,

		SpecialInstructions: req.SpecialInstructions,
		Insurance:           req.Insurance,
		SignatureRequired:   req.SignatureRequired,
	}

	var createErr error
	for attempt := 0; attempt < trackingAttempts; attempt++ {
		trackingNumber, err := newTrackingNumber()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		existing, err := s.shipmentRepo.GetByTrackingNumber(ctx, trackingNumber)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if existing != nil {
			continue
		}

		shipment.TrackingNumber = trackingNumber
		if createErr = s.shipmentRepo.Create(ctx, shipment); createErr == nil {
			break
		}
	}
	if shipment.TrackingNumber == "" || createErr != nil {
		if createErr == nil {
			createErr = fmt.Errorf("could not allocate tracking number after %d attempts", trackingAttempts)
		}
		span.RecordError(createErr)
		span.SetStatus(codes.Error, createErr.Error())
		return nil, createErr
	}

	if err := s.eventRepo.Create(ctx, &domain.ShipmentEvent{
		ID:          uuid.New().String(),
		ShipmentID:  shipment.ID,
		EventType:   "created",
		Description: "Shipment created",
		Timestamp:   now,
		CreatedAt:   now,
	}); err != nil {
		span.RecordError(err)
	}

	span.SetAttributes(attribute.String("tracking_number", shipment.TrackingNumber))
	span.SetStatus(codes.Ok, "")
	return shipment, nil
}

// GetByID retrieves a shipment, read-through cached
func (s *shipmentService) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.shipment.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("shipment_id", id))

	key := cache.Key("shipment", id)
	cached := &domain.Shipment{}
	if s.cache.Get(ctx, key, cached) {
		span.SetStatus(codes.Ok, "")
		return cached, nil
	}

	shipment, err := s.shipmentRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if shipment == nil {
		span.SetStatus(codes.Error, "shipment not found")
		return nil, ErrShipmentNotFound
	}

	s.cache.Set(ctx, key, shipment)
	span.SetStatus(codes.Ok, "")
	return shipment, nil
}

// GetByTrackingNumber retrieves a shipment for public tracking
func (s *shipmentService) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.shipment.get_by_tracking_number")
	defer span.End()

	span.SetAttributes(attribute.String("tracking_number", trackingNumber))

	shipment, err := s.shipmentRepo.GetByTrackingNumber(ctx, strings.ToUpper(strings.TrimSpace(trackingNumber)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if shipment == nil {
		span.SetStatus(codes.Error, "shipment not found")
		return nil, ErrShipmentNotFound
	}

	span.SetStatus(codes.Ok, "")
	return shipment, nil
}

// List retrieves shipments matching the filter
func (s *shipmentService) List(ctx context.Context, filter repository.ShipmentFilter, page repository.Page) ([]*domain.Shipment, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.shipment.list")
	defer span.End()

	shipments, total, err := s.shipmentRepo.List(ctx, filter, page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetStatus(codes.Ok, "")
	return shipments, total, nil
}

// Update applies a partial update and invalidates the snapshot
func (s *shipmentService) Update(ctx context.Context, id string, req *dto.UpdateShipmentRequest) (*domain.Shipment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.shipment.update")
	defer span.End()

	span.SetAttributes(attribute.String("shipment_id", id))

	shipment, err := s.shipmentRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if shipment == nil {
		span.SetStatus(codes.Error, "shipment not found")
		return nil, ErrShipmentNotFound
	}

	if err := applyShipmentUpdate(shipment, req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.shipmentRepo.Update(ctx, shipment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.cache.Delete(ctx, cache.Key("shipment", id))
	span.SetStatus(codes.Ok, "")
	return shipment, nil
}

// UpdateStatus transitions a shipment's status and appends a timeline event
func (s *shipmentService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateShipmentStatusRequest) (*domain.Shipment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.shipment.update_status")
	defer span.End()

	span.SetAttributes(
		attribute.String("shipment_id", id),
		attribute.String("status", string(req.Status)),
	)

	shipment, err := s.shipmentRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if shipment == nil {
		span.SetStatus(codes.Error, "shipment not found")
		return nil, ErrShipmentNotFound
	}

	now := time.Now()
	shipment.Status = req.Status
	if req.Status == domain.StatusDelivered && shipment.ActualDelivery == nil {
		shipment.ActualDelivery = &now
	}

	if err := s.shipmentRepo.Update(ctx, shipment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Status changed to %s", req.Status)
	}
	if err := s.eventRepo.Create(ctx, &domain.ShipmentEvent{
		ID:          uuid.New().String(),
		ShipmentID:  shipment.ID,
		EventType:   string(req.Status),
		Location:    req.Location,
		Description: description,
		Timestamp:   now,
		CreatedAt:   now,
	}); err != nil {
		span.RecordError(err)
	}

	s.cache.Delete(ctx, cache.Key("shipment", id))
	span.SetStatus(codes.Ok, "")
	return shipment, nil
}

// Delete removes a shipment and its snapshot
func (s *shipmentService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.shipment.delete")
	defer span.End()

	span.SetAttributes(attribute.String("shipment_id", id))

	if err := s.shipmentRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.cache.Delete(ctx, cache.Key("shipment", id))
	span.SetStatus(codes.Ok, "")
	return nil
}

// StatsByUser aggregates a user's shipments for the dashboard
func (s *shipmentService) StatsByUser(ctx context.Context, userID string) (*repository.ShipmentStats, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.shipment.stats_by_user")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	stats, err := s.shipmentRepo.StatsByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return stats, nil
}

func applyShipmentUpdate(shipment *domain.Shipment, req *dto.UpdateShipmentRequest) error {
	if req.Status != nil {
		shipment.Status = *req.Status
	}
	if req.Weight != nil {
		shipment.Weight = req.Weight
	}
	if req.Dimensions != nil {
		shipment.Dimensions = req.Dimensions
	}
	if req.PackageCount != nil {
		shipment.PackageCount = *req.PackageCount
	}
	if req.EstimatedCost != nil {
		shipment.EstimatedCost = req.EstimatedCost
	}
	if req.ActualCost != nil {
		shipment.ActualCost = req.ActualCost
	}
	if req.Currency != nil {
		shipment.Currency = *req.Currency
	}
	if req.EstimatedDelivery != nil {
		at, err := parseOptionalDate(req.EstimatedDelivery)
		if err != nil {
			return ErrInvalidDate
		}
		shipment.EstimatedDelivery = at
	}
	if req.ActualDelivery != nil {
		at, err := parseOptionalDate(req.ActualDelivery)
		if err != nil {
			return ErrInvalidDate
		}
		shipment.ActualDelivery = at
	}
	if req.SpecialInstructions != nil {
		shipment.SpecialInstructions = *req.SpecialInstructions
	}
	if req.Insurance != nil {
		shipment.Insurance = *req.Insurance
	}
	if req.SignatureRequired != nil {
		shipment.SignatureRequired = *req.SignatureRequired
	}
	return nil
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	at, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, err
	}
	return &at, nil
}
