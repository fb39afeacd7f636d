package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/nahashon-source/globalship-backend/internal/domain"
	"github.com/nahashon-source/globalship-backend/internal/dto"
	"github.com/nahashon-source/globalship-backend/internal/repository"
	"github.com/nahashon-source/globalship-backend/pkg/telemetry"
)

// ShipmentEventService defines the interface for shipment timeline operations
type ShipmentEventService interface {
	// Append records a new timeline event on a shipment
	Append(ctx context.Context, req *dto.CreateShipmentEventRequest) (*domain.ShipmentEvent, *domain.Shipment, error)
	// TimelineByShipment retrieves a shipment's events, newest first
	TimelineByShipment(ctx context.Context, shipmentID string) ([]*domain.ShipmentEvent, *domain.Shipment, error)
	// TimelineByTrackingNumber retrieves events for public tracking
	TimelineByTrackingNumber(ctx context.Context, trackingNumber string) ([]*domain.ShipmentEvent, *domain.Shipment, error)
}

type shipmentEventService struct {
	eventRepo       repository.ShipmentEventRepository
	shipmentService ShipmentService
}

// NewShipmentEventService creates a new ShipmentEventService
func NewShipmentEventService(eventRepo repository.ShipmentEventRepository, shipments ShipmentService) ShipmentEventService {
	return &shipmentEventService{eventRepo: eventRepo, shipmentService: shipments}
}

// Append records a new timeline event. The shipment is returned alongside
// the event so handlers can enforce ownership without a second lookup.
func (s *shipmentEventService) Append(ctx context.Context, req *dto.CreateShipmentEventRequest) (*domain.ShipmentEvent, *domain.Shipment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.shipment_event.append")
	defer span.End()

	span.SetAttributes(attribute.String("shipment_id", req.ShipmentID))

	shipment, err := s.shipmentService.GetByID(ctx, req.ShipmentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	now := time.Now()
	event := &domain.ShipmentEvent{
		ID:          uuid.New().String(),
		ShipmentID:  shipment.ID,
		EventType:   req.EventType,
		Location:    req.Location,
		Description: req.Description,
		Timestamp:   now,
		CreatedAt:   now,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	span.SetStatus(codes.Ok, "")
	return event, shipment, nil
}

// TimelineByShipment retrieves a shipment's events, newest first
func (s *shipmentEventService) TimelineByShipment(ctx context.Context, shipmentID string) ([]*domain.ShipmentEvent, *domain.Shipment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.shipment_event.timeline")
	defer span.End()

	span.SetAttributes(attribute.String("shipment_id", shipmentID))

	shipment, err := s.shipmentService.GetByID(ctx, shipmentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	events, err := s.eventRepo.ListByShipment(ctx, shipment.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	span.SetStatus(codes.Ok, "")
	return events, shipment, nil
}

// TimelineByTrackingNumber retrieves events for public tracking
func (s *shipmentEventService) TimelineByTrackingNumber(ctx context.Context, trackingNumber string) ([]*domain.ShipmentEvent, *domain.Shipment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.shipment_event.timeline_by_tracking_number")
	defer span.End()

	span.SetAttributes(attribute.String("tracking_number", trackingNumber))

	shipment, err := s.shipmentService.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	events, err := s.eventRepo.ListByShipment(ctx, shipment.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	span.SetStatus(codes.Ok, "")
	return events, shipment, nil
}
