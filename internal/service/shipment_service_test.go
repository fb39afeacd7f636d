package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahashon-source/globalship-backend/internal/cache"
	"github.com/nahashon-source/globalship-backend/internal/domain"
	"github.com/nahashon-source/globalship-backend/internal/dto"
	"github.com/nahashon-source/globalship-backend/internal/repository"
)

// mockShipmentRepository is a mock implementation of repository.ShipmentRepository
type mockShipmentRepository struct {
	shipments     map[string]*domain.Shipment
	trackingIndex map[string]*domain.Shipment
	// collideNext makes the next N tracking lookups report a collision
	collideNext int
}

func newMockShipmentRepository() *mockShipmentRepository {
	return &mockShipmentRepository{
		shipments:     make(map[string]*domain.Shipment),
		trackingIndex: make(map[string]*domain.Shipment),
	}
}

func (r *mockShipmentRepository) Create(ctx context.Context, shipment *domain.Shipment) error {
	r.shipments[shipment.ID] = shipment
	r.trackingIndex[shipment.TrackingNumber] = shipment
	return nil
}

func (r *mockShipmentRepository) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	return r.shipments[id], nil
}

func (r *mockShipmentRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	if r.collideNext > 0 {
		r.collideNext--
		return &domain.Shipment{ID: "taken", TrackingNumber: trackingNumber}, nil
	}
	return r.trackingIndex[trackingNumber], nil
}

func (r *mockShipmentRepository) Update(ctx context.Context, shipment *domain.Shipment) error {
	r.shipments[shipment.ID] = shipment
	return nil
}

func (r *mockShipmentRepository) Delete(ctx context.Context, id string) error {
	if shipment := r.shipments[id]; shipment != nil {
		delete(r.trackingIndex, shipment.TrackingNumber)
		delete(r.shipments, id)
	}
	return nil
}

func (r *mockShipmentRepository) List(ctx context.Context, filter repository.ShipmentFilter, page repository.Page) ([]*domain.Shipment, int64, error) {
	matches := []*domain.Shipment{}
	for _, shipment := range r.shipments {
		if filter.UserID != "" && shipment.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && shipment.Status != filter.Status {
			continue
		}
		matches = append(matches, shipment)
	}
	return matches, int64(len(matches)), nil
}

func (r *mockShipmentRepository) StatsByUser(ctx context.Context, userID string) (*repository.ShipmentStats, error) {
	stats := &repository.ShipmentStats{ByStatus: make(map[string]int64)}
	for _, shipment := range r.shipments {
		if shipment.UserID != userID {
			continue
		}
		stats.Total++
		stats.ByStatus[string(shipment.Status)]++
		if shipment.Status == domain.StatusDelivered {
			stats.Delivered++
		}
	}
	return stats, nil
}

// mockEventRepository is a mock implementation of repository.ShipmentEventRepository
type mockEventRepository struct {
	events []*domain.ShipmentEvent
}

func (r *mockEventRepository) Create(ctx context.Context, event *domain.ShipmentEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *mockEventRepository) ListByShipment(ctx context.Context, shipmentID string) ([]*domain.ShipmentEvent, error) {
	matches := []*domain.ShipmentEvent{}
	for _, event := range r.events {
		if event.ShipmentID == shipmentID {
			matches = append(matches, event)
		}
	}
	return matches, nil
}

var trackingNumberPattern = regexp.MustCompile(`^GS[0-9A-F]{12}$`)

func TestShipmentService_Create(t *testing.T) {
	ctx := context.Background()
	req := &dto.CreateShipmentRequest{
		OriginCity:         "Nairobi",
		OriginCountry:      "Kenya",
		DestinationCity:    "Rotterdam",
		DestinationCountry: "Netherlands",
		ServiceType:        domain.ServiceSea,
	}

	t.Run("assigns a well-formed tracking number and defaults", func(t *testing.T) {
		shipmentRepo := newMockShipmentRepository()
		eventRepo := &mockEventRepository{}
		svc := NewShipmentService(shipmentRepo, eventRepo, cache.New(newMemStore(), 0))

		shipment, err := svc.Create(ctx, "u1", req)
		require.NoError(t, err)

		assert.Regexp(t, trackingNumberPattern, shipment.TrackingNumber)
		assert.Equal(t, "u1", shipment.UserID)
		assert.Equal(t, domain.StatusPending, shipment.Status)
		assert.Equal(t, 1, shipment.PackageCount)
		assert.Equal(t, "USD", shipment.Currency)
	})

	t.Run("records a creation event", func(t *testing.T) {
		shipmentRepo := newMockShipmentRepository()
		eventRepo := &mockEventRepository{}
		svc := NewShipmentService(shipmentRepo, eventRepo, cache.New(newMemStore(), 0))

		shipment, err := svc.Create(ctx, "u1", req)
		require.NoError(t, err)

		require.Len(t, eventRepo.events, 1)
		assert.Equal(t, shipment.ID, eventRepo.events[0].ShipmentID)
		assert.Equal(t, "created", eventRepo.events[0].EventType)
	})

	t.Run("retries tracking number collisions", func(t *testing.T) {
		shipmentRepo := newMockShipmentRepository()
		shipmentRepo.collideNext = 2
		eventRepo := &mockEventRepository{}
		svc := NewShipmentService(shipmentRepo, eventRepo, cache.New(newMemStore(), 0))

		shipment, err := svc.Create(ctx, "u1", req)
		require.NoError(t, err)
		assert.Regexp(t, trackingNumberPattern, shipment.TrackingNumber)
	})

	t.Run("gives up after exhausting collision retries", func(t *testing.T) {
		shipmentRepo := newMockShipmentRepository()
		shipmentRepo.collideNext = 100
		eventRepo := &mockEventRepository{}
		svc := NewShipmentService(shipmentRepo, eventRepo, cache.New(newMemStore(), 0))

		_, err := svc.Create(ctx, "u1", req)
		assert.Error(t, err)
	})

	t.Run("rejects a malformed estimated delivery", func(t *testing.T) {
		shipmentRepo := newMockShipmentRepository()
		eventRepo := &mockEventRepository{}
		svc := NewShipmentService(shipmentRepo, eventRepo, cache.New(newMemStore(), 0))

		bad := *req
		when := "next tuesday"
		bad.EstimatedDelivery = &when
		_, err := svc.Create(ctx, "u1", &bad)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestShipmentService_Caching(t *testing.T) {
	ctx := context.Background()

	t.Run("GetByID reads through the snapshot cache", func(t *testing.T) {
		store := newMemStore()
		shipmentRepo := newMockShipmentRepository()
		svc := NewShipmentService(shipmentRepo, &mockEventRepository{}, cache.New(store, 0))

		shipment, err := svc.Create(ctx, "u1", &dto.CreateShipmentRequest{
			OriginCity: "Nairobi", OriginCountry: "Kenya",
			DestinationCity: "Mombasa", DestinationCountry: "Kenya",
			ServiceType: domain.ServiceRoad,
		})
		require.NoError(t, err)

		got, err := svc.GetByID(ctx, shipment.ID)
		require.NoError(t, err)
		assert.Contains(t, store.values, "shipment:"+shipment.ID)

		// Serve from cache even if the row disappears underneath
		delete(shipmentRepo.shipments, shipment.ID)
		cached, err := svc.GetByID(ctx, shipment.ID)
		require.NoError(t, err)
		assert.Equal(t, got.TrackingNumber, cached.TrackingNumber)
	})

	t.Run("mutations invalidate the snapshot", func(t *testing.T) {
		store := newMemStore()
		shipmentRepo := newMockShipmentRepository()
		svc := NewShipmentService(shipmentRepo, &mockEventRepository{}, cache.New(store, 0))

		shipment, err := svc.Create(ctx, "u1", &dto.CreateShipmentRequest{
			OriginCity: "Nairobi", OriginCountry: "Kenya",
			DestinationCity: "Mombasa", DestinationCountry: "Kenya",
			ServiceType: domain.ServiceRoad,
		})
		require.NoError(t, err)

		_, err = svc.GetByID(ctx, shipment.ID)
		require.NoError(t, err)
		require.Contains(t, store.values, "shipment:"+shipment.ID)

		status := domain.StatusInTransit
		_, err = svc.Update(ctx, shipment.ID, &dto.UpdateShipmentRequest{Status: &status})
		require.NoError(t, err)
		assert.NotContains(t, store.values, "shipment:"+shipment.ID)
	})
}

func TestShipmentService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := newMockShipmentRepository()
	eventRepo := &mockEventRepository{}
	svc := NewShipmentService(shipmentRepo, eventRepo, cache.New(newMemStore(), 0))

	shipment, err := svc.Create(ctx, "u1", &dto.CreateShipmentRequest{
		OriginCity: "Nairobi", OriginCountry: "Kenya",
		DestinationCity: "Mombasa", DestinationCountry: "Kenya",
		ServiceType: domain.ServiceRoad,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, shipment.ID, &dto.UpdateShipmentStatusRequest{
		Status:   domain.StatusDelivered,
		Location: "Mombasa Port",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusDelivered, updated.Status)
	require.NotNil(t, updated.ActualDelivery)

	// creation event + delivery event
	require.Len(t, eventRepo.events, 2)
	last := eventRepo.events[1]
	assert.Equal(t, string(domain.StatusDelivered), last.EventType)
	assert.Equal(t, "Mombasa Port", last.Location)
}
