// Package repository contains the PostgreSQL persistence layer. Lookups
// return (nil, nil) when no row matches; errors are reserved for
// infrastructure failures.
package repository

import (
	"context"
	"time"

	"github.com/nahashon-source/globalship-backend/internal/domain"
)

// Page holds offset pagination parameters
type Page struct {
	Number int
	Size   int
}

// Offset returns the row offset for the page
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// ShipmentFilter narrows shipment listings
type ShipmentFilter struct {
	UserID      string
	Status      domain.ShipmentStatus
	ServiceType domain.ServiceType
}

// QuoteFilter narrows quote listings
type QuoteFilter struct {
	UserID string
	Status domain.QuoteStatus
}

// ShipmentStats are the per-user dashboard aggregates
type ShipmentStats struct {
	Total     int64            `json:"total_shipments"`
	Active    int64            `json:"active_shipments"`
	Delivered int64            `json:"delivered_shipments"`
	ByStatus  map[string]int64 `json:"by_status"`
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, page Page) ([]*domain.User, int64, error)
}

// ShipmentRepository defines the interface for shipment persistence
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *domain.Shipment) error
	GetByID(ctx context.Context, id string) (*domain.Shipment, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error)
	Update(ctx context.Context, shipment *domain.Shipment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ShipmentFilter, page Page) ([]*domain.Shipment, int64, error)
	StatsByUser(ctx context.Context, userID string) (*ShipmentStats, error)
}

// ShipmentEventRepository defines the interface for shipment timeline persistence
type ShipmentEventRepository interface {
	Create(ctx context.Context, event *domain.ShipmentEvent) error
	ListByShipment(ctx context.Context, shipmentID string) ([]*domain.ShipmentEvent, error)
}

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	Create(ctx context.Context, quote *domain.Quote) error
	GetByID(ctx context.Context, id string) (*domain.Quote, error)
	Update(ctx context.Context, quote *domain.Quote) error
	List(ctx context.Context, filter QuoteFilter, page Page) ([]*domain.Quote, int64, error)
	CountPendingByUser(ctx context.Context, userID string) (int64, error)
}

// ContactMessageRepository defines the interface for contact message persistence
type ContactMessageRepository interface {
	Create(ctx context.Context, message *domain.ContactMessage) error
	GetByID(ctx context.Context, id string) (*domain.ContactMessage, error)
	Update(ctx context.Context, message *domain.ContactMessage) error
	List(ctx context.Context, status domain.MessageStatus, page Page) ([]*domain.ContactMessage, int64, error)
}
