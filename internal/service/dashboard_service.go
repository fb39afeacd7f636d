package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/nahashon-source/globalship-backend/internal/domain"
	"github.com/nahashon-source/globalship-backend/internal/repository"
	"github.com/nahashon-source/globalship-backend/pkg/telemetry"
)

// UserDashboard is the per-user dashboard payload
type UserDashboard struct {
	TotalShipments     int64              `json:"total_shipments"`
	ActiveShipments    int64              `json:"active_shipments"`
	DeliveredShipments int64              `json:"delivered_shipments"`
	PendingQuotes      int64              `json:"pending_quotes"`
	RecentShipments    []*domain.Shipment `json:"recent_shipments"`
}

// SystemStats is the admin dashboard payload
type SystemStats struct {
	TotalUsers        int64            `json:"total_users"`
	TotalShipments    int64            `json:"total_shipments"`
	ShipmentsByStatus map[string]int64 `json:"shipments_by_status"`
	PendingQuotes     int64            `json:"pending_quotes"`
	NewMessages       int64            `json:"new_messages"`
}

// DashboardService assembles dashboard aggregates from the other repositories
type DashboardService interface {
	// UserStats builds the dashboard for one user
	UserStats(ctx context.Context, userID string) (*UserDashboard, error)
	// SystemStats builds the admin overview
	SystemStats(ctx context.Context) (*SystemStats, error)
}

type dashboardService struct {
	userRepo     repository.UserRepository
	shipmentRepo repository.ShipmentRepository
	quoteRepo    repository.QuoteRepository
	messageRepo  repository.ContactMessageRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	userRepo repository.UserRepository,
	shipmentRepo repository.ShipmentRepository,
	quoteRepo repository.QuoteRepository,
	messageRepo repository.ContactMessageRepository,
) DashboardService {
	return &dashboardService{
		userRepo:     userRepo,
		shipmentRepo: shipmentRepo,
		quoteRepo:    quoteRepo,
		messageRepo:  messageRepo,
	}
}

const recentShipmentCount = 5

// UserStats builds the dashboard for one user
func (s *dashboardService) UserStats(ctx context.Context, userID string) (*UserDashboard, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.dashboard.user_stats")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	stats, err := s.shipmentRepo.StatsByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	pendingQuotes, err := s.quoteRepo.CountPendingByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	recent, _, err := s.shipmentRepo.List(ctx,
		repository.ShipmentFilter{UserID: userID},
		repository.Page{Number: 1, Size: recentShipmentCount},
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &UserDashboard{
		TotalShipments:     stats.Total,
		ActiveShipments:    stats.Active,
		DeliveredShipments: stats.Delivered,
		PendingQuotes:      pendingQuotes,
		RecentShipments:    recent,
	}, nil
}

// SystemStats builds the admin overview
func (s *dashboardService) SystemStats(ctx context.Context) (*SystemStats, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.dashboard.system_stats")
	defer span.End()

	_, totalUsers, err := s.userRepo.List(ctx, repository.Page{Number: 1, Size: 1})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	byStatus := make(map[string]int64)
	var totalShipments int64
	statuses := append(append([]domain.ShipmentStatus{}, domain.ActiveStatuses...),
		domain.StatusDelivered, domain.StatusCancelled, domain.StatusOnHold)
	for _, status := range statuses {
		_, count, err := s.shipmentRepo.List(ctx,
			repository.ShipmentFilter{Status: status},
			repository.Page{Number: 1, Size: 1},
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if count > 0 {
			byStatus[string(status)] = count
		}
		totalShipments += count
	}

	_, pendingQuotes, err := s.quoteRepo.List(ctx,
		repository.QuoteFilter{Status: domain.QuotePending},
		repository.Page{Number: 1, Size: 1},
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	_, newMessages, err := s.messageRepo.List(ctx, domain.MessageNew, repository.Page{Number: 1, Size: 1})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &SystemStats{
		TotalUsers:        totalUsers,
		TotalShipments:    totalShipments,
		ShipmentsByStatus: byStatus,
		PendingQuotes:     pendingQuotes,
		NewMessages:       newMessages,
	}, nil
}
