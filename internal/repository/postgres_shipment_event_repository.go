package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nahashon-source/globalship-backend/internal/domain"
)

// PostgresShipmentEventRepository implements ShipmentEventRepository using PostgreSQL
type PostgresShipmentEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresShipmentEventRepository creates a new PostgresShipmentEventRepository
func NewPostgresShipmentEventRepository(pool *pgxpool.Pool) *PostgresShipmentEventRepository {
	return &PostgresShipmentEventRepository{pool: pool}
}

// Create appends an event to a shipment's timeline
func (r *PostgresShipmentEventRepository) Create(ctx context.Context, event *domain.ShipmentEvent) error {
	query := `
		INSERT INTO shipment_events (id, shipment_id, event_type, location, description, timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.ShipmentID,
		event.EventType,
		event.Location,
		event.Description,
		event.Timestamp,
		event.CreatedAt,
	)
	return err
}

// ListByShipment retrieves a shipment's timeline, newest first
func (r *PostgresShipmentEventRepository) ListByShipment(ctx context.Context, shipmentID string) ([]*domain.ShipmentEvent, error) {
	query := `
		SELECT id, shipment_id, event_type, location, description, timestamp, created_at
		FROM shipment_events
		WHERE shipment_id = $1
		ORDER BY timestamp DESC
	`
	rows, err := r.pool.Query(ctx, query, shipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*domain.ShipmentEvent{}
	for rows.Next() {
		event := &domain.ShipmentEvent{}
		err := rows.Scan(
			&event.ID,
			&event.ShipmentID,
			&event.EventType,
			&event.Location,
			&event.Description,
			&event.Timestamp,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
