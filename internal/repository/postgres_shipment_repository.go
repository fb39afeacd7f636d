package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nahashon-source/globalship-backend/internal/domain"
)

// PostgresShipmentRepository implements ShipmentRepository using PostgreSQL
type PostgresShipmentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresShipmentRepository creates a new PostgresShipmentRepository
func NewPostgresShipmentRepository(pool *pgxpool.Pool) *PostgresShipmentRepository {
	return &PostgresShipmentRepository{pool: pool}
}

const shipmentColumns = `
	id, tracking_number, user_id,
	origin_city, origin_country, origin_address, origin_postal_code,
	destination_city, destination_country, destination_address, destination_postal_code,
	service_type, status, weight, dimensions, package_count,
	estimated_cost, actual_cost, currency,
	created_at, updated_at, estimated_delivery, actual_delivery,
	special_instructions, insurance, signature_required
`

func scanShipment(row pgx.Row) (*domain.Shipment, error) {
	s := &domain.Shipment{}
	err := row.Scan(
		&s.ID,
		&s.TrackingNumber,
		&s.UserID,
		&s.OriginCity,
		&s.OriginCountry,
		&s.OriginAddress,
		&s.OriginPostalCode,
		&s.DestinationCity,
		&s.DestinationCountry,
		&s.DestinationAddress,
		&s.DestinationPostalCode,
		&s.ServiceType,
		&s.Status,
		&s.Weight,
		&s.Dimensions,
		&s.PackageCount,
		&s.EstimatedCost,
		&s.ActualCost,
		&s.Currency,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.EstimatedDelivery,
		&s.ActualDelivery,
		&s.SpecialInstructions,
		&s.Insurance,
		&s.SignatureRequired,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// Create creates a new shipment
func (r *PostgresShipmentRepository) Create(ctx context.Context, shipment *domain.Shipment) error {
	query := `
		INSERT INTO shipments (id, tracking_number, user_id,
			origin_city, origin_country, origin_address, origin_postal_code,
			destination_city, destination_country, destination_address, destination_postal_code,
			service_type, status, weight, dimensions, package_count,
			estimated_cost, currency, created_at, updated_at, estimated_delivery,
			special_instructions, insurance, signature_required)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`
	_, err := r.pool.Exec(ctx, query,
		shipment.ID,
		shipment.TrackingNumber,
		shipment.UserID,
		shipment.OriginCity,
		shipment.OriginCountry,
		shipment.OriginAddress,
		shipment.OriginPostalCode,
		shipment.DestinationCity,
		shipment.DestinationCountry,
		shipment.DestinationAddress,
		shipment.DestinationPostalCode,
		shipment.ServiceType,
		shipment.Status,
		shipment.Weight,
		shipment.Dimensions,
		shipment.PackageCount,
		shipment.EstimatedCost,
		shipment.Currency,
		shipment.CreatedAt,
		shipment.UpdatedAt,
		shipment.EstimatedDelivery,
		shipment.SpecialInstructions,
		shipment.Insurance,
		shipment.SignatureRequired,
	)
	return err
}

// GetByID retrieves a shipment by ID
func (r *PostgresShipmentRepository) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE id = $1`
	return scanShipment(r.pool.QueryRow(ctx, query, id))
}

// GetByTrackingNumber retrieves a shipment by its public tracking number
func (r *PostgresShipmentRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE tracking_number = $1`
	return scanShipment(r.pool.QueryRow(ctx, query, trackingNumber))
}

// Update updates a shipment
func (r *PostgresShipmentRepository) Update(ctx context.Context, shipment *domain.Shipment) error {
	query := `
		UPDATE shipments
		SET status = $2, weight = $3, dimensions = $4, package_count = $5,
			estimated_cost = $6, actual_cost = $7, currency = $8,
			estimated_delivery = $9, actual_delivery = $10,
			special_instructions = $11, insurance = $12, signature_required = $13,
			updated_at = $14
		WHERE id = $1
	`
	shipment.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, query,
		shipment.ID,
		shipment.Status,
		shipment.Weight,
		shipment.Dimensions,
		shipment.PackageCount,
		shipment.EstimatedCost,
		shipment.ActualCost,
		shipment.Currency,
		shipment.EstimatedDelivery,
		shipment.ActualDelivery,
		shipment.SpecialInstructions,
		shipment.Insurance,
		shipment.SignatureRequired,
		shipment.UpdatedAt,
	)
	return err
}

// Delete deletes a shipment and, via cascade, its timeline events
func (r *PostgresShipmentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM shipments WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// List retrieves shipments matching the filter, newest first
func (r *PostgresShipmentRepository) List(ctx context.Context, filter ShipmentFilter, page Page) ([]*domain.Shipment, int64, error) {
	where := ""
	args := []interface{}{}
	addClause := func(column string, value interface{}) {
		args = append(args, value)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf("%s = $%d", column, len(args))
	}

	if filter.UserID != "" {
		addClause("user_id", filter.UserID)
	}
	if filter.Status != "" {
		addClause("status", filter.Status)
	}
	if filter.ServiceType != "" {
		addClause("service_type", filter.ServiceType)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM shipments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT %s FROM shipments%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		shipmentColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, page.Size, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	shipments := make([]*domain.Shipment, 0, page.Size)
	for rows.Next() {
		shipment, err := scanShipment(rows)
		if err != nil {
			return nil, 0, err
		}
		shipments = append(shipments, shipment)
	}
	return shipments, total, rows.Err()
}

// StatsByUser aggregates a user's shipments by status for the dashboard
func (r *PostgresShipmentRepository) StatsByUser(ctx context.Context, userID string) (*ShipmentStats, error) {
	query := `
		SELECT status, COUNT(*)
		FROM shipments
		WHERE user_id = $1
		GROUP BY status
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &ShipmentStats{ByStatus: make(map[string]int64)}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, status := range domain.ActiveStatuses {
		stats.Active += stats.ByStatus[string(status)]
	}
	stats.Delivered = stats.ByStatus[string(domain.StatusDelivered)]
	return stats, nil
}
