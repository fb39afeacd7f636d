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

// PostgresQuoteRepository implements QuoteRepository using PostgreSQL
type PostgresQuoteRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresQuoteRepository creates a new PostgresQuoteRepository
func NewPostgresQuoteRepository(pool *pgxpool.Pool) *PostgresQuoteRepository {
	return &PostgresQuoteRepository{pool: pool}
}

const quoteColumns = `
	id, user_id, origin, destination, service_type,
	weight, dimensions, package_count, estimated_cost, currency,
	status, special_requirements, notes, created_at, updated_at, expires_at
`

func scanQuote(row pgx.Row) (*domain.Quote, error) {
	q := &domain.Quote{}
	err := row.Scan(
		&q.ID,
		&q.UserID,
		&q.Origin,
		&q.Destination,
		&q.ServiceType,
		&q.Weight,
		&q.Dimensions,
		&q.PackageCount,
		&q.EstimatedCost,
		&q.Currency,
		&q.Status,
		&q.SpecialRequirements,
		&q.Notes,
		&q.CreatedAt,
		&q.UpdatedAt,
		&q.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return q, nil
}

// Create creates a new quote request
func (r *PostgresQuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	query := `
		INSERT INTO quotes (id, user_id, origin, destination, service_type,
			weight, dimensions, package_count, estimated_cost, currency,
			status, special_requirements, notes, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.pool.Exec(ctx, query,
		quote.ID,
		quote.UserID,
		quote.Origin,
		quote.Destination,
		quote.ServiceType,
		quote.Weight,
		quote.Dimensions,
		quote.PackageCount,
		quote.EstimatedCost,
		quote.Currency,
		quote.Status,
		quote.SpecialRequirements,
		quote.Notes,
		quote.CreatedAt,
		quote.UpdatedAt,
		quote.ExpiresAt,
	)
	return err
}

// GetByID retrieves a quote by ID
func (r *PostgresQuoteRepository) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`
	return scanQuote(r.pool.QueryRow(ctx, query, id))
}

// Update updates a quote
func (r *PostgresQuoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	query := `
		UPDATE quotes
		SET status = $2, estimated_cost = $3, currency = $4, notes = $5,
			expires_at = $6, updated_at = $7
		WHERE id = $1
	`
	quote.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, query,
		quote.ID,
		quote.Status,
		quote.EstimatedCost,
		quote.Currency,
		quote.Notes,
		quote.ExpiresAt,
		quote.UpdatedAt,
	)
	return err
}

// List retrieves quotes matching the filter, newest first
func (r *PostgresQuoteRepository) List(ctx context.Context, filter QuoteFilter, page Page) ([]*domain.Quote, int64, error) {
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

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quotes`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT %s FROM quotes%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		quoteColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, page.Size, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	quotes := make([]*domain.Quote, 0, page.Size)
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, 0, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, total, rows.Err()
}

// CountPendingByUser counts a user's quotes still awaiting review
func (r *PostgresQuoteRepository) CountPendingByUser(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COUNT(*) FROM quotes WHERE user_id = $1 AND status = $2`
	var count int64
	err := r.pool.QueryRow(ctx, query, userID, domain.QuotePending).Scan(&count)
	return count, err
}
