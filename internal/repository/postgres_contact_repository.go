package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nahashon-source/globalship-backend/internal/domain"
)

// PostgresContactMessageRepository implements ContactMessageRepository using PostgreSQL
type PostgresContactMessageRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresContactMessageRepository creates a new PostgresContactMessageRepository
func NewPostgresContactMessageRepository(pool *pgxpool.Pool) *PostgresContactMessageRepository {
	return &PostgresContactMessageRepository{pool: pool}
}

const contactColumns = `
	id, name, email, phone, subject, message,
	status, admin_notes, created_at, read_at, responded_at
`

func scanContactMessage(row pgx.Row) (*domain.ContactMessage, error) {
	m := &domain.ContactMessage{}
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&m.Phone,
		&m.Subject,
		&m.Message,
		&m.Status,
		&m.AdminNotes,
		&m.CreatedAt,
		&m.ReadAt,
		&m.RespondedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// Create creates a new contact message
func (r *PostgresContactMessageRepository) Create(ctx context.Context, message *domain.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, name, email, phone, subject, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.Name,
		message.Email,
		message.Phone,
		message.Subject,
		message.Message,
		message.Status,
		message.CreatedAt,
	)
	return err
}

// GetByID retrieves a contact message by ID
func (r *PostgresContactMessageRepository) GetByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	query := `SELECT ` + contactColumns + ` FROM contact_messages WHERE id = $1`
	return scanContactMessage(r.pool.QueryRow(ctx, query, id))
}

// Update updates a message's triage state
func (r *PostgresContactMessageRepository) Update(ctx context.Context, message *domain.ContactMessage) error {
	query := `
		UPDATE contact_messages
		SET status = $2, admin_notes = $3, read_at = $4, responded_at = $5
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.Status,
		message.AdminNotes,
		message.ReadAt,
		message.RespondedAt,
	)
	return err
}

// List retrieves messages, optionally filtered by status, newest first
func (r *PostgresContactMessageRepository) List(ctx context.Context, status domain.MessageStatus, page Page) ([]*domain.ContactMessage, int64, error) {
	where := ""
	args := []interface{}{}
	if status != "" {
		where = " WHERE status = $1"
		args = append(args, status)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contact_messages`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT %s FROM contact_messages%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		contactColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, page.Size, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	messages := make([]*domain.ContactMessage, 0, page.Size)
	for rows.Next() {
		message, err := scanContactMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		messages = append(messages, message)
	}
	return messages, total, rows.Err()
}
