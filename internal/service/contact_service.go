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

var ErrMessageNotFound = errors.New("message not found")

// ContactService defines the interface for contact message operations
type ContactService interface {
	// Create stores a contact form submission
	Create(ctx context.Context, req *dto.CreateContactMessageRequest) (*domain.ContactMessage, error)
	// List retrieves messages for triage
	List(ctx context.Context, status domain.MessageStatus, page repository.Page) ([]*domain.ContactMessage, int64, error)
	// Update applies a triage update
	Update(ctx context.Context, id string, req *dto.UpdateContactMessageRequest) (*domain.ContactMessage, error)
}

type contactService struct {
	messageRepo repository.ContactMessageRepository
}

// NewContactService creates a new ContactService
func NewContactService(messageRepo repository.ContactMessageRepository) ContactService {
	return &contactService{messageRepo: messageRepo}
}

// Create stores a contact form submission
func (s *contactService) Create(ctx context.Context, req *dto.CreateContactMessageRequest) (*domain.ContactMessage, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.create")
	defer span.End()

	message := &domain.ContactMessage{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		Status:    domain.MessageNew,
		CreatedAt: time.Now(),
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("message_id", message.ID))
	span.SetStatus(codes.Ok, "")
	return message, nil
}

// List retrieves messages for triage
func (s *contactService) List(ctx context.Context, status domain.MessageStatus, page repository.Page) ([]*domain.ContactMessage, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.list")
	defer span.End()

	messages, total, err := s.messageRepo.List(ctx, status, page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetStatus(codes.Ok, "")
	return messages, total, nil
}

// Update applies a triage update. Transitions to read and responded stamp
// the corresponding timestamps on first occurrence.
func (s *contactService) Update(ctx context.Context, id string, req *dto.UpdateContactMessageRequest) (*domain.ContactMessage, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.contact.update")
	defer span.End()

	span.SetAttributes(attribute.String("message_id", id))

	message, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if message == nil {
		span.SetStatus(codes.Error, "message not found")
		return nil, ErrMessageNotFound
	}

	if req.Status != nil {
		now := time.Now()
		message.Status = *req.Status
		if *req.Status == domain.MessageRead && message.ReadAt == nil {
			message.ReadAt = &now
		}
		if *req.Status == domain.MessageResponded && message.RespondedAt == nil {
			message.RespondedAt = &now
		}
	}
	if req.AdminNotes != nil {
		message.AdminNotes = *req.AdminNotes
	}

	if err := s.messageRepo.Update(ctx, message); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return message, nil
}
