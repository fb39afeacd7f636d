package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahashon-source/globalship-backend/internal/domain"
	"github.com/nahashon-source/globalship-backend/internal/dto"
	"github.com/nahashon-source/globalship-backend/internal/repository"
)

// mockContactRepository is a mock implementation of repository.ContactMessageRepository
type mockContactRepository struct {
	messages map[string]*domain.ContactMessage
}

func newMockContactRepository() *mockContactRepository {
	return &mockContactRepository{messages: make(map[string]*domain.ContactMessage)}
}

func (r *mockContactRepository) Create(ctx context.Context, message *domain.ContactMessage) error {
	r.messages[message.ID] = message
	return nil
}

func (r *mockContactRepository) GetByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	return r.messages[id], nil
}

func (r *mockContactRepository) Update(ctx context.Context, message *domain.ContactMessage) error {
	r.messages[message.ID] = message
	return nil
}

func (r *mockContactRepository) List(ctx context.Context, status domain.MessageStatus, page repository.Page) ([]*domain.ContactMessage, int64, error) {
	matches := []*domain.ContactMessage{}
	for _, message := range r.messages {
		if status != "" && message.Status != status {
			continue
		}
		matches = append(matches, message)
	}
	return matches, int64(len(matches)), nil
}

func TestContactService(t *testing.T) {
	ctx := context.Background()

	t.Run("new messages start untriaged", func(t *testing.T) {
		svc := NewContactService(newMockContactRepository())

		message, err := svc.Create(ctx, &dto.CreateContactMessageRequest{
			Name:    "Ada Lovelace",
			Email:   "ada@example.com",
			Subject: "Freight inquiry",
			Message: "What are your rates to Rotterdam?",
		})
		require.NoError(t, err)

		assert.Equal(t, domain.MessageNew, message.Status)
		assert.Nil(t, message.ReadAt)
	})

	t.Run("marking read stamps read_at once", func(t *testing.T) {
		repo := newMockContactRepository()
		svc := NewContactService(repo)

		message, err := svc.Create(ctx, &dto.CreateContactMessageRequest{
			Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello",
		})
		require.NoError(t, err)

		status := domain.MessageRead
		updated, err := svc.Update(ctx, message.ID, &dto.UpdateContactMessageRequest{Status: &status})
		require.NoError(t, err)
		require.NotNil(t, updated.ReadAt)
		firstRead := *updated.ReadAt

		updated, err = svc.Update(ctx, message.ID, &dto.UpdateContactMessageRequest{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, firstRead, *updated.ReadAt)
	})

	t.Run("update reports a missing message", func(t *testing.T) {
		svc := NewContactService(newMockContactRepository())

		status := domain.MessageArchived
		_, err := svc.Update(ctx, "absent", &dto.UpdateContactMessageRequest{Status: &status})
		assert.ErrorIs(t, err, ErrMessageNotFound)
	})
}
