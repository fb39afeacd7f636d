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

// mockQuoteRepository is a mock implementation of repository.QuoteRepository
type mockQuoteRepository struct {
	quotes map[string]*domain.Quote
}

func newMockQuoteRepository() *mockQuoteRepository {
	return &mockQuoteRepository{quotes: make(map[string]*domain.Quote)}
}

func (r *mockQuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	r.quotes[quote.ID] = quote
	return nil
}

func (r *mockQuoteRepository) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	return r.quotes[id], nil
}

func (r *mockQuoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	r.quotes[quote.ID] = quote
	return nil
}

func (r *mockQuoteRepository) List(ctx context.Context, filter repository.QuoteFilter, page repository.Page) ([]*domain.Quote, int64, error) {
	matches := []*domain.Quote{}
	for _, quote := range r.quotes {
		if filter.UserID != "" && quote.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && quote.Status != filter.Status {
			continue
		}
		matches = append(matches, quote)
	}
	return matches, int64(len(matches)), nil
}

func (r *mockQuoteRepository) CountPendingByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, quote := range r.quotes {
		if quote.UserID == userID && quote.Status == domain.QuotePending {
			count++
		}
	}
	return count, nil
}

func TestQuoteService(t *testing.T) {
	ctx := context.Background()

	t.Run("new quotes start pending", func(t *testing.T) {
		repo := newMockQuoteRepository()
		svc := NewQuoteService(repo)

		quote, err := svc.Create(ctx, "u1", &dto.CreateQuoteRequest{
			Origin:      "Nairobi, Kenya",
			Destination: "Rotterdam, Netherlands",
			ServiceType: domain.ServiceSea,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.QuotePending, quote.Status)
		assert.Equal(t, "u1", quote.UserID)
		assert.Equal(t, 1, quote.PackageCount)
	})

	t.Run("GetByID reports a missing quote", func(t *testing.T) {
		svc := NewQuoteService(newMockQuoteRepository())

		_, err := svc.GetByID(ctx, "absent")
		assert.ErrorIs(t, err, ErrQuoteNotFound)
	})

	t.Run("review update approves with a price", func(t *testing.T) {
		repo := newMockQuoteRepository()
		svc := NewQuoteService(repo)

		quote, err := svc.Create(ctx, "u1", &dto.CreateQuoteRequest{
			Origin: "A", Destination: "B", ServiceType: domain.ServiceAir,
		})
		require.NoError(t, err)

		status := domain.QuoteApproved
		cost := 1250.50
		updated, err := svc.Update(ctx, quote.ID, &dto.UpdateQuoteRequest{
			Status:        &status,
			EstimatedCost: &cost,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.QuoteApproved, updated.Status)
		require.NotNil(t, updated.EstimatedCost)
		assert.Equal(t, 1250.50, *updated.EstimatedCost)
	})

	t.Run("pending count follows review state", func(t *testing.T) {
		repo := newMockQuoteRepository()
		svc := NewQuoteService(repo)

		first, err := svc.Create(ctx, "u1", &dto.CreateQuoteRequest{Origin: "A", Destination: "B", ServiceType: domain.ServiceAir})
		require.NoError(t, err)
		_, err = svc.Create(ctx, "u1", &dto.CreateQuoteRequest{Origin: "C", Destination: "D", ServiceType: domain.ServiceSea})
		require.NoError(t, err)

		count, err := svc.CountPendingByUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		status := domain.QuoteRejected
		_, err = svc.Update(ctx, first.ID, &dto.UpdateQuoteRequest{Status: &status})
		require.NoError(t, err)

		count, err = svc.CountPendingByUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
