package dto

import "github.com/nahashon-source/globalship-backend/internal/domain"

// CreateQuoteRequest is the payload for requesting a quote
type CreateQuoteRequest struct {
	Origin      string             `json:"origin" binding:"required,max=255"`
	Destination string             `json:"destination" binding:"required,max=255"`
	ServiceType domain.ServiceType `json:"service_type" binding:"required,oneof=air sea road warehousing customs"`

	Weight       *float64 `json:"weight" binding:"omitempty,gt=0"`
	Dimensions   string   `json:"dimensions" binding:"omitempty,max=100"`
	PackageCount int      `json:"package_count" binding:"omitempty,gte=1"`

	SpecialRequirements string `json:"special_requirements" binding:"omitempty,max=1000"`
}

// UpdateQuoteRequest is the payload for reviewing a quote
type UpdateQuoteRequest struct {
	Status        *domain.QuoteStatus `json:"status" binding:"omitempty,oneof=pending approved rejected expired"`
	EstimatedCost *float64            `json:"estimated_cost" binding:"omitempty,gte=0"`
	Currency      *string             `json:"currency" binding:"omitempty,len=3"`
	Notes         *string             `json:"notes" binding:"omitempty,max=1000"`
	ExpiresAt     *string             `json:"expires_at"`
}

// ListQuotesQuery holds query parameters for quote listings
type ListQuotesQuery struct {
	Status   domain.QuoteStatus `form:"status" binding:"omitempty,oneof=pending approved rejected expired"`
	Page     int                `form:"page" binding:"omitempty,gte=1"`
	PageSize int                `form:"page_size" binding:"omitempty,gte=1,lte=100"`
}
