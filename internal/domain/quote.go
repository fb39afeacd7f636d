package domain

import "time"

// QuoteStatus is the lifecycle state of a quote request
type QuoteStatus string

const (
	QuotePending  QuoteStatus = "pending"
	QuoteApproved QuoteStatus = "approved"
	QuoteRejected QuoteStatus = "rejected"
	QuoteExpired  QuoteStatus = "expired"
)

// Quote represents a shipment quote request
type Quote struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	ServiceType string `json:"service_type"`

	Weight       *float64 `json:"weight,omitempty"` // kg
	Dimensions   string   `json:"dimensions,omitempty"`
	PackageCount int      `json:"package_count"`

	EstimatedCost *float64 `json:"estimated_cost,omitempty"`
	Currency      string   `json:"currency"`

	Status QuoteStatus `json:"status"`

	SpecialRequirements string `json:"special_requirements,omitempty"`
	Notes               string `json:"notes,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
