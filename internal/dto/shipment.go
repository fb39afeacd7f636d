package dto

import "github.com/nahashon-source/globalship-backend/internal/domain"

// CreateShipmentRequest is the payload for creating a shipment
type CreateShipmentRequest struct {
	OriginCity            string `json:"origin_city" binding:"required,max=100"`
	OriginCountry         string `json:"origin_country" binding:"required,max=100"`
	OriginAddress         string `json:"origin_address" binding:"omitempty,max=255"`
	OriginPostalCode      string `json:"origin_postal_code" binding:"omitempty,max=20"`
	DestinationCity       string `json:"destination_city" binding:"required,max=100"`
	DestinationCountry    string `json:"destination_country" binding:"required,max=100"`
	DestinationAddress    string `json:"destination_address" binding:"omitempty,max=255"`
	DestinationPostalCode string `json:"destination_postal_code" binding:"omitempty,max=20"`

	ServiceType domain.ServiceType `json:"service_type" binding:"required,oneof=air sea road warehousing customs"`

	Weight       *float64           `json:"weight" binding:"omitempty,gt=0"`
	Dimensions   *domain.Dimensions `json:"dimensions"`
	PackageCount int                `json:"package_count" binding:"omitempty,gte=1"`

	EstimatedCost *float64 `json:"estimated_cost" binding:"omitempty,gte=0"`
	Currency      string   `json:"currency" binding:"omitempty,len=3"`

	EstimatedDelivery   *string `json:"estimated_delivery"`
	SpecialInstructions string  `json:"special_instructions" binding:"omitempty,max=1000"`
	Insurance           bool    `json:"insurance"`
	SignatureRequired   bool    `json:"signature_required"`
}

// UpdateShipmentRequest is the payload for updating a shipment. All fields
// are optional; absent fields are left untouched.
type UpdateShipmentRequest struct {
	Status              *domain.ShipmentStatus `json:"status" binding:"omitempty,oneof=pending processing picked_up in_transit customs out_for_delivery delivered cancelled on_hold"`
	Weight              *float64               `json:"weight" binding:"omitempty,gt=0"`
	Dimensions          *domain.Dimensions     `json:"dimensions"`
	PackageCount        *int                   `json:"package_count" binding:"omitempty,gte=1"`
	EstimatedCost       *float64               `json:"estimated_cost" binding:"omitempty,gte=0"`
	ActualCost          *float64               `json:"actual_cost" binding:"omitempty,gte=0"`
	Currency            *string                `json:"currency" binding:"omitempty,len=3"`
	EstimatedDelivery   *string                `json:"estimated_delivery"`
	ActualDelivery      *string                `json:"actual_delivery"`
	SpecialInstructions *string                `json:"special_instructions" binding:"omitempty,max=1000"`
	Insurance           *bool                  `json:"insurance"`
	SignatureRequired   *bool                  `json:"signature_required"`
}

// UpdateShipmentStatusRequest is the admin payload for status transitions
type UpdateShipmentStatusRequest struct {
	Status      domain.ShipmentStatus `json:"status" binding:"required,oneof=pending processing picked_up in_transit customs out_for_delivery delivered cancelled on_hold"`
	Location    string                `json:"location" binding:"omitempty,max=255"`
	Description string                `json:"description" binding:"omitempty,max=1000"`
}

// ListShipmentsQuery holds query parameters for shipment listings
type ListShipmentsQuery struct {
	Status      domain.ShipmentStatus `form:"status" binding:"omitempty,oneof=pending processing picked_up in_transit customs out_for_delivery delivered cancelled on_hold"`
	ServiceType domain.ServiceType    `form:"service_type" binding:"omitempty,oneof=air sea road warehousing customs"`
	Page        int                   `form:"page" binding:"omitempty,gte=1"`
	PageSize    int                   `form:"page_size" binding:"omitempty,gte=1,lte=100"`
}

// CreateShipmentEventRequest is the payload for appending a timeline event
type CreateShipmentEventRequest struct {
	ShipmentID  string `json:"shipment_id" binding:"required"`
	EventType   string `json:"event_type" binding:"required,max=50"`
	Location    string `json:"location" binding:"omitempty,max=255"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}
