package domain

import "time"

// ServiceType is the transport mode of a shipment
type ServiceType string

const (
	ServiceAir         ServiceType = "air"
	ServiceSea         ServiceType = "sea"
	ServiceRoad        ServiceType = "road"
	ServiceWarehousing ServiceType = "warehousing"
	ServiceCustoms     ServiceType = "customs"
)

// ShipmentStatus is the lifecycle state of a shipment
type ShipmentStatus string

const (
	StatusPending        ShipmentStatus = "pending"
	StatusProcessing     ShipmentStatus = "processing"
	StatusPickedUp       ShipmentStatus = "picked_up"
	StatusInTransit      ShipmentStatus = "in_transit"
	StatusCustoms        ShipmentStatus = "customs"
	StatusOutForDelivery ShipmentStatus = "out_for_delivery"
	StatusDelivered      ShipmentStatus = "delivered"
	StatusCancelled      ShipmentStatus = "cancelled"
	StatusOnHold         ShipmentStatus = "on_hold"
)

// ActiveStatuses are the states counted as in-flight on dashboards
var ActiveStatuses = []ShipmentStatus{
	StatusPending,
	StatusProcessing,
	StatusPickedUp,
	StatusInTransit,
	StatusCustoms,
	StatusOutForDelivery,
}

// Dimensions holds package dimensions in centimeters
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Shipment represents a tracked shipment
type Shipment struct {
	ID             string      `json:"id"`
	TrackingNumber string      `json:"tracking_number"`
	UserID         string      `json:"user_id"`

	OriginCity        string `json:"origin_city"`
	OriginCountry     string `json:"origin_country"`
	OriginAddress     string `json:"origin_address,omitempty"`
	OriginPostalCode  string `json:"origin_postal_code,omitempty"`
	DestinationCity   string `json:"destination_city"`
	DestinationCountry string `json:"destination_country"`
	DestinationAddress string `json:"destination_address,omitempty"`
	DestinationPostalCode string `json:"destination_postal_code,omitempty"`

	ServiceType ServiceType    `json:"service_type"`
	Status      ShipmentStatus `json:"status"`

	Weight       *float64    `json:"weight,omitempty"` // kg
	Dimensions   *Dimensions `json:"dimensions,omitempty"`
	PackageCount int         `json:"package_count"`

	EstimatedCost *float64 `json:"estimated_cost,omitempty"`
	ActualCost    *float64 `json:"actual_cost,omitempty"`
	Currency      string   `json:"currency"`

	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time `json:"actual_delivery,omitempty"`

	SpecialInstructions string `json:"special_instructions,omitempty"`
	Insurance           bool   `json:"insurance"`
	SignatureRequired   bool   `json:"signature_required"`
}

// ShipmentEvent is one entry in a shipment's timeline
type ShipmentEvent struct {
	ID          string    `json:"id"`
	ShipmentID  string    `json:"shipment_id"`
	EventType   string    `json:"event_type"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	CreatedAt   time.Time `json:"created_at"`
}
