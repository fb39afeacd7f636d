package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nahashon-source/globalship-backend/internal/authz"
	"github.com/nahashon-source/globalship-backend/internal/dto"
	"github.com/nahashon-source/globalship-backend/internal/middleware"
	"github.com/nahashon-source/globalship-backend/internal/service"
	"github.com/nahashon-source/globalship-backend/pkg/response"
)

// ShipmentEventHandler handles shipment timeline HTTP requests
type ShipmentEventHandler struct {
	eventService    service.ShipmentEventService
	shipmentService service.ShipmentService
}

// NewShipmentEventHandler creates a new ShipmentEventHandler
func NewShipmentEventHandler(eventService service.ShipmentEventService, shipmentService service.ShipmentService) *ShipmentEventHandler {
	return &ShipmentEventHandler{eventService: eventService, shipmentService: shipmentService}
}

// Create appends a timeline event, owner or superuser only. Ownership is
// checked before anything is written.
// POST /api/v1/events
func (h *ShipmentEventHandler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.CreateShipmentEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	shipment, err := h.shipmentService.GetByID(c.Request.Context(), req.ShipmentID)
	if err != nil {
		if errors.Is(err, service.ErrShipmentNotFound) {
			response.NotFound(c, "Shipment not found")
			return
		}
		fail(c, err)
		return
	}

	if decision := authz.CanAccess(*identity, shipment.UserID, false); !decision.Allowed {
		forbid(c, decision.Reason)
		return
	}

	event, _, err := h.eventService.Append(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// Timeline returns a shipment's events, owner or superuser only
// GET /api/v1/events/:shipment_id/timeline
func (h *ShipmentEventHandler) Timeline(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	events, shipment, err := h.eventService.TimelineByShipment(c.Request.Context(), c.Param("shipment_id"))
	if err != nil {
		if errors.Is(err, service.ErrShipmentNotFound) {
			response.NotFound(c, "Shipment not found")
			return
		}
		fail(c, err)
		return
	}

	if decision := authz.CanAccess(*identity, shipment.UserID, false); !decision.Allowed {
		forbid(c, decision.Reason)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tracking_number": shipment.TrackingNumber,
		"status":          shipment.Status,
		"events":          events,
	})
}

// PublicTimeline returns a shipment's events by tracking number
// GET /api/v1/events/track/:tracking_number/timeline
func (h *ShipmentEventHandler) PublicTimeline(c *gin.Context) {
	events, shipment, err := h.eventService.TimelineByTrackingNumber(c.Request.Context(), c.Param("tracking_number"))
	if err != nil {
		if errors.Is(err, service.ErrShipmentNotFound) {
			response.NotFound(c, "Shipment not found")
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tracking_number": shipment.TrackingNumber,
		"status":          shipment.Status,
		"events":          events,
	})
}
