package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nahashon-source/globalship-backend/internal/authz"
	"github.com/nahashon-source/globalship-backend/internal/dto"
	"github.com/nahashon-source/globalship-backend/internal/middleware"
	"github.com/nahashon-source/globalship-backend/internal/repository"
	"github.com/nahashon-source/globalship-backend/internal/service"
	"github.com/nahashon-source/globalship-backend/pkg/response"
)

// ShipmentHandler handles shipment HTTP requests
type ShipmentHandler struct {
	shipmentService service.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler
func NewShipmentHandler(shipmentService service.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{shipmentService: shipmentService}
}

// Create registers a new shipment for the authenticated user
// POST /api/v1/shipments
func (h *ShipmentHandler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	shipment, err := h.shipmentService.Create(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			response.BadRequest(c, err.Error())
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, shipment)
}

// List returns the authenticated user's shipments
// GET /api/v1/shipments
func (h *ShipmentHandler) List(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var query dto.ListShipmentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	filter := repository.ShipmentFilter{
		UserID:      identity.UserID,
		Status:      query.Status,
		ServiceType: query.ServiceType,
	}
	page := pageFrom(query.Page, query.PageSize)

	shipments, total, err := h.shipmentService.List(c.Request.Context(), filter, page)
	if err != nil {
		fail(c, err)
		return
	}

	response.List(c, shipments, int(total), page.Number, page.Size)
}

// Get returns one shipment, owner or superuser only
// GET /api/v1/shipments/:id
func (h *ShipmentHandler) Get(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	shipment, err := h.shipmentService.GetByID(c.Request.Context(), c.Param("id"))
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

	c.JSON(http.StatusOK, shipment)
}

// Update applies a partial update, owner or superuser only
// PUT /api/v1/shipments/:id
func (h *ShipmentHandler) Update(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.UpdateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	shipment, err := h.shipmentService.GetByID(c.Request.Context(), c.Param("id"))
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

	updated, err := h.shipmentService.Update(c.Request.Context(), shipment.ID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			response.BadRequest(c, err.Error())
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Track returns a shipment by tracking number, no authentication required
// GET /api/v1/shipments/track/:tracking_number
func (h *ShipmentHandler) Track(c *gin.Context) {
	shipment, err := h.shipmentService.GetByTrackingNumber(c.Request.Context(), c.Param("tracking_number"))
	if err != nil {
		if errors.Is(err, service.ErrShipmentNotFound) {
			response.NotFound(c, "Shipment not found")
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, shipment)
}
