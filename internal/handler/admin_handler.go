package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nahashon-source/globalship-backend/internal/dto"
	"github.com/nahashon-source/globalship-backend/internal/repository"
	"github.com/nahashon-source/globalship-backend/internal/service"
	"github.com/nahashon-source/globalship-backend/pkg/response"
)

// AdminHandler handles superuser-only HTTP requests. Routes are gated by
// RequireSuperuser, so no per-resource ownership checks happen here.
type AdminHandler struct {
	userService      service.UserService
	shipmentService  service.ShipmentService
	quoteService     service.QuoteService
	contactService   service.ContactService
	dashboardService service.DashboardService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	userService service.UserService,
	shipmentService service.ShipmentService,
	quoteService service.QuoteService,
	contactService service.ContactService,
	dashboardService service.DashboardService,
) *AdminHandler {
	return &AdminHandler{
		userService:      userService,
		shipmentService:  shipmentService,
		quoteService:     quoteService,
		contactService:   contactService,
		dashboardService: dashboardService,
	}
}

// Stats returns the system overview
// GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.SystemStats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListUsers returns all users
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var query dto.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	page := pageFrom(query.Page, query.PageSize)
	users, total, err := h.userService.List(c.Request.Context(), page)
	if err != nil {
		fail(c, err)
		return
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, dto.ToUserResponse(user))
	}
	response.List(c, items, int(total), page.Number, page.Size)
}

// ListShipments returns all shipments, optionally filtered
// GET /api/v1/admin/shipments
func (h *AdminHandler) ListShipments(c *gin.Context) {
	var query dto.ListShipmentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	filter := repository.ShipmentFilter{Status: query.Status, ServiceType: query.ServiceType}
	page := pageFrom(query.Page, query.PageSize)

	shipments, total, err := h.shipmentService.List(c.Request.Context(), filter, page)
	if err != nil {
		fail(c, err)
		return
	}

	response.List(c, shipments, int(total), page.Number, page.Size)
}

// UpdateShipmentStatus transitions a shipment's status
// PUT /api/v1/admin/shipments/:id/status
func (h *AdminHandler) UpdateShipmentStatus(c *gin.Context) {
	var req dto.UpdateShipmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	shipment, err := h.shipmentService.UpdateStatus(c.Request.Context(), c.Param("id"), &req)
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

// ListQuotes returns all quotes, optionally filtered
// GET /api/v1/admin/quotes
func (h *AdminHandler) ListQuotes(c *gin.Context) {
	var query dto.ListQuotesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	filter := repository.QuoteFilter{Status: query.Status}
	page := pageFrom(query.Page, query.PageSize)

	quotes, total, err := h.quoteService.List(c.Request.Context(), filter, page)
	if err != nil {
		fail(c, err)
		return
	}

	response.List(c, quotes, int(total), page.Number, page.Size)
}

// UpdateQuote applies a review update
// PUT /api/v1/admin/quotes/:id
func (h *AdminHandler) UpdateQuote(c *gin.Context) {
	var req dto.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	quote, err := h.quoteService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrQuoteNotFound) {
			response.NotFound(c, "Quote not found")
			return
		}
		if errors.Is(err, service.ErrInvalidDate) {
			response.BadRequest(c, err.Error())
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// ListMessages returns contact messages for triage
// GET /api/v1/admin/messages
func (h *AdminHandler) ListMessages(c *gin.Context) {
	var query dto.ListContactMessagesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	page := pageFrom(query.Page, query.PageSize)
	messages, total, err := h.contactService.List(c.Request.Context(), query.Status, page)
	if err != nil {
		fail(c, err)
		return
	}

	response.List(c, messages, int(total), page.Number, page.Size)
}

// UpdateMessage applies a triage update
// PUT /api/v1/admin/messages/:id
func (h *AdminHandler) UpdateMessage(c *gin.Context) {
	var req dto.UpdateContactMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	message, err := h.contactService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			response.NotFound(c, "Message not found")
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, message)
}
