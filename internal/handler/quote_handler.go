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

// QuoteHandler handles quote HTTP requests
type QuoteHandler struct {
	quoteService service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// Create registers a quote request for the authenticated user
// POST /api/v1/quotes
func (h *QuoteHandler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	quote, err := h.quoteService.Create(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, quote)
}

// List returns the authenticated user's quotes
// GET /api/v1/quotes
func (h *QuoteHandler) List(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var query dto.ListQuotesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	filter := repository.QuoteFilter{UserID: identity.UserID, Status: query.Status}
	page := pageFrom(query.Page, query.PageSize)

	quotes, total, err := h.quoteService.List(c.Request.Context(), filter, page)
	if err != nil {
		fail(c, err)
		return
	}

	response.List(c, quotes, int(total), page.Number, page.Size)
}

// Get returns one quote, owner or superuser only
// GET /api/v1/quotes/:id
func (h *QuoteHandler) Get(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	quote, err := h.quoteService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrQuoteNotFound) {
			response.NotFound(c, "Quote not found")
			return
		}
		fail(c, err)
		return
	}

	if decision := authz.CanAccess(*identity, quote.UserID, false); !decision.Allowed {
		forbid(c, decision.Reason)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// Update applies a review update, owner or superuser only
// PUT /api/v1/quotes/:id
func (h *QuoteHandler) Update(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	quote, err := h.quoteService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrQuoteNotFound) {
			response.NotFound(c, "Quote not found")
			return
		}
		fail(c, err)
		return
	}

	if decision := authz.CanAccess(*identity, quote.UserID, false); !decision.Allowed {
		forbid(c, decision.Reason)
		return
	}

	updated, err := h.quoteService.Update(c.Request.Context(), quote.ID, &req)
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
