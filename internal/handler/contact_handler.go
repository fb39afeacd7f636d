package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nahashon-source/globalship-backend/internal/dto"
	"github.com/nahashon-source/globalship-backend/internal/service"
	"github.com/nahashon-source/globalship-backend/pkg/response"
)

// ContactHandler handles the public contact form
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Create stores a contact form submission
// POST /api/v1/contact
func (h *ContactHandler) Create(c *gin.Context) {
	var req dto.CreateContactMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	message, err := h.contactService.Create(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     message.ID,
		"detail": "Thank you for contacting us. We will get back to you soon.",
	})
}
