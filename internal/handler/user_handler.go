package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nahashon-source/globalship-backend/internal/dto"
	"github.com/nahashon-source/globalship-backend/internal/middleware"
	"github.com/nahashon-source/globalship-backend/internal/service"
	"github.com/nahashon-source/globalship-backend/pkg/response"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMe returns the authenticated user's profile
// GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// UpdateMe applies a partial update to the authenticated user's profile
// PUT /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// List returns all users, paginated
// GET /api/v1/users (superuser)
func (h *UserHandler) List(c *gin.Context) {
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
