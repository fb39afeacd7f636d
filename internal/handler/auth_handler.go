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

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Error(c, http.StatusConflict, "A user with this email already exists")
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tokens, _, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "Incorrect email or password")
			return
		}
		if errors.Is(err, service.ErrAccountInactive) {
			response.Forbidden(c, "Account is inactive")
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Refresh handles token refresh
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrAccountNotFound) {
			response.Unauthorized(c, "Invalid or expired refresh token")
			return
		}
		if errors.Is(err, service.ErrAccountInactive) {
			response.Forbidden(c, "Account is inactive")
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Logout acknowledges logout. Tokens are stateless, so the client discards
// them; there is nothing to revoke server-side.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"detail": "Successfully logged out"})
}

// Me returns the authenticated user's profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
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
