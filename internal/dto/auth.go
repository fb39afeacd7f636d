// Package dto holds request and response shapes for the HTTP layer.
// Binding tags drive gin's validator; services never see raw requests.
package dto

import (
	"time"

	"github.com/nahashon-source/globalship-backend/internal/domain"
)

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FullName    string `json:"full_name" binding:"omitempty,max=100"`
	CompanyName string `json:"company_name" binding:"omitempty,max=100"`
	Phone       string `json:"phone" binding:"omitempty,max=32"`
}

// LoginRequest is the payload for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse is the issued token pair
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// UpdateProfileRequest is the payload for profile updates
type UpdateProfileRequest struct {
	FullName    *string `json:"full_name" binding:"omitempty,max=100"`
	CompanyName *string `json:"company_name" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=32"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	IsActive    bool   `json:"is_active"`
	IsVerified  bool   `json:"is_verified"`
	IsSuperuser bool   `json:"is_superuser"`
	CreatedAt   string `json:"created_at"`
}

// ToUserResponse converts a domain user to its public view
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		CompanyName: user.CompanyName,
		Phone:       user.Phone,
		IsActive:    user.IsActive,
		IsVerified:  user.IsVerified,
		IsSuperuser: user.IsSuperuser,
		CreatedAt:   user.CreatedAt.UTC().Format(time.RFC3339),
	}
}
