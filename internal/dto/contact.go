package dto

import "github.com/nahashon-source/globalship-backend/internal/domain"

// CreateContactMessageRequest is the public contact form payload
type CreateContactMessageRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"omitempty,max=32"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// UpdateContactMessageRequest is the admin triage payload
type UpdateContactMessageRequest struct {
	Status     *domain.MessageStatus `json:"status" binding:"omitempty,oneof=new read responded archived"`
	AdminNotes *string               `json:"admin_notes" binding:"omitempty,max=2000"`
}

// ListContactMessagesQuery holds query parameters for message listings
type ListContactMessagesQuery struct {
	Status   domain.MessageStatus `form:"status" binding:"omitempty,oneof=new read responded archived"`
	Page     int                  `form:"page" binding:"omitempty,gte=1"`
	PageSize int                  `form:"page_size" binding:"omitempty,gte=1,lte=100"`
}

// ListQuery holds plain pagination parameters
type ListQuery struct {
	Page     int `form:"page" binding:"omitempty,gte=1"`
	PageSize int `form:"page_size" binding:"omitempty,gte=1,lte=100"`
}
