package domain

import "time"

// MessageStatus is the triage state of a contact message
type MessageStatus string

const (
	MessageNew       MessageStatus = "new"
	MessageRead      MessageStatus = "read"
	MessageResponded MessageStatus = "responded"
	MessageArchived  MessageStatus = "archived"
)

// ContactMessage represents a contact form submission
type ContactMessage struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`

	Subject string `json:"subject"`
	Message string `json:"message"`

	Status     MessageStatus `json:"status"`
	AdminNotes string        `json:"admin_notes,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}
