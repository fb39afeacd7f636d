package domain

import "time"

// User represents a registered account
type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"`
	CompanyName    string     `json:"company_name,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	FullName       string     `json:"full_name,omitempty"`
	IsActive       bool       `json:"is_active"`
	IsVerified     bool       `json:"is_verified"`
	IsSuperuser    bool       `json:"is_superuser"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// Identity is the validated, request-scoped representation of the caller.
// It is produced by authentication and consumed by authorization; it is
// never cached beyond the request.
type Identity struct {
	UserID    string
	Active    bool
	Verified  bool
	Superuser bool
}
