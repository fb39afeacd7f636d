package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nahashon-source/globalship-backend/internal/domain"
)

func TestCanAccess(t *testing.T) {
	owner := domain.Identity{UserID: "u1", Active: true}
	other := domain.Identity{UserID: "u2", Active: true}
	admin := domain.Identity{UserID: "u3", Active: true, Superuser: true}

	tests := []struct {
		name             string
		identity         domain.Identity
		ownerID          string
		requiresElevated bool
		wantAllowed      bool
		wantReason       Reason
	}{
		{
			name:        "owner may access own resource",
			identity:    owner,
			ownerID:     "u1",
			wantAllowed: true,
		},
		{
			name:        "non-owner is denied",
			identity:    other,
			ownerID:     "u1",
			wantAllowed: false,
			wantReason:  ReasonNotOwner,
		},
		{
			name:        "superuser may access any resource",
			identity:    admin,
			ownerID:     "u1",
			wantAllowed: true,
		},
		{
			name:             "superuser may perform elevated operations",
			identity:         admin,
			requiresElevated: true,
			wantAllowed:      true,
		},
		{
			name:             "regular user is denied elevated operations",
			identity:         owner,
			requiresElevated: true,
			wantAllowed:      false,
			wantReason:       ReasonInsufficientRole,
		},
		{
			name:             "elevation check wins over ownership",
			identity:         owner,
			ownerID:          "u1",
			requiresElevated: true,
			wantAllowed:      false,
			wantReason:       ReasonInsufficientRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanAccess(tt.identity, tt.ownerID, tt.requiresElevated)
			assert.Equal(t, tt.wantAllowed, got.Allowed)
			if !tt.wantAllowed {
				assert.Equal(t, tt.wantReason, got.Reason)
			}
		})
	}
}
