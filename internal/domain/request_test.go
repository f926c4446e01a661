package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() SlotRequest {
	return SlotRequest{
		UserID:                "user-1",
		Nom:                   "Café du Centre",
		CategorieID:           "cat-resto",
		EmplacementSouhaiteID: "slot-1",
		ContactEmail:          "owner@example.com",
	}
}

func TestSlotRequestValidation(t *testing.T) {
	past := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	future := past.AddDate(1, 0, 0)

	tests := []struct {
		name        string
		mutate      func(*SlotRequest)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid request",
			mutate: func(r *SlotRequest) {},
		},
		{
			name:        "missing user",
			mutate:      func(r *SlotRequest) { r.UserID = "" },
			expectError: true,
			errorMsg:    "userId",
		},
		{
			name:        "blank nom",
			mutate:      func(r *SlotRequest) { r.Nom = "   " },
			expectError: true,
			errorMsg:    "nom",
		},
		{
			name:        "missing category",
			mutate:      func(r *SlotRequest) { r.CategorieID = "" },
			expectError: true,
			errorMsg:    "categorieId",
		},
		{
			name:        "missing slot",
			mutate:      func(r *SlotRequest) { r.EmplacementSouhaiteID = "" },
			expectError: true,
			errorMsg:    "emplacementSouhaiteId",
		},
		{
			name:        "missing contact email",
			mutate:      func(r *SlotRequest) { r.ContactEmail = "" },
			expectError: true,
			errorMsg:    "contactEmail",
		},
		{
			name: "end before start",
			mutate: func(r *SlotRequest) {
				r.DateDebutSouhaitee = &future
				r.DateFinSouhaitee = &past
			},
			expectError: true,
			errorMsg:    "dateFinSouhaitee",
		},
		{
			name: "start only is valid",
			mutate: func(r *SlotRequest) {
				r.DateDebutSouhaitee = &past
			},
		},
		{
			name: "start and later end is valid",
			mutate: func(r *SlotRequest) {
				r.DateDebutSouhaitee = &past
				r.DateFinSouhaitee = &future
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := req.Validate()
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRequestStatusIsTerminal(t *testing.T) {
	assert.False(t, RequestStatusPending.IsTerminal())
	assert.True(t, RequestStatusAccepted.IsTerminal())
	assert.True(t, RequestStatusRejected.IsTerminal())
}
