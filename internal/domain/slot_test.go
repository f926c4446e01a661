package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotValidation(t *testing.T) {
	tests := []struct {
		name        string
		slot        Slot
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid slot",
			slot: Slot{
				EtageID:     "etage-1",
				Numero:      "A-12",
				Coordonnees: Rect{X: 100, Y: 200, Width: 80, Height: 60},
			},
		},
		{
			name: "missing floor",
			slot: Slot{
				Numero:      "A-12",
				Coordonnees: Rect{Width: 80, Height: 60},
			},
			expectError: true,
			errorMsg:    "etageId",
		},
		{
			name: "missing numero",
			slot: Slot{
				EtageID:     "etage-1",
				Coordonnees: Rect{Width: 80, Height: 60},
			},
			expectError: true,
			errorMsg:    "numero",
		},
		{
			name: "zero width",
			slot: Slot{
				EtageID:     "etage-1",
				Numero:      "A-12",
				Coordonnees: Rect{Width: 0, Height: 60},
			},
			expectError: true,
			errorMsg:    "coordonnees",
		},
		{
			name: "negative height",
			slot: Slot{
				EtageID:     "etage-1",
				Numero:      "A-12",
				Coordonnees: Rect{Width: 80, Height: -1},
			},
			expectError: true,
			errorMsg:    "coordonnees",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.slot.Validate()
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 100, Y: 200, Width: 80, Height: 60}

	// Interior and edges
	assert.True(t, r.Contains(140, 230))
	assert.True(t, r.Contains(100, 200))
	assert.True(t, r.Contains(180, 260))

	// Outside on each side
	assert.False(t, r.Contains(99.9, 230))
	assert.False(t, r.Contains(180.1, 230))
	assert.False(t, r.Contains(140, 199.9))
	assert.False(t, r.Contains(140, 260.1))
}
