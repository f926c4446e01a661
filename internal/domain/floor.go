package domain

import (
	"errors"
	"time"
)

// Floor represents one level of the mall (an "étage") with its own
// background plan image and slot set. Read-mostly: created by admin slot
// management, never mutated by the map or workflow paths.
type Floor struct {
	ID        string    `json:"id"`
	Nom       string    `json:"nom"`
	Niveau    int       `json:"niveau"`
	PlanImage string    `json:"planImage"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate validates floor data
func (f *Floor) Validate() error {
	if f.Nom == "" {
		return errors.New("nom is required")
	}
	if f.Niveau < 0 {
		return errors.New("niveau cannot be negative")
	}
	return nil
}

// CreateFloorRequest represents a request to create a floor
type CreateFloorRequest struct {
	Nom       string `json:"nom"`
	Niveau    int    `json:"niveau"`
	PlanImage string `json:"planImage,omitempty"`
}

// Validate validates the create floor request
func (r *CreateFloorRequest) Validate() error {
	if r.Nom == "" {
		return errors.New("nom is required")
	}
	if r.Niveau < 0 {
		return errors.New("niveau cannot be negative")
	}
	return nil
}

// Category represents a shop category (icon and color are presentation
// hints consumed by the front-end).
type Category struct {
	ID          string    `json:"id"`
	Nom         string    `json:"nom"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Couleur     string    `json:"couleur"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
