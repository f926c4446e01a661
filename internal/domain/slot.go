package domain

import (
	"errors"
	"time"
)

// SlotStatus represents the occupancy status of a slot
type SlotStatus string

const (
	SlotStatusFree     SlotStatus = "libre"
	SlotStatusOccupied SlotStatus = "occupe"
)

// Rect is a slot's clickable zone in floor-plan pixel space.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether the point (x, y) falls inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Slot represents a rentable unit (an "emplacement") on a floor plan.
//
// Invariant: Statut is "occupe" iff exactly one active tenancy references
// the slot; BoutiqueID is set only while occupied. The flip to occupied
// happens exclusively as a side effect of request acceptance, the flip
// back to free when the tenancy ends.
type Slot struct {
	ID          string     `json:"id"`
	EtageID     string     `json:"etageId"`
	Numero      string     `json:"numero"`
	Coordonnees Rect       `json:"coordonnees"`
	Statut      SlotStatus `json:"statut"`
	BoutiqueID  string     `json:"boutiqueId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Validate validates slot data
func (s *Slot) Validate() error {
	if s.EtageID == "" {
		return errors.New("etageId is required")
	}
	if s.Numero == "" {
		return errors.New("numero is required")
	}
	if s.Coordonnees.Width <= 0 || s.Coordonnees.Height <= 0 {
		return errors.New("coordonnees must have positive width and height")
	}
	return nil
}

// CreateSlotRequest represents a request to create a slot
type CreateSlotRequest struct {
	EtageID     string `json:"etageId"`
	Numero      string `json:"numero"`
	Coordonnees Rect   `json:"coordonnees"`
}

// Validate validates the create slot request
func (r *CreateSlotRequest) Validate() error {
	s := Slot{EtageID: r.EtageID, Numero: r.Numero, Coordonnees: r.Coordonnees}
	return s.Validate()
}
