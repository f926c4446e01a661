package domain

import (
	"errors"
	"strings"
	"time"
)

// RequestStatus represents the lifecycle status of a slot request
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "en_attente"
	RequestStatusAccepted RequestStatus = "acceptee"
	RequestStatusRejected RequestStatus = "refusee"
)

// IsTerminal reports whether the status permits no further transition.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusAccepted || s == RequestStatusRejected
}

// SlotRequest represents a shop-role user's request (a "demande
// boutique") to occupy a specific free slot. The shop descriptor is
// embedded: the boutique entity is created only when the request is
// accepted. Accepted and rejected are terminal; MotifRefus is set only
// on rejection.
type SlotRequest struct {
	ID                   string        `json:"id"`
	UserID               string        `json:"userId"`
	Nom                  string        `json:"nom"`
	Description          string        `json:"description"`
	CategorieID          string        `json:"categorieId"`
	Logo                 string        `json:"logo,omitempty"`
	EmplacementSouhaiteID string       `json:"emplacementSouhaiteId"`
	DateDebutSouhaitee   *time.Time    `json:"dateDebutSouhaitee,omitempty"`
	DateFinSouhaitee     *time.Time    `json:"dateFinSouhaitee,omitempty"`
	ContactNom           string        `json:"contactNom"`
	ContactPrenom        string        `json:"contactPrenom"`
	ContactEmail         string        `json:"contactEmail"`
	ContactTelephone     string        `json:"contactTelephone"`
	Statut               RequestStatus `json:"statut"`
	MotifRefus           string        `json:"motifRefus,omitempty"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`
}

// Validate validates the embedded shop descriptor and target slot
func (r *SlotRequest) Validate() error {
	if r.UserID == "" {
		return errors.New("userId is required")
	}
	if strings.TrimSpace(r.Nom) == "" {
		return errors.New("nom is required")
	}
	if r.CategorieID == "" {
		return errors.New("categorieId is required")
	}
	if r.EmplacementSouhaiteID == "" {
		return errors.New("emplacementSouhaiteId is required")
	}
	if strings.TrimSpace(r.ContactEmail) == "" {
		return errors.New("contactEmail is required")
	}
	if r.DateDebutSouhaitee != nil && r.DateFinSouhaitee != nil &&
		r.DateFinSouhaitee.Before(*r.DateDebutSouhaitee) {
		return errors.New("dateFinSouhaitee cannot precede dateDebutSouhaitee")
	}
	return nil
}

// CreateRequestPayload represents the submission body for a slot request
type CreateRequestPayload struct {
	Nom                  string     `json:"nom"`
	Description          string     `json:"description"`
	CategorieID          string     `json:"categorieId"`
	Logo                 string     `json:"logo,omitempty"`
	EmplacementSouhaiteID string    `json:"emplacementSouhaiteId"`
	DateDebutSouhaitee   *time.Time `json:"dateDebutSouhaitee,omitempty"`
	DateFinSouhaitee     *time.Time `json:"dateFinSouhaitee,omitempty"`
	ContactNom           string     `json:"contactNom"`
	ContactPrenom        string     `json:"contactPrenom"`
	ContactEmail         string     `json:"contactEmail"`
	ContactTelephone     string     `json:"contactTelephone"`
}

// UpdateRequestStatusPayload is the admin transition body:
// PATCH /demandes-boutiques/{id}/statut
type UpdateRequestStatusPayload struct {
	Statut     RequestStatus `json:"statut"`
	MotifRefus string        `json:"motifRefus,omitempty"`
}
