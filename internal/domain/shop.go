package domain

import (
	"errors"
	"strings"
	"time"
)

// ShopStatus represents the validation status of a shop
type ShopStatus string

const (
	ShopStatusPending   ShopStatus = "en_attente"
	ShopStatusValidated ShopStatus = "validee"
	ShopStatusRejected  ShopStatus = "refusee"
)

// Shop represents a merchant entity (a "boutique"), optionally occupying
// a slot. Created either directly by an admin or automatically when a
// slot request is accepted (in which case it starts validated).
type Shop struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	Nom            string     `json:"nom"`
	Description    string     `json:"description"`
	CategorieID    string     `json:"categorieId"`
	Logo           string     `json:"logo,omitempty"`
	Images         []string   `json:"images"`
	HeureOuverture string     `json:"heureOuverture,omitempty"`
	HeureFermeture string     `json:"heureFermeture,omitempty"`
	JoursOuverture []string   `json:"joursOuverture"`
	Statut         ShopStatus `json:"statut"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Validate validates shop data
func (s *Shop) Validate() error {
	if s.UserID == "" {
		return errors.New("userId is required")
	}
	if strings.TrimSpace(s.Nom) == "" {
		return errors.New("nom is required")
	}
	if s.CategorieID == "" {
		return errors.New("categorieId is required")
	}
	return nil
}

// CreateShopRequest represents an administrative request to create a shop
type CreateShopRequest struct {
	UserID         string   `json:"userId"`
	Nom            string   `json:"nom"`
	Description    string   `json:"description"`
	CategorieID    string   `json:"categorieId"`
	Logo           string   `json:"logo,omitempty"`
	Images         []string `json:"images,omitempty"`
	HeureOuverture string   `json:"heureOuverture,omitempty"`
	HeureFermeture string   `json:"heureFermeture,omitempty"`
	JoursOuverture []string `json:"joursOuverture,omitempty"`
}

// Validate validates the create shop request
func (r *CreateShopRequest) Validate() error {
	s := Shop{UserID: r.UserID, Nom: r.Nom, CategorieID: r.CategorieID}
	return s.Validate()
}
