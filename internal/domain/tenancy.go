package domain

import "time"

// Tenancy represents the record of an occupancy (a "location
// d'emplacement") linking request, shop, slot and user over a time
// range. Created only as a side effect of request acceptance. DateFin
// nil means open-ended.
type Tenancy struct {
	ID            string     `json:"id"`
	DemandeID     string     `json:"demandeId"`
	BoutiqueID    string     `json:"boutiqueId"`
	EmplacementID string     `json:"emplacementId"`
	UserID        string     `json:"userId"`
	DateDebut     time.Time  `json:"dateDebut"`
	DateFin       *time.Time `json:"dateFin"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ActiveAt reports whether the tenancy covers the given instant.
func (t *Tenancy) ActiveAt(at time.Time) bool {
	if at.Before(t.DateDebut) {
		return false
	}
	return t.DateFin == nil || !t.DateFin.Before(at)
}

// Expired reports whether the tenancy has a passed end date.
func (t *Tenancy) Expired(at time.Time) bool {
	return t.DateFin != nil && t.DateFin.Before(at)
}
