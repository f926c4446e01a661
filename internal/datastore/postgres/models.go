package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"mallmap-api-go/internal/domain"
)

// Row models keep the flat column layout out of the domain types.

type floorRow struct {
	ID        string    `db:"id"`
	Nom       string    `db:"nom"`
	Niveau    int       `db:"niveau"`
	PlanImage string    `db:"plan_image"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r floorRow) toDomain() domain.Floor {
	return domain.Floor{
		ID:        r.ID,
		Nom:       r.Nom,
		Niveau:    r.Niveau,
		PlanImage: r.PlanImage,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type categoryRow struct {
	ID          string    `db:"id"`
	Nom         string    `db:"nom"`
	Description string    `db:"description"`
	Icon        string    `db:"icon"`
	Couleur     string    `db:"couleur"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r categoryRow) toDomain() domain.Category {
	return domain.Category{
		ID:          r.ID,
		Nom:         r.Nom,
		Description: r.Description,
		Icon:        r.Icon,
		Couleur:     r.Couleur,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type slotRow struct {
	ID         string         `db:"id"`
	EtageID    string         `db:"etage_id"`
	Numero     string         `db:"numero"`
	X          float64        `db:"x"`
	Y          float64        `db:"y"`
	Width      float64        `db:"width"`
	Height     float64        `db:"height"`
	Statut     string         `db:"statut"`
	BoutiqueID sql.NullString `db:"boutique_id"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r slotRow) toDomain() domain.Slot {
	return domain.Slot{
		ID:      r.ID,
		EtageID: r.EtageID,
		Numero:  r.Numero,
		Coordonnees: domain.Rect{
			X:      r.X,
			Y:      r.Y,
			Width:  r.Width,
			Height: r.Height,
		},
		Statut:     domain.SlotStatus(r.Statut),
		BoutiqueID: r.BoutiqueID.String,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type shopRow struct {
	ID             string         `db:"id"`
	UserID         string         `db:"user_id"`
	Nom            string         `db:"nom"`
	Description    string         `db:"description"`
	CategorieID    sql.NullString `db:"categorie_id"`
	Logo           string         `db:"logo"`
	Images         pq.StringArray `db:"images"`
	HeureOuverture string         `db:"heure_ouverture"`
	HeureFermeture string         `db:"heure_fermeture"`
	JoursOuverture pq.StringArray `db:"jours_ouverture"`
	Statut         string         `db:"statut"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (r shopRow) toDomain() domain.Shop {
	return domain.Shop{
		ID:             r.ID,
		UserID:         r.UserID,
		Nom:            r.Nom,
		Description:    r.Description,
		CategorieID:    r.CategorieID.String,
		Logo:           r.Logo,
		Images:         []string(r.Images),
		HeureOuverture: r.HeureOuverture,
		HeureFermeture: r.HeureFermeture,
		JoursOuverture: []string(r.JoursOuverture),
		Statut:         domain.ShopStatus(r.Statut),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type requestRow struct {
	ID                    string         `db:"id"`
	UserID                string         `db:"user_id"`
	Nom                   string         `db:"nom"`
	Description           string         `db:"description"`
	CategorieID           sql.NullString `db:"categorie_id"`
	Logo                  string         `db:"logo"`
	EmplacementSouhaiteID string         `db:"emplacement_souhaite_id"`
	DateDebutSouhaitee    sql.NullTime   `db:"date_debut_souhaitee"`
	DateFinSouhaitee      sql.NullTime   `db:"date_fin_souhaitee"`
	ContactNom            string         `db:"contact_nom"`
	ContactPrenom         string         `db:"contact_prenom"`
	ContactEmail          string         `db:"contact_email"`
	ContactTelephone      string         `db:"contact_telephone"`
	Statut                string         `db:"statut"`
	MotifRefus            sql.NullString `db:"motif_refus"`
	CreatedAt             time.Time      `db:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at"`
}

func (r requestRow) toDomain() domain.SlotRequest {
	return domain.SlotRequest{
		ID:                    r.ID,
		UserID:                r.UserID,
		Nom:                   r.Nom,
		Description:           r.Description,
		CategorieID:           r.CategorieID.String,
		Logo:                  r.Logo,
		EmplacementSouhaiteID: r.EmplacementSouhaiteID,
		DateDebutSouhaitee:    nullTimePtr(r.DateDebutSouhaitee),
		DateFinSouhaitee:      nullTimePtr(r.DateFinSouhaitee),
		ContactNom:            r.ContactNom,
		ContactPrenom:         r.ContactPrenom,
		ContactEmail:          r.ContactEmail,
		ContactTelephone:      r.ContactTelephone,
		Statut:                domain.RequestStatus(r.Statut),
		MotifRefus:            r.MotifRefus.String,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

type tenancyRow struct {
	ID            string       `db:"id"`
	DemandeID     string       `db:"demande_id"`
	BoutiqueID    string       `db:"boutique_id"`
	EmplacementID string       `db:"emplacement_id"`
	UserID        string       `db:"user_id"`
	DateDebut     time.Time    `db:"date_debut"`
	DateFin       sql.NullTime `db:"date_fin"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

func (r tenancyRow) toDomain() domain.Tenancy {
	return domain.Tenancy{
		ID:            r.ID,
		DemandeID:     r.DemandeID,
		BoutiqueID:    r.BoutiqueID,
		EmplacementID: r.EmplacementID,
		UserID:        r.UserID,
		DateDebut:     r.DateDebut,
		DateFin:       nullTimePtr(r.DateFin),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func timePtrNull(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func pqArray(vals []string) pq.StringArray {
	return pq.StringArray(vals)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
