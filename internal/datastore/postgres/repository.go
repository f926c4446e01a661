package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"mallmap-api-go/internal/domain"
	"mallmap-api-go/internal/workflow"
)

// Storage errors for entities the workflow package does not name
var (
	ErrFloorNotFound = errors.New("floor not found")
	ErrShopNotFound  = errors.New("shop not found")
)

// Repository provides Postgres operations for the application. It
// implements workflow.Store; WithTx hands the workflow a transactional
// view of the same repository.
type Repository struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
}

// NewRepository creates a new Postgres repository
func NewRepository(client *Client) *Repository {
	db := client.GetDB()
	return &Repository{db: db, ext: db}
}

// WithTx runs fn inside a transaction. Nested calls reuse the current
// transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(workflow.Store) error) error {
	if _, ok := r.ext.(*sqlx.Tx); ok {
		return fn(r)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txRepo := &Repository{db: r.db, ext: tx}
	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}

// ── Floors ──────────────────────────────────────────────────

// ListFloors retrieves all floors ordered by level
func (r *Repository) ListFloors(ctx context.Context) ([]domain.Floor, error) {
	var rows []floorRow
	err := sqlx.SelectContext(ctx, r.ext, &rows,
		`SELECT * FROM etages ORDER BY niveau ASC`)
	if err != nil {
		return nil, err
	}

	floors := make([]domain.Floor, 0, len(rows))
	for _, row := range rows {
		floors = append(floors, row.toDomain())
	}
	return floors, nil
}

// GetFloor retrieves a floor by ID
func (r *Repository) GetFloor(ctx context.Context, id string) (*domain.Floor, error) {
	var row floorRow
	err := sqlx.GetContext(ctx, r.ext, &row,
		`SELECT * FROM etages WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrFloorNotFound
	}
	if err != nil {
		return nil, err
	}

	floor := row.toDomain()
	return &floor, nil
}

// CreateFloor creates a new floor
func (r *Repository) CreateFloor(ctx context.Context, floor *domain.Floor) error {
	_, err := r.ext.ExecContext(ctx,
		`INSERT INTO etages (id, nom, niveau, plan_image, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		floor.ID, floor.Nom, floor.Niveau, floor.PlanImage, floor.CreatedAt, floor.UpdatedAt)
	return err
}

// ── Categories ──────────────────────────────────────────────

// ListCategories retrieves all categories ordered by name
func (r *Repository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var rows []categoryRow
	err := sqlx.SelectContext(ctx, r.ext, &rows,
		`SELECT * FROM categories ORDER BY nom ASC`)
	if err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, row.toDomain())
	}
	return categories, nil
}

// ── Slots ───────────────────────────────────────────────────

// ListSlots retrieves all slots
func (r *Repository) ListSlots(ctx context.Context) ([]domain.Slot, error) {
	return r.selectSlots(ctx, `SELECT * FROM emplacements ORDER BY numero ASC`)
}

// ListSlotsByFloor retrieves a floor's slots in declaration order.
// The map renderer's first-match hit-test depends on this order being
// stable across reads.
func (r *Repository) ListSlotsByFloor(ctx context.Context, etageID string) ([]domain.Slot, error) {
	return r.selectSlots(ctx,
		`SELECT * FROM emplacements WHERE etage_id = $1 ORDER BY created_at ASC, id ASC`, etageID)
}

// ListAvailableSlots retrieves all free slots
func (r *Repository) ListAvailableSlots(ctx context.Context) ([]domain.Slot, error) {
	return r.selectSlots(ctx,
		`SELECT * FROM emplacements WHERE statut = $1 ORDER BY numero ASC`,
		string(domain.SlotStatusFree))
}

func (r *Repository) selectSlots(ctx context.Context, query string, args ...interface{}) ([]domain.Slot, error) {
	var rows []slotRow
	if err := sqlx.SelectContext(ctx, r.ext, &rows, query, args...); err != nil {
		return nil, err
	}

	slots := make([]domain.Slot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, row.toDomain())
	}
	return slots, nil
}

// GetSlot retrieves a slot by ID
func (r *Repository) GetSlot(ctx context.Context, id string) (*domain.Slot, error) {
	var row slotRow
	err := sqlx.GetContext(ctx, r.ext, &row,
		`SELECT * FROM emplacements WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, workflow.ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}

	slot := row.toDomain()
	return &slot, nil
}

// CreateSlot creates a new slot
func (r *Repository) CreateSlot(ctx context.Context, slot *domain.Slot) error {
	_, err := r.ext.ExecContext(ctx,
		`INSERT INTO emplacements (id, etage_id, numero, x, y, width, height, statut, boutique_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		slot.ID, slot.EtageID, slot.Numero,
		slot.Coordonnees.X, slot.Coordonnees.Y, slot.Coordonnees.Width, slot.Coordonnees.Height,
		string(slot.Statut), nullString(slot.BoutiqueID), slot.CreatedAt, slot.UpdatedAt)
	return err
}

// OccupySlot flips a slot to occupied iff it is still free. This is the
// atomic conditional update that arbitrates two requests racing for the
// same slot: only one acceptance can match the row.
func (r *Repository) OccupySlot(ctx context.Context, slotID, boutiqueID string) (bool, error) {
	res, err := r.ext.ExecContext(ctx,
		`UPDATE emplacements
		 SET statut = $1, boutique_id = $2, updated_at = now()
		 WHERE id = $3 AND statut = $4`,
		string(domain.SlotStatusOccupied), boutiqueID, slotID, string(domain.SlotStatusFree))
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// FreeExpiredSlots frees every occupied slot whose tenancy has ended:
// the occupying shop's tenancy carries a passed end date and no later
// tenancy covers the slot. Returns the freed slots (id and floor, for
// cache invalidation).
func (r *Repository) FreeExpiredSlots(ctx context.Context, at time.Time) ([]domain.Slot, error) {
	var rows []slotRow
	err := sqlx.SelectContext(ctx, r.ext, &rows,
		`UPDATE emplacements e
		 SET statut = $1, boutique_id = NULL, updated_at = now()
		 WHERE e.statut = $2
		   AND EXISTS (
		       SELECT 1 FROM locations_emplacements l
		       WHERE l.emplacement_id = e.id
		         AND l.boutique_id = e.boutique_id
		         AND l.date_fin IS NOT NULL AND l.date_fin < $3
		   )
		   AND NOT EXISTS (
		       SELECT 1 FROM locations_emplacements l2
		       WHERE l2.emplacement_id = e.id
		         AND l2.boutique_id = e.boutique_id
		         AND (l2.date_fin IS NULL OR l2.date_fin >= $3)
		   )
		 RETURNING *`,
		string(domain.SlotStatusFree), string(domain.SlotStatusOccupied), at)
	if err != nil {
		return nil, err
	}

	slots := make([]domain.Slot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, row.toDomain())
	}
	return slots, nil
}

// ── Shops ───────────────────────────────────────────────────

// ListShops retrieves all shops
func (r *Repository) ListShops(ctx context.Context) ([]domain.Shop, error) {
	return r.selectShops(ctx, `SELECT * FROM boutiques ORDER BY created_at DESC`)
}

// ListShopsByUser retrieves the shops owned by a user
func (r *Repository) ListShopsByUser(ctx context.Context, userID string) ([]domain.Shop, error) {
	return r.selectShops(ctx,
		`SELECT * FROM boutiques WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *Repository) selectShops(ctx context.Context, query string, args ...interface{}) ([]domain.Shop, error) {
	var rows []shopRow
	if err := sqlx.SelectContext(ctx, r.ext, &rows, query, args...); err != nil {
		return nil, err
	}

	shops := make([]domain.Shop, 0, len(rows))
	for _, row := range rows {
		shops = append(shops, row.toDomain())
	}
	return shops, nil
}

// GetShop retrieves a shop by ID
func (r *Repository) GetShop(ctx context.Context, id string) (*domain.Shop, error) {
	var row shopRow
	err := sqlx.GetContext(ctx, r.ext, &row,
		`SELECT * FROM boutiques WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, err
	}

	shop := row.toDomain()
	return &shop, nil
}

// CreateShop creates a new shop
func (r *Repository) CreateShop(ctx context.Context, shop *domain.Shop) error {
	images := shop.Images
	if images == nil {
		images = []string{}
	}
	jours := shop.JoursOuverture
	if jours == nil {
		jours = []string{}
	}

	_, err := r.ext.ExecContext(ctx,
		`INSERT INTO boutiques (id, user_id, nom, description, categorie_id, logo, images,
		                        heure_ouverture, heure_fermeture, jours_ouverture, statut,
		                        created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		shop.ID, shop.UserID, shop.Nom, shop.Description, nullString(shop.CategorieID),
		shop.Logo, pqArray(images), shop.HeureOuverture, shop.HeureFermeture,
		pqArray(jours), string(shop.Statut), shop.CreatedAt, shop.UpdatedAt)
	return err
}

// ── Slot requests ───────────────────────────────────────────

// ListRequests retrieves all slot requests, newest first
func (r *Repository) ListRequests(ctx context.Context) ([]domain.SlotRequest, error) {
	return r.selectRequests(ctx,
		`SELECT * FROM demandes_boutiques ORDER BY created_at DESC`)
}

// ListRequestsByUser retrieves a user's slot requests, newest first
func (r *Repository) ListRequestsByUser(ctx context.Context, userID string) ([]domain.SlotRequest, error) {
	return r.selectRequests(ctx,
		`SELECT * FROM demandes_boutiques WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *Repository) selectRequests(ctx context.Context, query string, args ...interface{}) ([]domain.SlotRequest, error) {
	var rows []requestRow
	if err := sqlx.SelectContext(ctx, r.ext, &rows, query, args...); err != nil {
		return nil, err
	}

	requests := make([]domain.SlotRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, row.toDomain())
	}
	return requests, nil
}

// GetRequest retrieves a slot request by ID
func (r *Repository) GetRequest(ctx context.Context, id string) (*domain.SlotRequest, error) {
	return r.getRequest(ctx, `SELECT * FROM demandes_boutiques WHERE id = $1`, id)
}

// GetRequestForUpdate retrieves a slot request by ID with a row lock,
// serializing concurrent transitions on the same request.
func (r *Repository) GetRequestForUpdate(ctx context.Context, id string) (*domain.SlotRequest, error) {
	return r.getRequest(ctx, `SELECT * FROM demandes_boutiques WHERE id = $1 FOR UPDATE`, id)
}

func (r *Repository) getRequest(ctx context.Context, query, id string) (*domain.SlotRequest, error) {
	var row requestRow
	err := sqlx.GetContext(ctx, r.ext, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, workflow.ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}

	req := row.toDomain()
	return &req, nil
}

// CreateRequest creates a new slot request
func (r *Repository) CreateRequest(ctx context.Context, req *domain.SlotRequest) error {
	_, err := r.ext.ExecContext(ctx,
		`INSERT INTO demandes_boutiques (id, user_id, nom, description, categorie_id, logo,
		                                 emplacement_souhaite_id, date_debut_souhaitee, date_fin_souhaitee,
		                                 contact_nom, contact_prenom, contact_email, contact_telephone,
		                                 statut, motif_refus, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		req.ID, req.UserID, req.Nom, req.Description, nullString(req.CategorieID), req.Logo,
		req.EmplacementSouhaiteID, timePtrNull(req.DateDebutSouhaitee), timePtrNull(req.DateFinSouhaitee),
		req.ContactNom, req.ContactPrenom, req.ContactEmail, req.ContactTelephone,
		string(req.Statut), nullString(req.MotifRefus), req.CreatedAt, req.UpdatedAt)
	return err
}

// UpdateRequestStatus updates a request's status and rejection motif
func (r *Repository) UpdateRequestStatus(ctx context.Context, id string, statut domain.RequestStatus, motif string) error {
	res, err := r.ext.ExecContext(ctx,
		`UPDATE demandes_boutiques
		 SET statut = $1, motif_refus = $2, updated_at = now()
		 WHERE id = $3`,
		string(statut), nullString(motif), id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return workflow.ErrRequestNotFound
	}
	return nil
}

// ── Tenancies ───────────────────────────────────────────────

// CreateTenancy creates a new tenancy
func (r *Repository) CreateTenancy(ctx context.Context, tenancy *domain.Tenancy) error {
	_, err := r.ext.ExecContext(ctx,
		`INSERT INTO locations_emplacements (id, demande_id, boutique_id, emplacement_id, user_id,
		                                     date_debut, date_fin, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tenancy.ID, tenancy.DemandeID, tenancy.BoutiqueID, tenancy.EmplacementID, tenancy.UserID,
		tenancy.DateDebut, timePtrNull(tenancy.DateFin), tenancy.CreatedAt, tenancy.UpdatedAt)
	return err
}

// ListActiveTenanciesByFloor retrieves the tenancies covering `at` for
// slots on the given floor.
func (r *Repository) ListActiveTenanciesByFloor(ctx context.Context, etageID string, at time.Time) ([]domain.Tenancy, error) {
	var rows []tenancyRow
	err := sqlx.SelectContext(ctx, r.ext, &rows,
		`SELECT l.* FROM locations_emplacements l
		 JOIN emplacements e ON e.id = l.emplacement_id
		 WHERE e.etage_id = $1
		   AND l.date_debut <= $2
		   AND (l.date_fin IS NULL OR l.date_fin >= $2)
		 ORDER BY l.date_debut ASC`,
		etageID, at)
	if err != nil {
		return nil, err
	}

	tenancies := make([]domain.Tenancy, 0, len(rows))
	for _, row := range rows {
		tenancies = append(tenancies, row.toDomain())
	}
	return tenancies, nil
}
