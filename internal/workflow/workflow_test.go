package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mallmap-api-go/internal/domain"
)

// fakeStore is an in-memory Store. WithTx snapshots the state and
// restores it when fn fails, mirroring a rolled-back transaction.
type fakeStore struct {
	requests  map[string]domain.SlotRequest
	slots     map[string]domain.Slot
	shops     map[string]domain.Shop
	tenancies []domain.Tenancy
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		requests: make(map[string]domain.SlotRequest),
		slots:    make(map[string]domain.Slot),
		shops:    make(map[string]domain.Shop),
	}
}

func (s *fakeStore) snapshot() *fakeStore {
	cp := newFakeStore()
	for k, v := range s.requests {
		cp.requests[k] = v
	}
	for k, v := range s.slots {
		cp.slots[k] = v
	}
	for k, v := range s.shops {
		cp.shops[k] = v
	}
	cp.tenancies = append([]domain.Tenancy(nil), s.tenancies...)
	return cp
}

func (s *fakeStore) restore(from *fakeStore) {
	s.requests = from.requests
	s.slots = from.slots
	s.shops = from.shops
	s.tenancies = from.tenancies
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(Store) error) error {
	before := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(before)
		return err
	}
	return nil
}

func (s *fakeStore) GetRequest(ctx context.Context, id string) (*domain.SlotRequest, error) {
	req, ok := s.requests[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	return &req, nil
}

func (s *fakeStore) GetRequestForUpdate(ctx context.Context, id string) (*domain.SlotRequest, error) {
	return s.GetRequest(ctx, id)
}

func (s *fakeStore) CreateRequest(ctx context.Context, req *domain.SlotRequest) error {
	s.requests[req.ID] = *req
	return nil
}

func (s *fakeStore) UpdateRequestStatus(ctx context.Context, id string, statut domain.RequestStatus, motif string) error {
	req, ok := s.requests[id]
	if !ok {
		return ErrRequestNotFound
	}
	req.Statut = statut
	req.MotifRefus = motif
	s.requests[id] = req
	return nil
}

func (s *fakeStore) GetSlot(ctx context.Context, id string) (*domain.Slot, error) {
	slot, ok := s.slots[id]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return &slot, nil
}

func (s *fakeStore) OccupySlot(ctx context.Context, slotID, boutiqueID string) (bool, error) {
	slot, ok := s.slots[slotID]
	if !ok || slot.Statut != domain.SlotStatusFree {
		return false, nil
	}
	slot.Statut = domain.SlotStatusOccupied
	slot.BoutiqueID = boutiqueID
	s.slots[slotID] = slot
	return true, nil
}

func (s *fakeStore) CreateShop(ctx context.Context, shop *domain.Shop) error {
	s.shops[shop.ID] = *shop
	return nil
}

func (s *fakeStore) CreateTenancy(ctx context.Context, tenancy *domain.Tenancy) error {
	s.tenancies = append(s.tenancies, *tenancy)
	return nil
}

func seedSlot(store *fakeStore, id string, statut domain.SlotStatus) {
	store.slots[id] = domain.Slot{
		ID:          id,
		EtageID:     "etage-1",
		Numero:      "A-01",
		Coordonnees: domain.Rect{X: 10, Y: 10, Width: 100, Height: 80},
		Statut:      statut,
	}
}

func validPayload(slotID string) domain.CreateRequestPayload {
	return domain.CreateRequestPayload{
		Nom:                   "Café du Centre",
		Description:           "Torréfaction artisanale",
		CategorieID:           "cat-resto",
		EmplacementSouhaiteID: slotID,
		ContactNom:            "Martin",
		ContactPrenom:         "Claire",
		ContactEmail:          "claire@example.com",
		ContactTelephone:      "+33 6 12 34 56 78",
	}
}

func TestSubmit(t *testing.T) {
	store := newFakeStore()
	seedSlot(store, "slot-1", domain.SlotStatusFree)
	wf := New(store, nil, nil)

	req, err := wf.Submit(context.Background(), "user-1", validPayload("slot-1"))
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, "user-1", req.UserID)
	assert.Equal(t, domain.RequestStatusPending, req.Statut)

	stored, err := store.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusPending, stored.Statut)
}

func TestSubmitValidation(t *testing.T) {
	store := newFakeStore()
	seedSlot(store, "slot-1", domain.SlotStatusFree)
	wf := New(store, nil, nil)

	payload := validPayload("slot-1")
	payload.Nom = " "

	_, err := wf.Submit(context.Background(), "user-1", payload)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, store.requests)
}

func TestSubmitOccupiedSlot(t *testing.T) {
	store := newFakeStore()
	seedSlot(store, "slot-1", domain.SlotStatusOccupied)
	wf := New(store, nil, nil)

	_, err := wf.Submit(context.Background(), "user-1", validPayload("slot-1"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Empty(t, store.requests)
}

func TestSubmitUnknownSlot(t *testing.T) {
	store := newFakeStore()
	wf := New(store, nil, nil)

	_, err := wf.Submit(context.Background(), "user-1", validPayload("missing"))
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestAccept(t *testing.T) {
	store := newFakeStore()
	seedSlot(store, "slot-1", domain.SlotStatusFree)
	wf := New(store, nil, nil)
	ctx := context.Background()

	submitted, err := wf.Submit(ctx, "user-1", validPayload("slot-1"))
	require.NoError(t, err)

	accepted, err := wf.Accept(ctx, submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusAccepted, accepted.Statut)

	// Shop created from the embedded descriptor, validated.
	require.Len(t, store.shops, 1)
	var shop domain.Shop
	for _, sh := range store.shops {
		shop = sh
	}
	assert.Equal(t, "Café du Centre", shop.Nom)
	assert.Equal(t, "user-1", shop.UserID)
	assert.Equal(t, domain.ShopStatusValidated, shop.Statut)

	// Slot occupied by the new shop.
	slot := store.slots["slot-1"]
	assert.Equal(t, domain.SlotStatusOccupied, slot.Statut)
	assert.Equal(t, shop.ID, slot.BoutiqueID)

	// Tenancy links request, shop and slot.
	require.Len(t, store.tenancies, 1)
	tenancy := store.tenancies[0]
	assert.Equal(t, submitted.ID, tenancy.DemandeID)
	assert.Equal(t, shop.ID, tenancy.BoutiqueID)
	assert.Equal(t, "slot-1", tenancy.EmplacementID)
	assert.Nil(t, tenancy.DateFin)
}

func TestAcceptUsesDesiredDates(t *testing.T) {
	store := newFakeStore()
	seedSlot(store, "slot-1", domain.SlotStatusFree)
	wf := New(store, nil, nil)
	ctx := context.Background()

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	payload := validPayload("slot-1")
	payload.DateDebutSouhaitee = &start
	payload.DateFinSouhaitee = &end

	submitted, err := wf.Submit(ctx, "user-1", payload)
	require.NoError(t, err)

	_, err = wf.Accept(ctx, submitted.ID)
	require.NoError(t, err)

	require.Len(t, store.tenancies, 1)
	tenancy := store.tenancies[0]
	assert.True(t, tenancy.DateDebut.Equal(start))
	require.NotNil(t, tenancy.DateFin)
	assert.True(t, tenancy.DateFin.Equal(end))
}

func TestAcceptNotPending(t *testing.T) {
	store := newFakeStore()
	seedSlot(store, "slot-1", domain.SlotStatusFree)
	wf := New(store, nil, nil)
	ctx := context.Background()

	submitted, err := wf.Submit(ctx, "user-1", validPayload("slot-1"))
	require.NoError(t, err)
	_, err = wf.Accept(ctx, submitted.ID)
	require.NoError(t, err)

	// Terminal states refuse further transitions.
	_, err = wf.Accept(ctx, submitted.ID)
	assert.ErrorIs(t, err, ErrNotPending)
	_, err = wf.Reject(ctx, submitted.ID, "trop tard")
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestAcceptSlotTakenSinceSubmission(t *testing.T) {
	store := newFakeStore()
	seedSlot(store, "slot-1", domain.SlotStatusFree)
	wf := New(store, nil, nil)
	ctx := context.Background()

	first, err := wf.Submit(ctx, "user-1", validPayload("slot-1"))
	require.NoError(t, err)
	second, err := wf.Submit(ctx, "user-2", validPayload("slot-1"))
	require.NoError(t, err)

	_, err = wf.Accept(ctx, first.ID)
	require.NoError(t, err)

	// The losing acceptance persists nothing: the request stays pending,
	// no second shop or tenancy exists.
	_, err = wf.Accept(ctx, second.ID)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	stored, err := store.GetRequest(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusPending, stored.Statut)
	assert.Len(t, store.shops, 1)
	assert.Len(t, store.tenancies, 1)

	// The pending loser can still be rejected.
	rejected, err := wf.Reject(ctx, second.ID, "emplacement attribué à une autre boutique")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusRejected, rejected.Statut)
}

func TestAcceptUnknownRequest(t *testing.T) {
	store := newFakeStore()
	wf := New(store, nil, nil)

	_, err := wf.Accept(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestReject(t *testing.T) {
	store := newFakeStore()
	seedSlot(store, "slot-1", domain.SlotStatusFree)
	wf := New(store, nil, nil)
	ctx := context.Background()

	submitted, err := wf.Submit(ctx, "user-1", validPayload("slot-1"))
	require.NoError(t, err)

	rejected, err := wf.Reject(ctx, submitted.ID, "dossier incomplet")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusRejected, rejected.Statut)
	assert.Equal(t, "dossier incomplet", rejected.MotifRefus)

	// Rejection mutates nothing else.
	assert.Equal(t, domain.SlotStatusFree, store.slots["slot-1"].Statut)
	assert.Empty(t, store.shops)
	assert.Empty(t, store.tenancies)
}

func TestRejectRequiresMotif(t *testing.T) {
	store := newFakeStore()
	seedSlot(store, "slot-1", domain.SlotStatusFree)
	wf := New(store, nil, nil)
	ctx := context.Background()

	submitted, err := wf.Submit(ctx, "user-1", validPayload("slot-1"))
	require.NoError(t, err)

	for _, motif := range []string{"", "   "} {
		_, err := wf.Reject(ctx, submitted.ID, motif)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	}

	stored, err := store.GetRequest(ctx, submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusPending, stored.Statut)
}
