// Package workflow enforces the legal state transitions of a slot
// request (submission, admin acceptance, admin rejection) and the side
// effects of each transition. Accepted and rejected are terminal; the
// acceptance side effects (shop creation, tenancy creation, slot
// occupancy) are applied as a single all-or-nothing unit.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mallmap-api-go/internal/api/middleware"
	"mallmap-api-go/internal/domain"
	"mallmap-api-go/internal/redisclient"
)

// Workflow implements Interface on top of a Store, with an optional
// Redis client for the best-effort accept lock and slot-cache
// invalidation.
type Workflow struct {
	store  Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// New creates a new workflow instance. redis may be nil; the workflow
// then skips locking and cache invalidation.
func New(store Store, redis *redisclient.Client, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		store:  store,
		redis:  redis,
		logger: logger,
	}
}

// Submit creates a request in pending status. The slot's free status is
// checked best-effort only: two users can race past this check for the
// same slot, and the conflict is resolved at acceptance time where only
// one conditional occupy can succeed.
func (w *Workflow) Submit(ctx context.Context, userID string, payload domain.CreateRequestPayload) (*domain.SlotRequest, error) {
	now := time.Now().UTC()
	req := &domain.SlotRequest{
		ID:                    uuid.NewString(),
		UserID:                userID,
		Nom:                   payload.Nom,
		Description:           payload.Description,
		CategorieID:           payload.CategorieID,
		Logo:                  payload.Logo,
		EmplacementSouhaiteID: payload.EmplacementSouhaiteID,
		DateDebutSouhaitee:    payload.DateDebutSouhaitee,
		DateFinSouhaitee:      payload.DateFinSouhaitee,
		ContactNom:            payload.ContactNom,
		ContactPrenom:         payload.ContactPrenom,
		ContactEmail:          payload.ContactEmail,
		ContactTelephone:      payload.ContactTelephone,
		Statut:                domain.RequestStatusPending,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	slot, err := w.store.GetSlot(ctx, req.EmplacementSouhaiteID)
	if err != nil {
		return nil, err
	}
	if slot.Statut != domain.SlotStatusFree {
		return nil, ErrSlotUnavailable
	}

	if err := w.store.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	w.logger.Info("slot request submitted",
		zap.String("request_id", req.ID),
		zap.String("user_id", userID),
		zap.String("emplacement_id", req.EmplacementSouhaiteID))

	middleware.RequestSubmissionsTotal.Inc()
	return req, nil
}

// Accept transitions a pending request to accepted. Effects, in one
// transaction: shop created from the embedded descriptor (validated),
// tenancy created linking shop and slot, slot flipped to occupied. The
// conditional occupy fails with ErrSlotUnavailable when the slot was
// taken since submission; nothing is persisted in that case.
func (w *Workflow) Accept(ctx context.Context, requestID string) (*domain.SlotRequest, error) {
	req, err := w.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Statut != domain.RequestStatusPending {
		middleware.RequestTransitionsTotal.WithLabelValues("acceptee", "not_pending").Inc()
		return nil, ErrNotPending
	}

	// Best-effort accept lock on the target slot. The conditional occupy
	// below is the real guard; a Redis failure only loses the fast path.
	if w.redis != nil {
		lockKey := redisclient.SlotLockKey(req.EmplacementSouhaiteID)
		token, acquired, lockErr := acquireSlotLock(ctx, w.redis.GetRedis(), lockKey)
		if lockErr != nil {
			w.logger.Warn("failed to acquire slot lock, proceeding without it",
				zap.Error(lockErr), zap.String("emplacement_id", req.EmplacementSouhaiteID))
		} else if !acquired {
			middleware.RequestTransitionsTotal.WithLabelValues("acceptee", "slot_unavailable").Inc()
			return nil, ErrSlotUnavailable
		} else {
			defer func() {
				if err := releaseSlotLock(ctx, w.redis.GetRedis(), lockKey, token); err != nil {
					w.logger.Warn("failed to release slot lock", zap.Error(err))
				}
			}()
		}
	}

	now := time.Now().UTC()
	var accepted *domain.SlotRequest
	var etageID string

	err = w.store.WithTx(ctx, func(tx Store) error {
		current, err := tx.GetRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if current.Statut != domain.RequestStatusPending {
			return ErrNotPending
		}

		slot, err := tx.GetSlot(ctx, current.EmplacementSouhaiteID)
		if err != nil {
			return err
		}
		etageID = slot.EtageID

		shop := &domain.Shop{
			ID:          uuid.NewString(),
			UserID:      current.UserID,
			Nom:         current.Nom,
			Description: current.Description,
			CategorieID: current.CategorieID,
			Logo:        current.Logo,
			Statut:      domain.ShopStatusValidated,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.CreateShop(ctx, shop); err != nil {
			return fmt.Errorf("failed to create shop: %w", err)
		}

		occupied, err := tx.OccupySlot(ctx, slot.ID, shop.ID)
		if err != nil {
			return fmt.Errorf("failed to occupy slot: %w", err)
		}
		if !occupied {
			return ErrSlotUnavailable
		}

		dateDebut := now
		if current.DateDebutSouhaitee != nil {
			dateDebut = *current.DateDebutSouhaitee
		}
		tenancy := &domain.Tenancy{
			ID:            uuid.NewString(),
			DemandeID:     current.ID,
			BoutiqueID:    shop.ID,
			EmplacementID: slot.ID,
			UserID:        current.UserID,
			DateDebut:     dateDebut,
			DateFin:       current.DateFinSouhaitee,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.CreateTenancy(ctx, tenancy); err != nil {
			return fmt.Errorf("failed to create tenancy: %w", err)
		}

		if err := tx.UpdateRequestStatus(ctx, current.ID, domain.RequestStatusAccepted, ""); err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}

		updated := *current
		updated.Statut = domain.RequestStatusAccepted
		updated.UpdatedAt = now
		accepted = &updated
		return nil
	})
	if err != nil {
		if err == ErrSlotUnavailable {
			middleware.RequestTransitionsTotal.WithLabelValues("acceptee", "slot_unavailable").Inc()
		}
		return nil, err
	}

	w.invalidateFloorCache(ctx, etageID)

	w.logger.Info("slot request accepted",
		zap.String("request_id", requestID),
		zap.String("emplacement_id", req.EmplacementSouhaiteID),
		zap.String("etage_id", etageID))

	middleware.RequestTransitionsTotal.WithLabelValues("acceptee", "success").Inc()
	return accepted, nil
}

// Reject transitions a pending request to rejected with the given
// motif. The motif is required; no other entity is mutated.
func (w *Workflow) Reject(ctx context.Context, requestID, motif string) (*domain.SlotRequest, error) {
	motif = strings.TrimSpace(motif)
	if motif == "" {
		return nil, &ValidationError{Reason: "motifRefus is required"}
	}

	now := time.Now().UTC()
	var rejected *domain.SlotRequest

	err := w.store.WithTx(ctx, func(tx Store) error {
		current, err := tx.GetRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if current.Statut != domain.RequestStatusPending {
			return ErrNotPending
		}

		if err := tx.UpdateRequestStatus(ctx, current.ID, domain.RequestStatusRejected, motif); err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}

		updated := *current
		updated.Statut = domain.RequestStatusRejected
		updated.MotifRefus = motif
		updated.UpdatedAt = now
		rejected = &updated
		return nil
	})
	if err != nil {
		if err == ErrNotPending {
			middleware.RequestTransitionsTotal.WithLabelValues("refusee", "not_pending").Inc()
		}
		return nil, err
	}

	w.logger.Info("slot request rejected",
		zap.String("request_id", requestID),
		zap.String("motif", motif))

	middleware.RequestTransitionsTotal.WithLabelValues("refusee", "success").Inc()
	return rejected, nil
}

// invalidateFloorCache drops the cached slot list for a floor after an
// occupancy change so the map reflects the new state immediately.
func (w *Workflow) invalidateFloorCache(ctx context.Context, etageID string) {
	if w.redis == nil || etageID == "" {
		return
	}
	key := redisclient.FloorSlotsKey(etageID)
	if err := w.redis.GetRedis().Del(ctx, key).Err(); err != nil {
		w.logger.Warn("failed to invalidate floor slot cache",
			zap.Error(err), zap.String("etage_id", etageID))
	}
}
