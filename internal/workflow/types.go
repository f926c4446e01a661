package workflow

import (
	"context"
	"errors"

	"mallmap-api-go/internal/domain"
)

// Workflow errors
var (
	ErrRequestNotFound = errors.New("request not found")
	ErrNotPending      = errors.New("request is not pending")
	ErrSlotNotFound    = errors.New("slot not found")
	ErrSlotUnavailable = errors.New("slot is no longer free")
)

// ValidationError reports a rejected submission or transition payload.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Interface defines the slot-request workflow operations
type Interface interface {
	// Submit creates a pending request for a free slot on behalf of userID.
	Submit(ctx context.Context, userID string, payload domain.CreateRequestPayload) (*domain.SlotRequest, error)

	// Accept transitions a pending request to accepted: creates the shop
	// from the embedded descriptor, creates the tenancy and occupies the
	// slot, all-or-nothing.
	Accept(ctx context.Context, requestID string) (*domain.SlotRequest, error)

	// Reject transitions a pending request to rejected with a required,
	// non-empty motif. Nothing else is mutated.
	Reject(ctx context.Context, requestID, motif string) (*domain.SlotRequest, error)
}

// Store is the persistence contract the workflow drives. Implementations
// must return the sentinel errors above for missing rows. WithTx runs fn
// against a transactional view of the store; any error rolls the whole
// unit back.
type Store interface {
	WithTx(ctx context.Context, fn func(Store) error) error

	GetRequest(ctx context.Context, id string) (*domain.SlotRequest, error)
	GetRequestForUpdate(ctx context.Context, id string) (*domain.SlotRequest, error)
	CreateRequest(ctx context.Context, req *domain.SlotRequest) error
	UpdateRequestStatus(ctx context.Context, id string, statut domain.RequestStatus, motif string) error

	GetSlot(ctx context.Context, id string) (*domain.Slot, error)
	// OccupySlot flips the slot to occupied and sets its shop reference,
	// but only if the slot is still free. Returns false when the
	// conditional update matched no row.
	OccupySlot(ctx context.Context, slotID, boutiqueID string) (bool, error)

	CreateShop(ctx context.Context, shop *domain.Shop) error
	CreateTenancy(ctx context.Context, tenancy *domain.Tenancy) error
}
