package handlers

import (
	"context"
	"time"

	"mallmap-api-go/internal/domain"
)

// Store is the directory read/write surface the handlers need,
// satisfied by *postgres.Repository. Transitions on slot requests go
// through workflow.Interface instead.
type Store interface {
	ListFloors(ctx context.Context) ([]domain.Floor, error)
	GetFloor(ctx context.Context, id string) (*domain.Floor, error)
	CreateFloor(ctx context.Context, floor *domain.Floor) error

	ListCategories(ctx context.Context) ([]domain.Category, error)

	ListSlots(ctx context.Context) ([]domain.Slot, error)
	ListSlotsByFloor(ctx context.Context, etageID string) ([]domain.Slot, error)
	ListAvailableSlots(ctx context.Context) ([]domain.Slot, error)
	GetSlot(ctx context.Context, id string) (*domain.Slot, error)
	CreateSlot(ctx context.Context, slot *domain.Slot) error

	ListShops(ctx context.Context) ([]domain.Shop, error)
	ListShopsByUser(ctx context.Context, userID string) ([]domain.Shop, error)
	GetShop(ctx context.Context, id string) (*domain.Shop, error)
	CreateShop(ctx context.Context, shop *domain.Shop) error

	ListRequests(ctx context.Context) ([]domain.SlotRequest, error)
	ListRequestsByUser(ctx context.Context, userID string) ([]domain.SlotRequest, error)

	ListActiveTenanciesByFloor(ctx context.Context, etageID string, at time.Time) ([]domain.Tenancy, error)
}
