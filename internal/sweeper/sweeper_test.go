package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mallmap-api-go/internal/domain"
)

type fakeStore struct {
	freed []domain.Slot
	err   error
	calls int
	lastAt time.Time
}

func (f *fakeStore) FreeExpiredSlots(ctx context.Context, at time.Time) ([]domain.Slot, error) {
	f.calls++
	f.lastAt = at
	return f.freed, f.err
}

func TestSweepFreesExpiredSlots(t *testing.T) {
	store := &fakeStore{freed: []domain.Slot{
		{ID: "slot-1", EtageID: "etage-1", Numero: "A-01"},
		{ID: "slot-2", EtageID: "etage-2", Numero: "B-07"},
	}}
	s := New(store, nil, time.Minute, nil)

	s.Sweep(context.Background())

	assert.Equal(t, 1, store.calls)
	assert.WithinDuration(t, time.Now().UTC(), store.lastAt, 5*time.Second)
}

func TestSweepToleratesStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	s := New(store, nil, time.Minute, nil)

	// Must not panic; the next tick retries.
	s.Sweep(context.Background())
	s.Sweep(context.Background())

	assert.Equal(t, 2, store.calls)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	store := &fakeStore{}
	s := New(store, nil, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancel")
	}
	assert.GreaterOrEqual(t, store.calls, 1)
}
