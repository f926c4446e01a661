package maprender

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mallmap-api-go/internal/domain"
)

func testSlots() []domain.Slot {
	return []domain.Slot{
		{
			ID:          "slot-a",
			Numero:      "A-01",
			Coordonnees: domain.Rect{X: 100, Y: 100, Width: 200, Height: 150},
			Statut:      domain.SlotStatusOccupied,
			BoutiqueID:  "shop-1",
		},
		{
			ID:          "slot-b",
			Numero:      "B-02",
			Coordonnees: domain.Rect{X: 400, Y: 100, Width: 200, Height: 150},
			Statut:      domain.SlotStatusFree,
		},
	}
}

func TestHitTest(t *testing.T) {
	r := New()
	r.SetSlots(testSlots())

	tests := []struct {
		name     string
		x, y     float64
		w, h     float64
		expected string
	}{
		{
			name: "inside occupied slot at native size",
			x:    200, y: 175, w: LogicalWidth, h: LogicalHeight,
			expected: "slot-a",
		},
		{
			name: "inside free slot at native size",
			x:    500, y: 175, w: LogicalWidth, h: LogicalHeight,
			expected: "slot-b",
		},
		{
			name: "outside every slot",
			x:    50, y: 50, w: LogicalWidth, h: LogicalHeight,
			expected: "",
		},
		{
			name: "half-size display scales pointer up",
			x:    100, y: 87.5, w: LogicalWidth / 2, h: LogicalHeight / 2,
			expected: "slot-a",
		},
		{
			name: "double-size display scales pointer down",
			x:    400, y: 350, w: LogicalWidth * 2, h: LogicalHeight * 2,
			expected: "slot-a",
		},
		{
			name: "slot edge is inside",
			x:    100, y: 100, w: LogicalWidth, h: LogicalHeight,
			expected: "slot-a",
		},
		{
			name: "just past the right edge misses",
			x:    300.5, y: 175, w: LogicalWidth, h: LogicalHeight,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := r.HitTest(tt.x, tt.y, tt.w, tt.h)
			if tt.expected == "" {
				assert.Nil(t, hit)
			} else {
				require.NotNil(t, hit)
				assert.Equal(t, tt.expected, hit.ID)
			}
		})
	}
}

func TestHitTestFirstDeclaredWins(t *testing.T) {
	r := New()
	r.SetSlots([]domain.Slot{
		{ID: "first", Coordonnees: domain.Rect{X: 0, Y: 0, Width: 100, Height: 100}},
		{ID: "second", Coordonnees: domain.Rect{X: 50, Y: 50, Width: 100, Height: 100}},
	})

	hit := r.HitTest(75, 75, LogicalWidth, LogicalHeight)
	require.NotNil(t, hit)
	assert.Equal(t, "first", hit.ID)
}

func TestHitTestReturnsCopy(t *testing.T) {
	r := New()
	r.SetSlots(testSlots())

	hit := r.HitTest(200, 175, LogicalWidth, LogicalHeight)
	require.NotNil(t, hit)
	hit.Numero = "mutated"

	again := r.HitTest(200, 175, LogicalWidth, LogicalHeight)
	require.NotNil(t, again)
	assert.Equal(t, "A-01", again.Numero)
}

func TestSetSlotsCopiesInput(t *testing.T) {
	slots := testSlots()
	r := New()
	r.SetSlots(slots)

	slots[0].Coordonnees = domain.Rect{X: 900, Y: 700, Width: 10, Height: 10}

	hit := r.HitTest(200, 175, LogicalWidth, LogicalHeight)
	require.NotNil(t, hit)
	assert.Equal(t, "slot-a", hit.ID)
}

func TestRenderDeterministic(t *testing.T) {
	r := New()
	r.SetSlots(testSlots())

	first := r.NewSurface()
	r.Render(first, "")
	second := r.NewSurface()
	r.Render(second, "")

	assert.True(t, bytes.Equal(first.Pix, second.Pix))
}

func TestRenderHoverChangesPixelsOnly(t *testing.T) {
	r := New()
	slots := testSlots()
	r.SetSlots(slots)

	plain := r.NewSurface()
	r.Render(plain, "")
	hovered := r.NewSurface()
	r.Render(hovered, "slot-b")

	// Hover restyles the hovered slot.
	assert.False(t, bytes.Equal(plain.Pix, hovered.Pix))

	// Rendering with hover does not mutate the snapshot: a subsequent
	// plain render matches the first one.
	replain := r.NewSurface()
	r.Render(replain, "")
	assert.True(t, bytes.Equal(plain.Pix, replain.Pix))
}

func TestRenderEmptySlotsIsBackgroundOnly(t *testing.T) {
	r := New()
	r.SetSlots(nil)

	dst := r.NewSurface()
	r.Render(dst, "")

	for _, pt := range []image.Point{{0, 0}, {600, 400}, {1199, 799}} {
		assert.Equal(t, colorBackground, dst.RGBAAt(pt.X, pt.Y))
	}
}

func TestRenderPaintsOccupiedFill(t *testing.T) {
	r := New()
	r.SetSlots(testSlots())

	dst := r.NewSurface()
	r.Render(dst, "")

	// Center of the occupied slot carries the fill color (the label sits
	// there too, so sample a point off-center but inside the rect).
	assert.Equal(t, colorOccupied, dst.RGBAAt(120, 120))

	// Center of the free slot stays on the surface background.
	assert.Equal(t, colorBackground, dst.RGBAAt(420, 120))
}

func TestRenderWithBackgroundImage(t *testing.T) {
	r := New()
	r.SetSlots(nil)

	// A solid black plan image at 0.3 alpha darkens the background.
	plan := image.NewRGBA(image.Rect(0, 0, 60, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 60; x++ {
			plan.SetRGBA(x, y, color.RGBA{A: 0xFF})
		}
	}
	r.SetBackground(plan)

	dst := r.NewSurface()
	r.Render(dst, "")

	got := dst.RGBAAt(600, 400)
	assert.Less(t, got.R, colorBackground.R)
	assert.Less(t, got.G, colorBackground.G)
	assert.Less(t, got.B, colorBackground.B)

	// Clearing the background restores the plain render.
	r.SetBackground(nil)
	plain := r.NewSurface()
	r.Render(plain, "")
	assert.Equal(t, colorBackground, plain.RGBAAt(600, 400))
}

func TestNewSurfaceSize(t *testing.T) {
	r := New()
	surface := r.NewSurface()
	assert.Equal(t, LogicalWidth, surface.Bounds().Dx())
	assert.Equal(t, LogicalHeight, surface.Bounds().Dy())
}
