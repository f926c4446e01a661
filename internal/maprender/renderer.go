// Package maprender owns a floor's slot geometry and occupancy data,
// draws it onto a raster surface and resolves pointer coordinates back
// to slots. It is a leaf component: pure functions of the current slot
// snapshot, safe to call from any handler.
package maprender

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"mallmap-api-go/internal/domain"
)

// Logical surface size in floor-plan pixel space. Slot coordinates are
// authored against this space; display-size pointer coordinates are
// normalized to it before hit-testing.
const (
	LogicalWidth  = 1200
	LogicalHeight = 800
)

// Background plan image opacity (canvas used globalAlpha 0.3).
const planImageAlpha = 76 // 0.3 * 255

// Palette. Fixed colors stand in for the theme variables the front-end
// resolves at runtime.
var (
	colorBackground    = color.RGBA{R: 0xF4, G: 0xF5, B: 0xF7, A: 0xFF}
	colorOccupied      = color.RGBA{R: 0x4F, G: 0x46, B: 0xE5, A: 0xFF}
	colorOccupiedHover = color.RGBA{R: 0x43, G: 0x38, B: 0xCA, A: 0xFF}
	colorOccupiedEdge  = color.RGBA{R: 0x37, G: 0x30, B: 0xA3, A: 0xFF}
	colorFreeEdge      = color.RGBA{R: 0xCB, G: 0xD5, B: 0xE1, A: 0xFF}
	colorFreeEdgeHover = color.RGBA{R: 0x94, G: 0xA3, B: 0xB8, A: 0xFF}
	colorFreeFillHover = color.RGBA{R: 0xE5, G: 0xE7, B: 0xEB, A: 0xFF}
	colorLabelLight    = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorLabelMuted    = color.RGBA{R: 0x64, G: 0x74, B: 0x8B, A: 0xFF}
)

const freeLabel = "Vide"

// Renderer draws a floor's slots and resolves pointer hits. The slot
// set is an immutable snapshot replaced wholesale via SetSlots; Render
// and HitTest never mutate it.
type Renderer struct {
	slots      []domain.Slot
	background image.Image
}

// New creates an empty renderer.
func New() *Renderer {
	return &Renderer{}
}

// SetSlots replaces the active slot set (floor switch or data refresh).
// The slice is copied so later caller mutations cannot leak in.
// Geometry well-formedness (positive width/height) is a caller
// contract, not validated here.
func (r *Renderer) SetSlots(slots []domain.Slot) {
	snapshot := make([]domain.Slot, len(slots))
	copy(snapshot, slots)
	r.slots = snapshot
}

// SetBackground sets the floor plan image drawn behind the slots.
// Passing nil clears it; a failed image load simply never reaches this
// call, which keeps load failures non-fatal.
func (r *Renderer) SetBackground(img image.Image) {
	r.background = img
}

// NewSurface allocates a raster surface of the logical size.
func (r *Renderer) NewSurface() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, LogicalWidth, LogicalHeight))
}

// Render clears the surface, paints the background (plan image at
// reduced opacity when present) and then every slot according to its
// occupancy and hover state. It mutates only the surface.
func (r *Renderer) Render(dst *image.RGBA, hoveredID string) {
	bounds := dst.Bounds()
	draw.Draw(dst, bounds, image.NewUniform(colorBackground), image.Point{}, draw.Src)

	if r.background != nil {
		scaled := image.NewRGBA(bounds)
		xdraw.ApproxBiLinear.Scale(scaled, bounds, r.background, r.background.Bounds(), xdraw.Src, nil)
		mask := image.NewUniform(color.Alpha{A: planImageAlpha})
		draw.DrawMask(dst, bounds, scaled, image.Point{}, mask, image.Point{}, draw.Over)
	}

	for _, slot := range r.slots {
		r.renderSlot(dst, slot, slot.ID == hoveredID)
	}
}

// HitTest resolves a pointer coordinate to a slot. displayW/displayH
// are the surface's displayed size; pointer coordinates are scaled to
// logical space first so the result is invariant under uniform display
// scaling. Returns a copy of the first slot (declaration order) whose
// bounding box contains the point, or nil when the point is outside all
// slots. Slots are not expected to overlap; when they do, the earliest
// declared wins.
func (r *Renderer) HitTest(pointerX, pointerY, displayW, displayH float64) *domain.Slot {
	x, y := pointerX, pointerY
	if displayW > 0 && displayH > 0 {
		x = pointerX * LogicalWidth / displayW
		y = pointerY * LogicalHeight / displayH
	}

	for _, slot := range r.slots {
		if slot.Coordonnees.Contains(x, y) {
			hit := slot
			return &hit
		}
	}
	return nil
}

func (r *Renderer) renderSlot(dst *image.RGBA, slot domain.Slot, hovered bool) {
	rect := toPixelRect(slot.Coordonnees)

	if slot.Statut == domain.SlotStatusOccupied {
		fill := colorOccupied
		if hovered {
			fill = colorOccupiedHover
		}
		fillRect(dst, rect, fill)
		strokeRect(dst, rect, 2, colorOccupiedEdge)
		drawCenteredLabel(dst, rect, slot.Numero, colorLabelLight)
		return
	}

	if hovered {
		fillRect(dst, rect, colorFreeFillHover)
	}
	edge := colorFreeEdge
	width := 2
	if hovered {
		edge = colorFreeEdgeHover
		width = 3
	}
	dashedRect(dst, rect, width, 5, 5, edge)
	drawCenteredLabel(dst, rect, freeLabel, colorLabelMuted)
}

func toPixelRect(r domain.Rect) image.Rectangle {
	x0 := int(math.Round(r.X))
	y0 := int(math.Round(r.Y))
	x1 := int(math.Round(r.X + r.Width))
	y1 := int(math.Round(r.Y + r.Height))
	return image.Rect(x0, y0, x1, y1)
}

func fillRect(dst *image.RGBA, rect image.Rectangle, c color.RGBA) {
	draw.Draw(dst, rect.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// strokeRect draws a solid border of the given width just inside rect.
func strokeRect(dst *image.RGBA, rect image.Rectangle, width int, c color.RGBA) {
	top := image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+width)
	bottom := image.Rect(rect.Min.X, rect.Max.Y-width, rect.Max.X, rect.Max.Y)
	left := image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+width, rect.Max.Y)
	right := image.Rect(rect.Max.X-width, rect.Min.Y, rect.Max.X, rect.Max.Y)
	for _, edge := range []image.Rectangle{top, bottom, left, right} {
		fillRect(dst, edge, c)
	}
}

// dashedRect draws a dashed border (dash/gap in pixels) just inside rect.
func dashedRect(dst *image.RGBA, rect image.Rectangle, width, dash, gap int, c color.RGBA) {
	step := dash + gap

	// Horizontal edges
	for x := rect.Min.X; x < rect.Max.X; x += step {
		end := x + dash
		if end > rect.Max.X {
			end = rect.Max.X
		}
		fillRect(dst, image.Rect(x, rect.Min.Y, end, rect.Min.Y+width), c)
		fillRect(dst, image.Rect(x, rect.Max.Y-width, end, rect.Max.Y), c)
	}

	// Vertical edges
	for y := rect.Min.Y; y < rect.Max.Y; y += step {
		end := y + dash
		if end > rect.Max.Y {
			end = rect.Max.Y
		}
		fillRect(dst, image.Rect(rect.Min.X, y, rect.Min.X+width, end), c)
		fillRect(dst, image.Rect(rect.Max.X-width, y, rect.Max.X, end), c)
	}
}

func drawCenteredLabel(dst *image.RGBA, rect image.Rectangle, text string, c color.RGBA) {
	if text == "" {
		return
	}

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}

	textWidth := drawer.MeasureString(text)
	cx := fixed.I(rect.Min.X+rect.Dx()/2) - textWidth/2
	// Baseline sits slightly below vertical center for the 7x13 face.
	cy := fixed.I(rect.Min.Y + rect.Dy()/2 + face.Ascent/2 - 2)

	drawer.Dot = fixed.Point26_6{X: cx, Y: cy}
	drawer.DrawString(text)
}
