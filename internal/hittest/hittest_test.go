package hittest

import (
	"testing"

	"github.com/deckforge/deckforge/backend-go/internal/document"
	"github.com/deckforge/deckforge/backend-go/internal/geometry"
)

var (
	v1     = geometry.Viewport{Zoom: 1}
	canvas = geometry.Size{Width: 960, Height: 540}
)

func shape(id string, x, y, w, h float64, z int) document.Element {
	return document.Element{
		ID:       id,
		Type:     document.ElementShape,
		Position: document.Position{X: x, Y: y},
		Size:     document.Dimensions{Width: w, Height: h},
		ZIndex:   z,
		Opacity:  1,
		Shape:    &document.ShapeProps{Kind: document.ShapeRectangle, Fill: "#333"},
	}
}

func TestElementAtTopmostWins(t *testing.T) {
	s := &document.Slide{Elements: []document.Element{
		shape("el_bottom", 100, 100, 200, 200, 0),
		shape("el_top", 150, 150, 200, 200, 1),
	}}

	// Overlap region: both contain (200,200); z-index 1 must win.
	got := ElementAt(s, v1, canvas, geometry.Point{X: 200, Y: 200})
	if got == nil || got.ID != "el_top" {
		t.Fatalf("got %v, want el_top", got)
	}

	// Outside the top element, the bottom one is hit.
	got = ElementAt(s, v1, canvas, geometry.Point{X: 110, Y: 110})
	if got == nil || got.ID != "el_bottom" {
		t.Fatalf("got %v, want el_bottom", got)
	}
}

func TestElementAtLockedExcluded(t *testing.T) {
	locked := shape("el_locked", 100, 100, 300, 300, 5)
	locked.Locked = true
	s := &document.Slide{Elements: []document.Element{
		shape("el_under", 100, 100, 300, 300, 0),
		locked,
	}}

	got := ElementAt(s, v1, canvas, geometry.Point{X: 200, Y: 200})
	if got == nil || got.ID != "el_under" {
		t.Fatalf("locked element must not be hit; got %v", got)
	}

	// Only the locked element present: miss.
	s = &document.Slide{Elements: []document.Element{locked}}
	if got := ElementAt(s, v1, canvas, geometry.Point{X: 200, Y: 200}); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestElementAtEmptySlide(t *testing.T) {
	if got := ElementAt(&document.Slide{}, v1, canvas, geometry.Point{X: 1, Y: 1}); got != nil {
		t.Fatalf("empty slide should miss, got %v", got)
	}
}

func TestElementAtRespectsViewport(t *testing.T) {
	s := &document.Slide{Elements: []document.Element{
		shape("el_a", 100, 100, 50, 50, 0),
	}}

	// Zoomed 2x about the canvas center: document (125,125) projects to
	// screen (480 + (125-480)*2, 270 + (125-270)*2) = (-230, -20)... so
	// instead query the projected location of the element center.
	v := geometry.Viewport{Zoom: 2, PanX: 300, PanY: 150}
	screen := geometry.ToScreen(v, canvas, geometry.Point{X: 125, Y: 125})
	got := ElementAt(s, v, canvas, screen)
	if got == nil || got.ID != "el_a" {
		t.Fatalf("got %v, want el_a", got)
	}
}

func TestElementAtRotated(t *testing.T) {
	el := shape("el_rot", 0, 0, 100, 20, 0)
	el.Rotation = 90
	s := &document.Slide{Elements: []document.Element{el}}

	// After rotating the flat element 90 degrees about (50,10), the point
	// (55,45) lies inside while the original corner area does not.
	if got := ElementAt(s, v1, canvas, geometry.Point{X: 55, Y: 45}); got == nil {
		t.Error("point inside rotated element missed")
	}
	if got := ElementAt(s, v1, canvas, geometry.Point{X: 95, Y: 15}); got != nil {
		t.Error("point outside rotated element hit")
	}
}

func TestHandleAt(t *testing.T) {
	s := &document.Slide{Elements: []document.Element{
		shape("el_a", 100, 100, 50, 50, 0),
		shape("el_b", 300, 300, 50, 50, 1),
	}}

	if got := HandleAt(s, nil, v1, canvas, geometry.Point{X: 100, Y: 100}); got != geometry.HandleNone {
		t.Errorf("empty selection: got %v, want none", got)
	}

	got := HandleAt(s, []string{"el_a", "el_b"}, v1, canvas, geometry.Point{X: 150, Y: 150})
	if got != geometry.HandleBottomRight {
		t.Errorf("got %v, want bottom-right", got)
	}

	// Handles of the secondary selected element are ignored.
	got = HandleAt(s, []string{"el_a", "el_b"}, v1, canvas, geometry.Point{X: 300, Y: 300})
	if got != geometry.HandleNone {
		t.Errorf("secondary element handle: got %v, want none", got)
	}
}
