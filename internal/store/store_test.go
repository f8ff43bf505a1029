package store

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/deckforge/deckforge/backend-go/internal/document"
)

func newStore(t *testing.T) (*Memory, string) {
	t.Helper()
	pres := document.NewEmptyPresentation("pres_test", "slide_one", "Test deck")
	return NewMemory(pres), "slide_one"
}

func el(id string, x float64, z int) document.Element {
	return document.Element{
		ID:       id,
		Type:     document.ElementShape,
		Position: document.Position{X: x, Y: 100},
		Size:     document.Dimensions{Width: 50, Height: 50},
		ZIndex:   z,
		Opacity:  1,
		Shape:    &document.ShapeProps{Kind: document.ShapeRectangle, Fill: "#333"},
	}
}

func TestUpdateElement(t *testing.T) {
	mem, slideID := newStore(t)
	if err := mem.AddElement(slideID, el("el_a", 100, 0)); err != nil {
		t.Fatal(err)
	}

	if err := mem.UpdateElement(slideID, "el_a", document.MovePatch(200, 250)); err != nil {
		t.Fatal(err)
	}
	got := mem.Presentation().Slides[0].ElementByID("el_a").Position
	if got != (document.Position{X: 200, Y: 250}) {
		t.Errorf("position = %+v", got)
	}

	err := mem.UpdateElement(slideID, "el_missing", document.MovePatch(0, 0))
	if !errors.Is(err, ErrElementNotFound) {
		t.Errorf("err = %v, want ErrElementNotFound", err)
	}
	err = mem.UpdateElement("slide_missing", "el_a", document.MovePatch(0, 0))
	if !errors.Is(err, ErrSlideNotFound) {
		t.Errorf("err = %v, want ErrSlideNotFound", err)
	}
}

func TestUpdateElementsAtomic(t *testing.T) {
	mem, slideID := newStore(t)
	mem.AddElement(slideID, el("el_a", 100, 0))

	err := mem.UpdateElements(slideID, []document.ElementUpdate{
		{ID: "el_a", Changes: document.MovePatch(500, 500)},
		{ID: "el_missing", Changes: document.MovePatch(0, 0)},
	})
	if !errors.Is(err, ErrElementNotFound) {
		t.Fatalf("err = %v, want ErrElementNotFound", err)
	}

	// The failing batch must not have moved el_a.
	got := mem.Presentation().Slides[0].ElementByID("el_a").Position.X
	if got != 100 {
		t.Errorf("x = %v, want 100 after failed batch", got)
	}
}

func TestDeleteElementsIgnoresMissing(t *testing.T) {
	mem, slideID := newStore(t)
	mem.AddElement(slideID, el("el_a", 100, 0))
	mem.AddElement(slideID, el("el_b", 200, 1))

	if err := mem.DeleteElements(slideID, []string{"el_a", "el_gone"}); err != nil {
		t.Fatal(err)
	}
	s := mem.Presentation().Slides[0]
	if len(s.Elements) != 1 || s.Elements[0].ID != "el_b" {
		t.Errorf("remaining = %+v", s.Elements)
	}
}

func TestReorderElementDenseIndices(t *testing.T) {
	mem, slideID := newStore(t)
	mem.AddElement(slideID, el("el_a", 0, 3))
	mem.AddElement(slideID, el("el_b", 0, 7))
	mem.AddElement(slideID, el("el_c", 0, 9))

	// Bring the topmost element to the bottom.
	if err := mem.ReorderElement(slideID, "el_c", 0); err != nil {
		t.Fatal(err)
	}

	s := mem.Presentation().Slides[0]
	zs := map[string]int{}
	for _, e := range s.Elements {
		zs[e.ID] = e.ZIndex
	}
	want := map[string]int{"el_c": 0, "el_a": 1, "el_b": 2}
	if diff := cmp.Diff(want, zs); diff != "" {
		t.Errorf("z indices (-want +got):\n%s", diff)
	}
}

func TestSlideEditorBindsOneSlide(t *testing.T) {
	mem, slideID := newStore(t)
	ed := mem.Editor(slideID)

	if err := ed.AddElement(el("el_a", 100, 0)); err != nil {
		t.Fatal(err)
	}
	if ed.Slide() == nil || len(ed.Slide().Elements) != 1 {
		t.Fatalf("editor slide = %+v", ed.Slide())
	}
	if err := ed.UpdateElement("el_a", document.RotationPatch(45)); err != nil {
		t.Fatal(err)
	}
	if got := ed.Slide().ElementByID("el_a").Rotation; got != 45 {
		t.Errorf("rotation = %v", got)
	}
}

func TestMoveSlide(t *testing.T) {
	mem, _ := newStore(t)
	mem.AddSlide(document.Slide{ID: "slide_b"})
	mem.AddSlide(document.Slide{ID: "slide_c"})

	if err := mem.MoveSlide("slide_c", 0); err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, s := range mem.Presentation().Slides {
		ids = append(ids, s.ID)
	}
	if ids[0] != "slide_c" || len(ids) != 3 {
		t.Errorf("order = %v", ids)
	}
}

func TestHistoryUndoRedo(t *testing.T) {
	mem, slideID := newStore(t)
	hist := NewHistory(mem, 0)
	mem.AddElement(slideID, el("el_a", 100, 0))

	hist.RecordSnapshot("Move elements")
	mem.UpdateElement(slideID, "el_a", document.MovePatch(300, 300))

	if desc, ok := hist.Undo(); !ok || desc != "Move elements" {
		t.Fatalf("undo = %q, %v", desc, ok)
	}
	if got := mem.Presentation().Slides[0].ElementByID("el_a").Position.X; got != 100 {
		t.Fatalf("x after undo = %v, want 100", got)
	}

	if _, ok := hist.Redo(); !ok {
		t.Fatal("redo unavailable")
	}
	if got := mem.Presentation().Slides[0].ElementByID("el_a").Position.X; got != 300 {
		t.Fatalf("x after redo = %v, want 300", got)
	}
}

func TestHistorySnapshotIsolation(t *testing.T) {
	mem, slideID := newStore(t)
	hist := NewHistory(mem, 0)
	mem.AddElement(slideID, el("el_a", 100, 0))

	hist.RecordSnapshot("Edit shape")
	// Mutating through a shared pointer must not reach into the snapshot.
	mem.Presentation().Slides[0].ElementByID("el_a").Shape.Fill = "#ff0000"

	hist.Undo()
	if got := mem.Presentation().Slides[0].ElementByID("el_a").Shape.Fill; got != "#333" {
		t.Errorf("fill = %q, want pre-gesture value", got)
	}
}

func TestHistoryNewGestureClearsRedo(t *testing.T) {
	mem, slideID := newStore(t)
	hist := NewHistory(mem, 0)
	mem.AddElement(slideID, el("el_a", 100, 0))

	hist.RecordSnapshot("Move elements")
	mem.UpdateElement(slideID, "el_a", document.MovePatch(200, 100))
	hist.Undo()
	hist.RecordSnapshot("Rotate element")
	mem.UpdateElement(slideID, "el_a", document.RotationPatch(30))

	if hist.CanRedo() {
		t.Error("redo should be cleared by a new gesture")
	}
}

func TestHistoryBounded(t *testing.T) {
	mem, slideID := newStore(t)
	hist := NewHistory(mem, 3)
	mem.AddElement(slideID, el("el_a", 0, 0))

	for i := 1; i <= 5; i++ {
		hist.RecordSnapshot("Move elements")
		mem.UpdateElement(slideID, "el_a", document.MovePatch(float64(i*10), 0))
	}

	undone := 0
	for {
		if _, ok := hist.Undo(); !ok {
			break
		}
		undone++
	}
	if undone != 3 {
		t.Errorf("undo depth = %d, want 3", undone)
	}
	// Deepest reachable state is the one before the third-from-last gesture.
	if got := mem.Presentation().Slides[0].ElementByID("el_a").Position.X; got != 20 {
		t.Errorf("x = %v, want 20", got)
	}
}

func TestDeleteSlideKeepsLast(t *testing.T) {
	mem, slideID := newStore(t)

	if err := mem.DeleteSlide(slideID); !errors.Is(err, ErrLastSlide) {
		t.Fatalf("delete sole slide err = %v, want ErrLastSlide", err)
	}

	mem.AddSlide(document.Slide{ID: "slide_two"})
	if err := mem.DeleteSlide(slideID); err != nil {
		t.Fatalf("delete with sibling present: %v", err)
	}
	if err := mem.DeleteSlide("slide_two"); !errors.Is(err, ErrLastSlide) {
		t.Fatalf("delete last remaining err = %v, want ErrLastSlide", err)
	}
}
