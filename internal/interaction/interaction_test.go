package interaction

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/deckforge/deckforge/backend-go/internal/document"
	"github.com/deckforge/deckforge/backend-go/internal/geometry"
)

// fakeStore mutates a slide in place, the way the real store does for the
// slide being edited.
type fakeStore struct {
	slide *document.Slide
}

func (f *fakeStore) Slide() *document.Slide { return f.slide }

func (f *fakeStore) UpdateElement(id string, changes document.ElementPatch) error {
	if el := f.slide.ElementByID(id); el != nil {
		changes.Apply(el)
	}
	return nil
}

func (f *fakeStore) UpdateElements(updates []document.ElementUpdate) error {
	for _, u := range updates {
		if el := f.slide.ElementByID(u.ID); el != nil {
			u.Changes.Apply(el)
		}
	}
	return nil
}

func (f *fakeStore) AddElement(el document.Element) error {
	f.slide.Elements = append(f.slide.Elements, el)
	return nil
}

func (f *fakeStore) DeleteElements(ids []string) error {
	kept := f.slide.Elements[:0]
	for _, el := range f.slide.Elements {
		drop := false
		for _, id := range ids {
			if el.ID == id {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, el)
		}
	}
	f.slide.Elements = kept
	return nil
}

type fakeHistory struct {
	snapshots []string
}

func (f *fakeHistory) RecordSnapshot(description string) {
	f.snapshots = append(f.snapshots, description)
}

func rect(id string, x, y, w, h float64, z int) document.Element {
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

// newMachine builds a machine over a 960x540 canvas at 1:1 zoom with the
// given elements, plus its fakes for inspection.
func newMachine(els ...document.Element) (*Machine, *fakeStore, *fakeHistory, *EditorState) {
	store := &fakeStore{slide: &document.Slide{Elements: els}}
	history := &fakeHistory{}
	state := NewEditorState(geometry.Size{Width: 960, Height: 540})
	return New(store, history, state, nil), store, history, state
}

func down(x, y float64) PointerEvent  { return PointerEvent{Kind: PointerDown, X: x, Y: y} }
func move(x, y float64) PointerEvent  { return PointerEvent{Kind: PointerMove, X: x, Y: y} }
func up(x, y float64) PointerEvent    { return PointerEvent{Kind: PointerUp, X: x, Y: y} }
func leave(x, y float64) PointerEvent { return PointerEvent{Kind: PointerLeave, X: x, Y: y} }

func TestDragFrameRateIndependence(t *testing.T) {
	run := func(steps int) document.Position {
		m, store, _, _ := newMachine(rect("el_a", 100, 100, 50, 50, 0))
		m.HandlePointerEvent(down(110, 110))
		for i := 1; i <= steps; i++ {
			f := float64(i) / float64(steps)
			m.HandlePointerEvent(move(110+200*f, 110+80*f))
		}
		m.HandlePointerEvent(up(310, 190))
		return store.slide.ElementByID("el_a").Position
	}

	one := run(1)
	hundred := run(100)
	want := document.Position{X: 300, Y: 180}
	if diff := cmp.Diff(want, one); diff != "" {
		t.Errorf("single move (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, hundred); diff != "" {
		t.Errorf("100 moves (-want +got):\n%s", diff)
	}
}

func TestDragPreservesRelativeOffsets(t *testing.T) {
	m, store, history, state := newMachine(
		rect("el_a", 100, 100, 50, 50, 0),
		rect("el_b", 300, 200, 50, 50, 1),
	)
	state.SetSelection("el_a", "el_b")

	// Grabbing an already-selected element keeps the whole selection.
	m.HandlePointerEvent(down(110, 110))
	if got := len(state.Selection); got != 2 {
		t.Fatalf("selection size = %d, want 2", got)
	}
	m.HandlePointerEvent(move(150, 130))
	m.HandlePointerEvent(up(150, 130))

	if got := store.slide.ElementByID("el_a").Position; got != (document.Position{X: 140, Y: 120}) {
		t.Errorf("el_a at %+v", got)
	}
	if got := store.slide.ElementByID("el_b").Position; got != (document.Position{X: 340, Y: 220}) {
		t.Errorf("el_b at %+v", got)
	}
	if len(history.snapshots) != 1 {
		t.Errorf("snapshots = %v, want exactly one", history.snapshots)
	}
}

func TestPlainClickReplacesSelection(t *testing.T) {
	m, _, _, state := newMachine(
		rect("el_a", 100, 100, 50, 50, 0),
		rect("el_b", 300, 200, 50, 50, 1),
	)
	state.SetSelection("el_b")

	m.HandlePointerEvent(down(110, 110))
	m.HandlePointerEvent(up(110, 110))
	if diff := cmp.Diff([]string{"el_a"}, state.Selection); diff != "" {
		t.Errorf("selection (-want +got):\n%s", diff)
	}
}

func TestShiftClickAddsToSelection(t *testing.T) {
	m, _, _, state := newMachine(
		rect("el_a", 100, 100, 50, 50, 0),
		rect("el_b", 300, 200, 50, 50, 1),
	)
	state.SetSelection("el_b")

	m.HandlePointerEvent(PointerEvent{Kind: PointerDown, X: 110, Y: 110, Shift: true})
	m.HandlePointerEvent(up(110, 110))
	if diff := cmp.Diff([]string{"el_b", "el_a"}, state.Selection); diff != "" {
		t.Errorf("selection (-want +got):\n%s", diff)
	}
}

func TestCtrlClickTogglesWithoutDragging(t *testing.T) {
	m, store, history, state := newMachine(rect("el_a", 100, 100, 50, 50, 0))
	state.SetSelection("el_a")

	m.HandlePointerEvent(PointerEvent{Kind: PointerDown, X: 110, Y: 110, Ctrl: true})
	if len(state.Selection) != 0 {
		t.Fatalf("ctrl-click should have deselected, selection = %v", state.Selection)
	}
	if m.Mode() != ModeIdle {
		t.Fatalf("mode = %v, want idle", m.Mode())
	}

	// A toggle mutates nothing, so it must not burn an undo snapshot and
	// subsequent moves must not drag.
	m.HandlePointerEvent(move(200, 200))
	m.HandlePointerEvent(up(200, 200))
	if got := store.slide.ElementByID("el_a").Position; got != (document.Position{X: 100, Y: 100}) {
		t.Errorf("element moved to %+v", got)
	}
	if len(history.snapshots) != 0 {
		t.Errorf("snapshots = %v, want none", history.snapshots)
	}
}

func TestDrawShapeDiscardAndCommit(t *testing.T) {
	m, store, history, _ := newMachine()
	m.SetTool(ToolShape)

	// 5x5: below the minimum in both dimensions, discarded.
	m.HandlePointerEvent(down(50, 50))
	m.HandlePointerEvent(move(55, 55))
	m.HandlePointerEvent(up(55, 55))
	if got := len(store.slide.Elements); got != 0 {
		t.Fatalf("draft committed %d elements, want 0", got)
	}
	if len(history.snapshots) != 0 {
		t.Fatalf("discarded draft recorded snapshots: %v", history.snapshots)
	}

	// 20x30 commits at the anchor.
	m.HandlePointerEvent(down(50, 50))
	m.HandlePointerEvent(move(70, 80))
	m.HandlePointerEvent(up(70, 80))
	if got := len(store.slide.Elements); got != 1 {
		t.Fatalf("committed %d elements, want 1", got)
	}
	el := &store.slide.Elements[0]
	if el.Position != (document.Position{X: 50, Y: 50}) {
		t.Errorf("position %+v, want (50,50)", el.Position)
	}
	if el.Size != (document.Dimensions{Width: 20, Height: 30}) {
		t.Errorf("size %+v, want 20x30", el.Size)
	}
	if diff := cmp.Diff([]string{"Draw shape"}, history.snapshots); diff != "" {
		t.Errorf("snapshots (-want +got):\n%s", diff)
	}
}

func TestDrawShapeLeaveCancels(t *testing.T) {
	m, store, _, state := newMachine()
	m.SetTool(ToolShape)

	m.HandlePointerEvent(down(50, 50))
	m.HandlePointerEvent(move(200, 200))
	if state.DrawDraft == nil {
		t.Fatal("no live draft during drawing")
	}
	m.HandlePointerEvent(leave(200, 200))
	if len(store.slide.Elements) != 0 {
		t.Error("leave must cancel the draft, not commit it")
	}
	if state.DrawDraft != nil {
		t.Error("draft overlay not cleared")
	}
	if m.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", m.Mode())
	}
}

func TestResizeFloorRejectsFrame(t *testing.T) {
	m, store, _, state := newMachine(rect("el_a", 100, 100, 50, 50, 0))
	state.SetSelection("el_a")

	// Grab the right handle at (150, 125).
	m.HandlePointerEvent(down(150, 125))
	if m.Mode() != ModeResizing {
		t.Fatalf("mode = %v, want resizing", m.Mode())
	}

	// Shrink to 30 wide: valid.
	m.HandlePointerEvent(move(130, 125))
	if got := store.slide.ElementByID("el_a").Size.Width; got != 30 {
		t.Fatalf("width = %v, want 30", got)
	}

	// Past the floor: frame rejected, last valid size retained.
	m.HandlePointerEvent(move(105, 125))
	if got := store.slide.ElementByID("el_a").Size.Width; got != 30 {
		t.Errorf("width = %v, want 30 after rejected frame", got)
	}

	// Back into valid range: resumes tracking against the frozen start.
	m.HandlePointerEvent(move(140, 125))
	m.HandlePointerEvent(up(140, 125))
	if got := store.slide.ElementByID("el_a").Size.Width; got != 40 {
		t.Errorf("width = %v, want 40", got)
	}
}

func TestRotateSnapsToWholeDegrees(t *testing.T) {
	m, store, history, state := newMachine(rect("el_a", 100, 100, 50, 50, 0))
	state.SetSelection("el_a")

	// The rotation handle sits 20px above top-center: (125, 80).
	m.HandlePointerEvent(down(125, 80))
	if m.Mode() != ModeRotating {
		t.Fatalf("mode = %v, want rotating", m.Mode())
	}

	// Pointer due right of the center (125,125): atan2 = 0, +90 offset.
	m.HandlePointerEvent(move(300, 125))
	if got := store.slide.ElementByID("el_a").Rotation; got != 90 {
		t.Errorf("rotation = %v, want 90", got)
	}

	// Straight up is 0 degrees.
	m.HandlePointerEvent(move(125, 10))
	m.HandlePointerEvent(up(125, 10))
	if got := store.slide.ElementByID("el_a").Rotation; got != 0 {
		t.Errorf("rotation = %v, want 0", got)
	}
	if diff := cmp.Diff([]string{"Rotate element"}, history.snapshots); diff != "" {
		t.Errorf("snapshots (-want +got):\n%s", diff)
	}
}

func TestMarqueeSelection(t *testing.T) {
	m, _, history, state := newMachine(
		rect("el_in", 50, 50, 100, 100, 0),
		rect("el_edge", 150, 150, 100, 100, 1),
		rect("el_out", 300, 300, 10, 10, 2),
	)

	m.HandlePointerEvent(down(0, 0))
	if m.Mode() != ModeSelecting {
		t.Fatalf("mode = %v, want selecting", m.Mode())
	}
	m.HandlePointerEvent(move(200, 200))
	m.HandlePointerEvent(up(200, 200))

	if diff := cmp.Diff([]string{"el_in", "el_edge"}, state.Selection); diff != "" {
		t.Errorf("selection (-want +got):\n%s", diff)
	}
	if len(history.snapshots) != 0 {
		t.Errorf("marquee recorded snapshots: %v", history.snapshots)
	}
}

func TestMarqueeShiftUnion(t *testing.T) {
	m, _, _, state := newMachine(
		rect("el_a", 50, 50, 100, 100, 0),
		rect("el_b", 500, 400, 50, 50, 1),
	)
	state.SetSelection("el_b")

	m.HandlePointerEvent(PointerEvent{Kind: PointerDown, X: 0, Y: 0, Shift: true})
	m.HandlePointerEvent(move(200, 200))
	m.HandlePointerEvent(up(200, 200))

	if diff := cmp.Diff([]string{"el_b", "el_a"}, state.Selection); diff != "" {
		t.Errorf("selection (-want +got):\n%s", diff)
	}
}

func TestMarqueePlainClearsSelection(t *testing.T) {
	m, _, _, state := newMachine(rect("el_a", 500, 400, 50, 50, 0))
	state.SetSelection("el_a")

	m.HandlePointerEvent(down(0, 0))
	m.HandlePointerEvent(up(5, 5))
	if len(state.Selection) != 0 {
		t.Errorf("selection = %v, want empty", state.Selection)
	}
}

func TestPanDividesByZoom(t *testing.T) {
	m, _, _, state := newMachine()
	m.SetTool(ToolPan)
	state.Viewport.Zoom = 2

	m.HandlePointerEvent(down(100, 100))
	m.HandlePointerEvent(move(200, 160))
	m.HandlePointerEvent(up(200, 160))

	if state.Viewport.PanX != 50 || state.Viewport.PanY != 30 {
		t.Errorf("pan = (%v,%v), want (50,30)", state.Viewport.PanX, state.Viewport.PanY)
	}
}

func TestTextToolArmsOrEdits(t *testing.T) {
	text := document.Element{
		ID:       "el_title",
		Type:     document.ElementText,
		Position: document.Position{X: 100, Y: 100},
		Size:     document.Dimensions{Width: 200, Height: 50},
		Opacity:  1,
		Text:     &document.TextProps{Content: "Hello"},
	}
	m, _, _, state := newMachine(text)
	m.SetTool(ToolText)

	m.HandlePointerEvent(down(150, 120))
	if state.EditingElementID != "el_title" {
		t.Errorf("editing = %q, want el_title", state.EditingElementID)
	}

	m.HandlePointerEvent(down(400, 400))
	if state.PendingTextAt == nil || state.PendingTextAt.X != 400 {
		t.Errorf("pending text = %+v, want armed at (400,400)", state.PendingTextAt)
	}
	if m.Mode() != ModeIdle {
		t.Errorf("text tool must not enter a drag mode, mode = %v", m.Mode())
	}
}

func TestUpAtIdleIsNoop(t *testing.T) {
	m, store, history, _ := newMachine(rect("el_a", 100, 100, 50, 50, 0))

	m.HandlePointerEvent(up(110, 110))
	m.HandlePointerEvent(up(110, 110))
	if m.Mode() != ModeIdle || len(history.snapshots) != 0 {
		t.Errorf("stray up changed state: mode=%v snapshots=%v", m.Mode(), history.snapshots)
	}
	if got := store.slide.ElementByID("el_a").Position; got != (document.Position{X: 100, Y: 100}) {
		t.Errorf("element moved to %+v", got)
	}
}

func TestToolChangeForcesIdle(t *testing.T) {
	m, store, _, _ := newMachine(rect("el_a", 100, 100, 50, 50, 0))

	m.HandlePointerEvent(down(110, 110))
	if m.Mode() != ModeDragging {
		t.Fatalf("mode = %v, want dragging", m.Mode())
	}
	m.SetTool(ToolPan)
	if m.Mode() != ModeIdle {
		t.Fatalf("tool change left mode %v", m.Mode())
	}

	m.HandlePointerEvent(move(300, 300))
	if got := store.slide.ElementByID("el_a").Position; got != (document.Position{X: 100, Y: 100}) {
		t.Errorf("abandoned gesture still moved element to %+v", got)
	}
}

func TestLockedElementsDoNotDrag(t *testing.T) {
	locked := rect("el_locked", 300, 300, 50, 50, 1)
	locked.Locked = true
	m, store, _, state := newMachine(rect("el_a", 100, 100, 50, 50, 0), locked)
	state.SetSelection("el_a", "el_locked")

	m.HandlePointerEvent(down(110, 110))
	m.HandlePointerEvent(move(160, 110))
	m.HandlePointerEvent(up(160, 110))

	if got := store.slide.ElementByID("el_a").Position.X; got != 150 {
		t.Errorf("el_a x = %v, want 150", got)
	}
	if got := store.slide.ElementByID("el_locked").Position.X; got != 300 {
		t.Errorf("locked element moved, x = %v", got)
	}
}

func TestPointerDownWithNoSlide(t *testing.T) {
	store := &fakeStore{}
	history := &fakeHistory{}
	state := NewEditorState(geometry.Size{Width: 960, Height: 540})
	m := New(store, history, state, nil)

	m.HandlePointerEvent(down(100, 100))
	if m.Mode() != ModeIdle {
		t.Fatalf("select down on empty store entered %v", m.Mode())
	}
	m.HandlePointerEvent(up(100, 100))

	m.SetTool(ToolShape)
	m.HandlePointerEvent(down(100, 100))
	if m.Mode() != ModeIdle || state.DrawDraft != nil {
		t.Fatalf("shape down on empty store entered %v", m.Mode())
	}

	// Panning needs no slide and must keep working.
	m.SetTool(ToolPan)
	m.HandlePointerEvent(down(100, 100))
	m.HandlePointerEvent(move(150, 120))
	m.HandlePointerEvent(up(150, 120))
	if state.Viewport.PanX != 50 || state.Viewport.PanY != 20 {
		t.Errorf("pan = (%v, %v), want (50, 20)", state.Viewport.PanX, state.Viewport.PanY)
	}
	if len(history.snapshots) != 0 {
		t.Errorf("snapshots = %v, want none", history.snapshots)
	}
}
