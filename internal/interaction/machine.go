package interaction

import (
	"log/slog"
	"math"

	"github.com/deckforge/deckforge/backend-go/internal/document"
	"github.com/deckforge/deckforge/backend-go/internal/geometry"
	"github.com/deckforge/deckforge/backend-go/internal/hittest"
	"github.com/deckforge/deckforge/backend-go/internal/typeid"
)

// MinDrawSize is the threshold below which a drawn shape is discarded: the
// draft commits when either final dimension reaches this many document units.
const MinDrawSize = 10.0

const defaultShapeFill = "#2d8ceb"

// session is the transient state of one gesture, created on pointer-down and
// always destroyed on pointer-up or pointer-leave. The frozen copies are the
// reference for every delta so successive moves never compound.
type session struct {
	mode   Mode
	handle geometry.Handle

	anchorScreen geometry.Point
	anchorDoc    geometry.Point

	panning  bool
	panStart geometry.Point

	frozen   map[string]document.Element
	frozenEl *document.Element

	shiftAtStart  bool
	baseSelection []string
}

// Machine is the interaction state machine. One instance per editing surface;
// all input is processed on a single goroutine, matching the event-driven
// model of the host.
type Machine struct {
	store   DocumentStore
	history History
	state   *EditorState
	log     *slog.Logger

	tool     Tool
	drawKind document.ShapeKind
	sess     session
}

// New wires a machine to its collaborators. A nil logger falls back to the
// process default.
func New(store DocumentStore, history History, state *EditorState, log *slog.Logger) *Machine {
	if log == nil {
		log = slog.Default()
	}
	return &Machine{
		store:    store,
		history:  history,
		state:    state,
		log:      log,
		tool:     ToolSelect,
		drawKind: document.ShapeRectangle,
	}
}

func (m *Machine) Tool() Tool { return m.tool }
func (m *Machine) Mode() Mode { return m.sess.mode }

// SetTool switches the active tool. Any gesture in progress is abandoned and
// the machine returns to idle; armed creation points are cleared.
func (m *Machine) SetTool(t Tool) {
	if t == m.tool {
		return
	}
	m.tool = t
	m.reset()
	m.state.PendingTextAt = nil
	m.state.PendingImageAt = nil
}

// SetDrawKind selects the shape kind committed by the shape tool.
func (m *Machine) SetDrawKind(k document.ShapeKind) { m.drawKind = k }

// HandlePointerEvent is the single entry point for raw input. Pointer-leave
// is treated as pointer-up, except that a drawing gesture is cancelled
// outright instead of committed.
func (m *Machine) HandlePointerEvent(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		m.pointerDown(ev)
	case PointerMove:
		m.pointerMove(ev)
	case PointerUp:
		m.pointerUp(ev, false)
	case PointerLeave:
		m.pointerUp(ev, true)
	}
}

func (m *Machine) screenPoint(ev PointerEvent) geometry.Point {
	return geometry.Point{X: ev.X, Y: ev.Y}
}

func (m *Machine) docPoint(ev PointerEvent) geometry.Point {
	return geometry.ToDocument(m.state.Viewport, m.state.Canvas, m.screenPoint(ev))
}

func (m *Machine) pointerDown(ev PointerEvent) {
	if m.sess.mode != ModeIdle {
		return
	}
	slide := m.store.Slide()
	doc := m.docPoint(ev)

	// A store without a bound slide (all slides deleted, stale binding) only
	// supports panning; everything else needs elements to act on.
	if slide == nil && m.tool != ToolPan {
		return
	}

	switch m.tool {
	case ToolPan:
		m.sess = session{
			mode:         ModeDragging,
			panning:      true,
			anchorScreen: m.screenPoint(ev),
			panStart:     geometry.Point{X: m.state.Viewport.PanX, Y: m.state.Viewport.PanY},
		}

	case ToolText:
		// Inline edit on a hit text element, otherwise arm creation at
		// the click point. Commit happens outside the state machine.
		if el := hittest.ElementAt(slide, m.state.Viewport, m.state.Canvas, m.screenPoint(ev)); el != nil && el.Type == document.ElementText {
			m.state.EditingElementID = el.ID
			return
		}
		p := doc
		m.state.PendingTextAt = &p

	case ToolImage:
		p := doc
		m.state.PendingImageAt = &p

	case ToolShape:
		draft := geometry.RectFromCorners(doc, doc)
		m.state.DrawDraft = &draft
		m.sess = session{mode: ModeDrawing, anchorDoc: doc}

	default:
		m.selectDown(ev, slide, doc)
	}
}

// selectDown implements the select-tool branch of the pointer-down table:
// handle beats element beats marquee.
func (m *Machine) selectDown(ev PointerEvent, slide *document.Slide, doc geometry.Point) {
	if h := hittest.HandleAt(slide, m.state.Selection, m.state.Viewport, m.state.Canvas, m.screenPoint(ev)); h != geometry.HandleNone {
		el := slide.ElementByID(m.state.Selection[0])
		frozen := *el
		if h == geometry.HandleRotate {
			m.history.RecordSnapshot("Rotate element")
			m.sess = session{mode: ModeRotating, handle: h, anchorDoc: doc, frozenEl: &frozen}
		} else {
			m.history.RecordSnapshot("Resize element")
			m.sess = session{mode: ModeResizing, handle: h, anchorDoc: doc, frozenEl: &frozen}
		}
		return
	}

	if el := hittest.ElementAt(slide, m.state.Viewport, m.state.Canvas, m.screenPoint(ev)); el != nil {
		if ev.Ctrl {
			// Toggle membership only; no drag, and since nothing
			// mutates the document, no snapshot either.
			m.state.ToggleSelection(el.ID)
			return
		}
		if ev.Shift {
			m.state.AddSelection(el.ID)
		} else if !m.state.Selected(el.ID) {
			m.state.SetSelection(el.ID)
		}

		m.history.RecordSnapshot("Move elements")
		frozen := make(map[string]document.Element, len(m.state.Selection))
		for _, id := range m.state.Selection {
			sel := slide.ElementByID(id)
			if sel == nil || sel.Locked {
				continue
			}
			frozen[id] = *sel
		}
		m.sess = session{mode: ModeDragging, anchorDoc: doc, frozen: frozen}
		return
	}

	if !ev.Shift {
		m.state.ClearSelection()
	}
	box := geometry.RectFromCorners(doc, doc)
	m.state.SelectionBox = &box
	m.sess = session{
		mode:          ModeSelecting,
		anchorDoc:     doc,
		shiftAtStart:  ev.Shift,
		baseSelection: append([]string(nil), m.state.Selection...),
	}
}

func (m *Machine) pointerMove(ev PointerEvent) {
	switch m.sess.mode {
	case ModeDragging:
		if m.sess.panning {
			m.panMove(ev)
		} else {
			m.dragMove(ev)
		}
	case ModeResizing:
		m.resizeMove(ev)
	case ModeRotating:
		m.rotateMove(ev)
	case ModeDrawing:
		box := geometry.RectFromCorners(m.sess.anchorDoc, m.docPoint(ev))
		m.state.DrawDraft = &box
	case ModeSelecting:
		box := geometry.RectFromCorners(m.sess.anchorDoc, m.docPoint(ev))
		m.state.SelectionBox = &box
	}
}

// panMove shifts the viewport by the raw screen delta divided by zoom, so the
// content tracks the pointer 1:1 at any zoom level.
func (m *Machine) panMove(ev PointerEvent) {
	z := m.state.Viewport.Zoom
	m.state.Viewport.PanX = m.sess.panStart.X + (ev.X-m.sess.anchorScreen.X)/z
	m.state.Viewport.PanY = m.sess.panStart.Y + (ev.Y-m.sess.anchorScreen.Y)/z
}

func (m *Machine) dragMove(ev PointerEvent) {
	doc := m.docPoint(ev)
	dx := doc.X - m.sess.anchorDoc.X
	dy := doc.Y - m.sess.anchorDoc.Y

	updates := make([]document.ElementUpdate, 0, len(m.sess.frozen))
	for _, id := range m.state.Selection {
		start, ok := m.sess.frozen[id]
		if !ok {
			continue
		}
		updates = append(updates, document.ElementUpdate{
			ID:      id,
			Changes: document.MovePatch(start.Position.X+dx, start.Position.Y+dy),
		})
	}
	if len(updates) == 0 {
		return
	}
	if err := m.store.UpdateElements(updates); err != nil {
		m.log.Warn("drag update failed", "error", err)
	}
}

func (m *Machine) resizeMove(ev PointerEvent) {
	doc := m.docPoint(ev)
	dx := doc.X - m.sess.anchorDoc.X
	dy := doc.Y - m.sess.anchorDoc.Y

	box, ok := geometry.ApplyResize(m.sess.frozenEl, m.sess.handle, dx, dy)
	if !ok {
		// Under the minimum size: the frame is rejected and the element
		// keeps its last valid bounds.
		return
	}
	patch := document.BoundsPatch(box.Left, box.Top, box.Width(), box.Height())
	if err := m.store.UpdateElement(m.sess.frozenEl.ID, patch); err != nil {
		m.log.Warn("resize update failed", "error", err)
	}
}

func (m *Machine) rotateMove(ev PointerEvent) {
	doc := m.docPoint(ev)
	cx, cy := m.sess.frozenEl.Center()

	// 0 degrees is the handle pointing straight up, hence the 90 offset on
	// top of atan2. Snapped to whole degrees; no clamping, atan2 wraps.
	deg := math.Atan2(doc.Y-cy, doc.X-cx)*180/math.Pi + 90
	deg = math.Round(deg)

	if err := m.store.UpdateElement(m.sess.frozenEl.ID, document.RotationPatch(deg)); err != nil {
		m.log.Warn("rotate update failed", "error", err)
	}
}

func (m *Machine) pointerUp(ev PointerEvent, leave bool) {
	switch m.sess.mode {
	case ModeIdle:
		// Duplicate or stray up event.
		return
	case ModeDrawing:
		if !leave {
			m.commitDraft(ev)
		}
		m.state.DrawDraft = nil
	case ModeSelecting:
		m.finishMarquee(ev)
		m.state.SelectionBox = nil
	}
	m.reset()
}

// commitDraft turns the drawn rectangle into a shape element when either
// dimension reaches the minimum; smaller drafts are discarded as accidental
// clicks.
func (m *Machine) commitDraft(ev PointerEvent) {
	box := geometry.RectFromCorners(m.sess.anchorDoc, m.docPoint(ev))
	if box.Width() < MinDrawSize && box.Height() < MinDrawSize {
		return
	}

	m.history.RecordSnapshot("Draw shape")
	el := document.Element{
		ID:       typeid.NewElementID(),
		Type:     document.ElementShape,
		Position: document.Position{X: box.Left, Y: box.Top},
		Size:     document.Dimensions{Width: box.Width(), Height: box.Height()},
		ZIndex:   document.MaxZIndex(m.store.Slide()) + 1,
		Opacity:  1,
		Shape:    &document.ShapeProps{Kind: m.drawKind, Fill: defaultShapeFill},
	}
	if err := m.store.AddElement(el); err != nil {
		m.log.Warn("shape commit failed", "error", err)
		return
	}
	m.state.SetSelection(el.ID)
}

// finishMarquee resolves the selection box against element bounding boxes
// with the open-intersection rule, replacing the selection or unioning with
// the pre-drag selection when the gesture started with Shift held. Locked
// elements are included: selecting one targets its property panel, while
// the drag freeze map skips locked ids so they can never be moved.
func (m *Machine) finishMarquee(ev PointerEvent) {
	box := geometry.RectFromCorners(m.sess.anchorDoc, m.docPoint(ev))

	var hit []string
	slide := m.store.Slide()
	for i := range slide.Elements {
		el := &slide.Elements[i]
		if geometry.BoundingBox(el).Intersects(box) {
			hit = append(hit, el.ID)
		}
	}

	if m.sess.shiftAtStart {
		m.state.SetSelection(m.sess.baseSelection...)
		for _, id := range hit {
			m.state.AddSelection(id)
		}
		return
	}
	m.state.SetSelection(hit...)
}

func (m *Machine) reset() {
	m.sess = session{}
	m.state.SelectionBox = nil
	m.state.DrawDraft = nil
}
