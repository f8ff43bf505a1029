//go:build js && wasm

package main

import (
	"encoding/json"
	"errors"
	"image"
	"syscall/js"

	"github.com/deckforge/deckforge/backend-go/internal/document"
	"github.com/deckforge/deckforge/backend-go/internal/geometry"
	"github.com/deckforge/deckforge/backend-go/internal/hittest"
	"github.com/deckforge/deckforge/backend-go/internal/interaction"
	"github.com/deckforge/deckforge/backend-go/internal/render"
	"github.com/deckforge/deckforge/backend-go/internal/store"
)

// editor is the in-browser editing core: working copy, history, interaction
// machine and renderer, driven entirely from JS events.
type editor struct {
	mem     *store.Memory
	hist    *store.History
	state   *interaction.EditorState
	machine *interaction.Machine
	images  *render.ImageCache

	renderer *render.Renderer
	slideID  string

	showGrid  int
	onRepaint js.Value
}

var ed *editor

func main() {
	ed = newEditor()

	api := js.Global().Get("Object").New()

	// Commands (frontend -> engine)
	api.Set("loadDocument", js.FuncOf(loadDocument))
	api.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	api.Set("setCanvasSize", js.FuncOf(setCanvasSize))
	api.Set("setSlide", js.FuncOf(setSlide))
	api.Set("setTool", js.FuncOf(setTool))
	api.Set("setViewport", js.FuncOf(setViewport))
	api.Set("setShowGrid", js.FuncOf(setShowGrid))
	api.Set("pointerEvent", js.FuncOf(pointerEvent))
	api.Set("undo", js.FuncOf(undo))
	api.Set("redo", js.FuncOf(redo))
	api.Set("onRepaintNeeded", js.FuncOf(onRepaintNeeded))

	// Queries (frontend <- engine)
	api.Set("render", js.FuncOf(renderFrame))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("hitHandle", js.FuncOf(hitHandle))
	api.Set("toDocument", js.FuncOf(toDocument))
	api.Set("toScreen", js.FuncOf(toScreen))
	api.Set("getDocument", js.FuncOf(getDocument))
	api.Set("getSelection", js.FuncOf(getSelection))

	js.Global().Set("deckforgeEngine", api)
	js.Global().Set("deckforgeWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func newEditor() *editor {
	e := &editor{}
	e.images = render.NewImageCache(loadImageFromJS, func(string) {
		if !e.onRepaint.IsUndefined() && e.onRepaint.Type() == js.TypeFunction {
			e.onRepaint.Invoke()
		}
	})
	e.loadPresentation(document.NewSamplePresentation("pres_sample"))
	return e
}

func (e *editor) loadPresentation(pres *document.Presentation) {
	e.mem = store.NewMemory(pres)
	e.hist = store.NewHistory(e.mem, 0)

	canvas := geometry.Size{Width: pres.Width, Height: pres.Height}
	if e.state != nil {
		canvas = e.state.Canvas
	}
	e.state = interaction.NewEditorState(canvas)
	e.machine = interaction.New(&boundStore{ed: e}, e.hist, e.state, nil)

	e.slideID = ""
	if len(pres.Slides) > 0 {
		e.slideID = pres.Slides[0].ID
	}
	e.rebuildRenderer()
}

func (e *editor) rebuildRenderer() {
	pres := e.mem.Presentation()
	r, err := render.New(
		int(e.state.Canvas.Width), int(e.state.Canvas.Height),
		geometry.Size{Width: pres.Width, Height: pres.Height},
		e.images,
	)
	if err != nil {
		// Reported once; no partial paint is attempted until the host
		// supplies a usable canvas size.
		e.renderer = nil
		return
	}
	e.renderer = r
}

func (e *editor) slide() *document.Slide {
	return e.mem.Presentation().SlideByID(e.slideID)
}

// boundStore feeds the interaction machine whatever slide is currently being
// edited.
type boundStore struct {
	ed *editor
}

func (b *boundStore) Slide() *document.Slide { return b.ed.slide() }

func (b *boundStore) UpdateElement(id string, changes document.ElementPatch) error {
	return b.ed.mem.UpdateElement(b.ed.slideID, id, changes)
}

func (b *boundStore) UpdateElements(updates []document.ElementUpdate) error {
	return b.ed.mem.UpdateElements(b.ed.slideID, updates)
}

func (b *boundStore) AddElement(el document.Element) error {
	return b.ed.mem.AddElement(b.ed.slideID, el)
}

func (b *boundStore) DeleteElements(ids []string) error {
	return b.ed.mem.DeleteElements(b.ed.slideID, ids)
}

var errNoBrowserImage = errors.New("image decoding is not available in the browser build")

// loadImageFromJS always fails: the browser build has no fetch-and-decode
// path, so image elements render as placeholders. The repaint hook still
// fires so the host can paint real images over the frame itself.
func loadImageFromJS(string) (image.Image, error) {
	return nil, errNoBrowserImage
}

// --- Command handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing document JSON")
	}
	var pres document.Presentation
	if err := json.Unmarshal([]byte(args[0].String()), &pres); err != nil {
		return errResult(err.Error())
	}
	ed.loadPresentation(&pres)
	return okResult()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	presentationID := "pres_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		presentationID = args[0].String()
	}
	ed.loadPresentation(document.NewSamplePresentation(presentationID))
	return okResult()
}

func setCanvasSize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errResult("missing dimensions")
	}
	w := args[0].Float()
	h := args[1].Float()
	if w <= 0 || h <= 0 {
		return errResult("invalid dimensions")
	}
	ed.state.Canvas = geometry.Size{Width: w, Height: h}
	ed.rebuildRenderer()
	return okResult()
}

func setSlide(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing slide id")
	}
	slideID := args[0].String()
	if ed.mem.Presentation().SlideByID(slideID) == nil {
		return errResult("unknown slide")
	}
	ed.slideID = slideID
	ed.state.ClearSelection()
	return okResult()
}

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing tool")
	}
	tool, err := interaction.ParseTool(args[0].String())
	if err != nil {
		return errResult(err.Error())
	}
	ed.machine.SetTool(tool)
	if len(args) > 1 && args[1].Type() == js.TypeString {
		ed.machine.SetDrawKind(document.ShapeKind(args[1].String()))
	}
	return okResult()
}

func setViewport(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errResult("missing viewport values")
	}
	ed.state.Viewport = geometry.Viewport{
		Zoom: geometry.ClampZoom(args[0].Float()),
		PanX: args[1].Float(),
		PanY: args[2].Float(),
	}
	return okResult()
}

func setShowGrid(this js.Value, args []js.Value) interface{} {
	if len(args) > 0 && args[0].Truthy() {
		ed.showGrid = 1
	} else {
		ed.showGrid = 0
	}
	return nil
}

func pointerEvent(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errResult("missing pointer event values")
	}
	kind, err := interaction.ParsePointerKind(args[0].String())
	if err != nil {
		return errResult(err.Error())
	}
	ev := interaction.PointerEvent{
		Kind: kind,
		X:    args[1].Float(),
		Y:    args[2].Float(),
	}
	if len(args) > 3 {
		ev.Shift = args[3].Truthy()
	}
	if len(args) > 4 {
		ev.Ctrl = args[4].Truthy()
	}
	ed.machine.HandlePointerEvent(ev)
	return okResult()
}

func undo(this js.Value, args []js.Value) interface{} {
	if _, ok := ed.hist.Undo(); ok {
		ed.state.ClearSelection()
	}
	return okResult()
}

func redo(this js.Value, args []js.Value) interface{} {
	if _, ok := ed.hist.Redo(); ok {
		ed.state.ClearSelection()
	}
	return okResult()
}

func onRepaintNeeded(this js.Value, args []js.Value) interface{} {
	if len(args) > 0 {
		ed.onRepaint = args[0]
	}
	return nil
}

// --- Query handlers ---

// renderFrame paints the current slide and copies the RGBA pixels into the
// Uint8ClampedArray passed from JS; returns the frame dimensions.
func renderFrame(this js.Value, args []js.Value) interface{} {
	slide := ed.slide()
	if slide == nil || ed.renderer == nil {
		return errResult("no slide loaded")
	}

	img := ed.renderer.Render(slide, ed.state.Viewport, render.Options{
		SelectedElementIDs:   ed.state.Selection,
		ShowGrid:             ed.showGrid == 1,
		ShowSelectionHandles: true,
		EditingElementID:     ed.state.EditingElementID,
	})

	if len(args) > 0 {
		js.CopyBytesToJS(args[0], img.Pix)
	}
	b := img.Bounds()
	return js.ValueOf(map[string]interface{}{
		"width":  b.Dx(),
		"height": b.Dy(),
	})
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	slide := ed.slide()
	if slide == nil {
		return js.ValueOf("")
	}
	p := geometry.Point{X: args[0].Float(), Y: args[1].Float()}
	if el := hittest.ElementAt(slide, ed.state.Viewport, ed.state.Canvas, p); el != nil {
		return js.ValueOf(el.ID)
	}
	return js.ValueOf("")
}

func hitHandle(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("none")
	}
	slide := ed.slide()
	if slide == nil {
		return js.ValueOf("none")
	}
	p := geometry.Point{X: args[0].Float(), Y: args[1].Float()}
	h := hittest.HandleAt(slide, ed.state.Selection, ed.state.Viewport, ed.state.Canvas, p)
	return js.ValueOf(h.String())
}

func toDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	p := geometry.ToDocument(ed.state.Viewport, ed.state.Canvas, geometry.Point{X: args[0].Float(), Y: args[1].Float()})
	return js.ValueOf(map[string]interface{}{"x": p.X, "y": p.Y})
}

func toScreen(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	p := geometry.ToScreen(ed.state.Viewport, ed.state.Canvas, geometry.Point{X: args[0].Float(), Y: args[1].Float()})
	return js.ValueOf(map[string]interface{}{"x": p.X, "y": p.Y})
}

func getDocument(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(ed.mem.Presentation())
	if err != nil {
		return errResult(err.Error())
	}
	return js.ValueOf(string(data))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(ed.state.Selection)
	if err != nil {
		return errResult(err.Error())
	}
	return js.ValueOf(string(data))
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func errResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}
