package document

// ElementPatch is a partial element update. Nil fields are left untouched.
// All interactive mutations (drag, resize, rotate, property edits) travel
// through patches so the store has a single update path.
type ElementPatch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	ZIndex   *int     `json:"zIndex,omitempty"`
	Opacity  *float64 `json:"opacity,omitempty"`
	Locked   *bool    `json:"locked,omitempty"`

	Text  *TextProps  `json:"text,omitempty"`
	Shape *ShapeProps `json:"shape,omitempty"`
	Image *ImageProps `json:"image,omitempty"`
}

// ElementUpdate pairs an element id with its patch for batched updates.
type ElementUpdate struct {
	ID      string       `json:"id"`
	Changes ElementPatch `json:"changes"`
}

// Apply writes the patch's non-nil fields onto the element.
func (p ElementPatch) Apply(el *Element) {
	if p.X != nil {
		el.Position.X = *p.X
	}
	if p.Y != nil {
		el.Position.Y = *p.Y
	}
	if p.Width != nil {
		el.Size.Width = *p.Width
	}
	if p.Height != nil {
		el.Size.Height = *p.Height
	}
	if p.Rotation != nil {
		el.Rotation = *p.Rotation
	}
	if p.ZIndex != nil {
		el.ZIndex = *p.ZIndex
	}
	if p.Opacity != nil {
		el.Opacity = *p.Opacity
	}
	if p.Locked != nil {
		el.Locked = *p.Locked
	}
	if p.Text != nil {
		el.Text = p.Text
	}
	if p.Shape != nil {
		el.Shape = p.Shape
	}
	if p.Image != nil {
		el.Image = p.Image
	}
}

// MovePatch is a convenience constructor for position-only updates.
func MovePatch(x, y float64) ElementPatch {
	return ElementPatch{X: &x, Y: &y}
}

// BoundsPatch updates position and size together, as a resize does.
func BoundsPatch(x, y, w, h float64) ElementPatch {
	return ElementPatch{X: &x, Y: &y, Width: &w, Height: &h}
}

// RotationPatch updates rotation only.
func RotationPatch(deg float64) ElementPatch {
	return ElementPatch{Rotation: &deg}
}
