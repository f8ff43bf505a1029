package document

// Position is an element's top-left corner in document units.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dimensions is an element's width and height in document units.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ElementType string

const (
	ElementText  ElementType = "text"
	ElementShape ElementType = "shape"
	ElementImage ElementType = "image"
)

type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeEllipse   ShapeKind = "ellipse"
	ShapeTriangle  ShapeKind = "triangle"
	ShapeLine      ShapeKind = "line"
)

type ImageFit string

const (
	ImageFitCover   ImageFit = "cover"
	ImageFitContain ImageFit = "contain"
	ImageFitStretch ImageFit = "stretch"
)

// TextProps holds the payload of a text element. The engine treats everything
// here except the bounding box as opaque styling.
type TextProps struct {
	Content    string  `json:"content"`
	FontFamily string  `json:"fontFamily"`
	FontSize   float64 `json:"fontSize"`
	Color      string  `json:"color"`
	Bold       bool    `json:"bold"`
	Align      string  `json:"align"`
}

// ShapeProps holds the payload of a shape element.
type ShapeProps struct {
	Kind         ShapeKind `json:"kind"`
	Fill         string    `json:"fill"`
	Stroke       string    `json:"stroke"`
	StrokeWidth  float64   `json:"strokeWidth"`
	CornerRadius float64   `json:"cornerRadius"`
}

// ImageProps holds the payload of an image element.
type ImageProps struct {
	Source string   `json:"source"`
	Fit    ImageFit `json:"fit"`
}

// Element is one item on a slide. Exactly one of Text, Shape or Image is
// non-nil, matching Type. Rotation is in degrees about the element's own
// center. ZIndex is the paint-order key: higher paints later and wins
// hit-test ties. A locked element still renders but is excluded from
// hit-testing.
type Element struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	Position Position    `json:"position"`
	Size     Dimensions  `json:"size"`
	Rotation float64     `json:"rotation"`
	ZIndex   int         `json:"zIndex"`
	Opacity  float64     `json:"opacity"`
	Locked   bool        `json:"locked"`

	Text  *TextProps  `json:"text,omitempty"`
	Shape *ShapeProps `json:"shape,omitempty"`
	Image *ImageProps `json:"image,omitempty"`
}

// Center returns the element's center point in document units.
func (e *Element) Center() (float64, float64) {
	return e.Position.X + e.Size.Width/2, e.Position.Y + e.Size.Height/2
}

type BackgroundType string

const (
	BackgroundSolid    BackgroundType = "solid"
	BackgroundGradient BackgroundType = "gradient"
	BackgroundImage    BackgroundType = "image"
)

type GradientDirection string

const (
	GradientHorizontal GradientDirection = "horizontal"
	GradientVertical   GradientDirection = "vertical"
	GradientDiagonal   GradientDirection = "diagonal"
)

type BackgroundFit string

const (
	BackgroundFitCover   BackgroundFit = "cover"
	BackgroundFitContain BackgroundFit = "contain"
	BackgroundFitStretch BackgroundFit = "stretch"
	BackgroundFitTile    BackgroundFit = "tile"
)

// Background describes how a slide's backdrop is painted. Color doubles as
// the fallback while an image background is still loading.
type Background struct {
	Type      BackgroundType    `json:"type"`
	Color     string            `json:"color"`
	Color2    string            `json:"color2,omitempty"`
	Direction GradientDirection `json:"direction,omitempty"`
	Source    string            `json:"source,omitempty"`
	Fit       BackgroundFit     `json:"fit,omitempty"`
}

// Slide holds its elements in insertion order. Paint order is always by
// ascending ZIndex with insertion order as the stable tie-break; the list
// order itself carries no meaning beyond that tie-break.
type Slide struct {
	ID         string     `json:"id"`
	Elements   []Element  `json:"elements"`
	Background Background `json:"background"`
	GridSize   float64    `json:"gridSize"`
	Transition string     `json:"transition"`
}

// ImageSources lists every image source the slide references: image
// elements plus an image background, deduplicated.
func (s *Slide) ImageSources() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(src string) {
		if src != "" && !seen[src] {
			seen[src] = true
			out = append(out, src)
		}
	}
	for i := range s.Elements {
		if s.Elements[i].Image != nil {
			add(s.Elements[i].Image.Source)
		}
	}
	if s.Background.Type == BackgroundImage {
		add(s.Background.Source)
	}
	return out
}

// ElementByID returns a pointer into the slide's element list, or nil.
func (s *Slide) ElementByID(id string) *Element {
	for i := range s.Elements {
		if s.Elements[i].ID == id {
			return &s.Elements[i]
		}
	}
	return nil
}

// Presentation is the authoritative document: an ordered list of slides plus
// the fixed document-space canvas size elements are authored against.
type Presentation struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Slides    []Slide `json:"slides"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// SlideByID returns a pointer into the presentation's slide list, or nil.
func (p *Presentation) SlideByID(id string) *Slide {
	for i := range p.Slides {
		if p.Slides[i].ID == id {
			return &p.Slides[i]
		}
	}
	return nil
}

// DefaultWidth and DefaultHeight are the document-space dimensions of a
// slide. All element geometry is authored against this fixed space; the
// viewport maps it to screen pixels.
const (
	DefaultWidth  = 960.0
	DefaultHeight = 540.0
)

// NewEmptyPresentation creates a presentation with a single blank slide.
func NewEmptyPresentation(presentationID, slideID, title string) *Presentation {
	return &Presentation{
		ID:     presentationID,
		Title:  title,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Slides: []Slide{
			{
				ID: slideID,
				Background: Background{
					Type:  BackgroundSolid,
					Color: "#ffffff",
				},
				GridSize: 20,
				Elements: []Element{},
			},
		},
	}
}
