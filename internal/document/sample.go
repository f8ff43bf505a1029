package document

// NewSamplePresentation builds a small two-slide deck used by the playground
// session and by tests that need a realistic document.
func NewSamplePresentation(presentationID string) *Presentation {
	return &Presentation{
		ID:     presentationID,
		Title:  "Sample Deck",
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Slides: []Slide{
			{
				ID: "slide_sample_1",
				Background: Background{
					Type:      BackgroundGradient,
					Color:     "#1a1a2e",
					Color2:    "#16213e",
					Direction: GradientDiagonal,
				},
				GridSize: 20,
				Elements: []Element{
					{
						ID:       "el_sample_title",
						Type:     ElementText,
						Position: Position{X: 120, Y: 80},
						Size:     Dimensions{Width: 720, Height: 120},
						ZIndex:   0,
						Opacity:  1,
						Text: &TextProps{
							Content:  "Welcome to Deckforge",
							FontSize: 48,
							Color:    "#ffffff",
							Bold:     true,
							Align:    "center",
						},
					},
					{
						ID:       "el_sample_accent",
						Type:     ElementShape,
						Position: Position{X: 380, Y: 230},
						Size:     Dimensions{Width: 200, Height: 8},
						ZIndex:   1,
						Opacity:  1,
						Shape: &ShapeProps{
							Kind: ShapeRectangle,
							Fill: "#e94560",
						},
					},
					{
						ID:       "el_sample_card",
						Type:     ElementShape,
						Position: Position{X: 330, Y: 300},
						Size:     Dimensions{Width: 300, Height: 160},
						Rotation: 6,
						ZIndex:   2,
						Opacity:  0.9,
						Shape: &ShapeProps{
							Kind:         ShapeRectangle,
							Fill:         "#0f3460",
							Stroke:       "#e94560",
							StrokeWidth:  2,
							CornerRadius: 12,
						},
					},
				},
			},
			{
				ID: "slide_sample_2",
				Background: Background{
					Type:  BackgroundSolid,
					Color: "#ffffff",
				},
				GridSize: 20,
				Elements: []Element{
					{
						ID:       "el_sample_body",
						Type:     ElementText,
						Position: Position{X: 100, Y: 100},
						Size:     Dimensions{Width: 400, Height: 300},
						ZIndex:   0,
						Opacity:  1,
						Text: &TextProps{
							Content:  "Drag, resize and rotate anything on the canvas.",
							FontSize: 24,
							Color:    "#1a1a2e",
							Align:    "left",
						},
					},
					{
						ID:       "el_sample_circle",
						Type:     ElementShape,
						Position: Position{X: 600, Y: 160},
						Size:     Dimensions{Width: 220, Height: 220},
						ZIndex:   1,
						Opacity:  1,
						Locked:   true,
						Shape: &ShapeProps{
							Kind:        ShapeEllipse,
							Fill:        "#e94560",
							Stroke:      "#1a1a2e",
							StrokeWidth: 3,
						},
					},
				},
			},
		},
	}
}
