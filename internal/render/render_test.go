package render

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deckforge/deckforge/backend-go/internal/document"
	"github.com/deckforge/deckforge/backend-go/internal/geometry"
)

var docSize = geometry.Size{Width: 960, Height: 540}

func TestNewRejectsBadDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 100}, {100, 0}, {-1, 100}} {
		_, err := New(dims[0], dims[1], docSize, nil)
		if !errors.Is(err, ErrInvalidSurface) {
			t.Errorf("New(%d,%d) err = %v, want ErrInvalidSurface", dims[0], dims[1], err)
		}
	}
}

func TestRenderSampleSlide(t *testing.T) {
	r, err := New(960, 540, docSize, nil)
	if err != nil {
		t.Fatal(err)
	}

	pres := document.NewSamplePresentation("pres_sample")
	img := r.Render(&pres.Slides[0], geometry.DefaultViewport(), Options{ShowGrid: true})

	if got := img.Bounds(); got != image.Rect(0, 0, 960, 540) {
		t.Fatalf("bounds = %v", got)
	}
	// The slide must actually paint something over the cleared workspace.
	if uniform(img) {
		t.Error("rendered frame is a single flat color")
	}
}

func TestRenderSkipsEditingElement(t *testing.T) {
	slide := &document.Slide{
		Background: document.Background{Type: document.BackgroundSolid, Color: "#ffffff"},
		Elements: []document.Element{{
			ID:       "el_red",
			Type:     document.ElementShape,
			Position: document.Position{X: 400, Y: 200},
			Size:     document.Dimensions{Width: 160, Height: 140},
			Opacity:  1,
			Shape:    &document.ShapeProps{Kind: document.ShapeRectangle, Fill: "#ff0000"},
		}},
	}

	r, err := New(960, 540, docSize, nil)
	if err != nil {
		t.Fatal(err)
	}

	img := r.Render(slide, geometry.DefaultViewport(), Options{})
	if got := img.At(480, 270); !reddish(got) {
		t.Fatalf("element not painted at center, got %v", got)
	}

	img = r.Render(slide, geometry.DefaultViewport(), Options{EditingElementID: "el_red"})
	if got := img.At(480, 270); reddish(got) {
		t.Fatalf("editing element still painted, got %v", got)
	}
}

func TestSelectionOutlinePainted(t *testing.T) {
	slide := &document.Slide{
		Background: document.Background{Type: document.BackgroundSolid, Color: "#ffffff"},
		Elements: []document.Element{{
			ID:       "el_a",
			Type:     document.ElementShape,
			Position: document.Position{X: 400, Y: 200},
			Size:     document.Dimensions{Width: 160, Height: 140},
			Opacity:  1,
			Shape:    &document.ShapeProps{Kind: document.ShapeRectangle, Fill: "#ffffff"},
		}},
	}

	r, err := New(960, 540, docSize, nil)
	if err != nil {
		t.Fatal(err)
	}

	plain := r.Render(slide, geometry.DefaultViewport(), Options{})
	base := countNonMatching(plain, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})

	selected := r.Render(slide, geometry.DefaultViewport(), Options{
		SelectedElementIDs:   []string{"el_a"},
		ShowSelectionHandles: true,
	})
	decorated := countNonMatching(selected, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})

	if decorated <= base {
		t.Errorf("selection decorations painted no pixels: base=%d decorated=%d", base, decorated)
	}
}

func TestSnapshotDimensions(t *testing.T) {
	r, err := New(960, 540, docSize, nil)
	if err != nil {
		t.Fatal(err)
	}
	pres := document.NewSamplePresentation("pres_sample")

	img, err := r.Snapshot(&pres.Slides[0], 480)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 480, 270) {
		t.Errorf("bounds = %v, want 480x270", got)
	}

	if _, err := r.Snapshot(&pres.Slides[0], 0); !errors.Is(err, ErrInvalidSurface) {
		t.Errorf("zero width err = %v, want ErrInvalidSurface", err)
	}
}

func TestImageCacheLoadsOnce(t *testing.T) {
	var loads atomic.Int32
	loaded := make(chan string, 1)

	cache := NewImageCache(func(source string) (image.Image, error) {
		loads.Add(1)
		return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
	}, func(source string) {
		loaded <- source
	})

	for i := 0; i < 5; i++ {
		cache.Get("asset_1")
	}

	select {
	case src := <-loaded:
		if src != "asset_1" {
			t.Fatalf("onLoad source = %q", src)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("load never completed")
	}

	img, state := cache.Get("asset_1")
	if state != ImageReady || img == nil {
		t.Fatalf("state = %v after load", state)
	}
	if got := loads.Load(); got != 1 {
		t.Errorf("loader invoked %d times, want 1", got)
	}
}

func TestImageCacheFailure(t *testing.T) {
	cache := NewImageCache(func(string) (image.Image, error) {
		return nil, errors.New("no such asset")
	}, nil)

	if _, state := cache.Get(""); state != ImageFailed {
		t.Errorf("empty source state = %v, want failed", state)
	}

	cache.Get("asset_missing")
	deadline := time.After(2 * time.Second)
	for {
		if _, state := cache.Get("asset_missing"); state == ImageFailed {
			return
		}
		select {
		case <-deadline:
			t.Fatal("load never failed")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{0xff, 0xff, 0xff, 0xff}},
		{"#ff0000", color.NRGBA{0xff, 0x00, 0x00, 0xff}},
		{"#00000022", color.NRGBA{0x00, 0x00, 0x00, 0x22}},
		{" #2d8ceb ", color.NRGBA{0x2d, 0x8c, 0xeb, 0xff}},
		{"not-a-color", color.NRGBA{0x00, 0x00, 0x00, 0xff}},
		{"", color.NRGBA{0x00, 0x00, 0x00, 0xff}},
	}
	for _, tc := range cases {
		if got := ParseHexColor(tc.in); got != tc.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func uniform(img *image.RGBA) bool {
	first := img.At(0, 0)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 7 {
		for x := b.Min.X; x < b.Max.X; x += 7 {
			if img.At(x, y) != first {
				return false
			}
		}
	}
	return true
}

func reddish(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r > 0xc000 && g < 0x4000 && b < 0x4000
}

func countNonMatching(img *image.RGBA, bg color.NRGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			wr, wg, wb, _ := bg.RGBA()
			if r != wr || g != wg || bl != wb {
				n++
			}
		}
	}
	return n
}

func TestGradientBackgroundSpansStops(t *testing.T) {
	slide := &document.Slide{
		Background: document.Background{
			Type:      document.BackgroundGradient,
			Color:     "#000000",
			Color2:    "#ffffff",
			Direction: document.GradientHorizontal,
		},
	}
	r, err := New(960, 540, docSize, nil)
	if err != nil {
		t.Fatal(err)
	}

	img := r.Render(slide, geometry.DefaultViewport(), Options{})
	left, _, _, _ := img.At(5, 270).RGBA()
	right, _, _, _ := img.At(954, 270).RGBA()
	if left > 0x2000 {
		t.Errorf("left edge r = %#x, want near black", left)
	}
	if right < 0xd000 {
		t.Errorf("right edge r = %#x, want near white", right)
	}
}

func TestImageCacheConcurrentGets(t *testing.T) {
	release := make(chan struct{})
	loaded := make(chan string, 1)
	var loads atomic.Int32

	cache := NewImageCache(func(string) (image.Image, error) {
		loads.Add(1)
		<-release
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	}, func(source string) {
		loaded <- source
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				cache.Get("asset_busy")
			}
		}()
	}
	close(release)
	wg.Wait()

	select {
	case <-loaded:
	case <-time.After(2 * time.Second):
		t.Fatal("load never completed")
	}

	if got := loads.Load(); got != 1 {
		t.Errorf("loader invoked %d times, want 1", got)
	}
	if _, state := cache.Get("asset_busy"); state != ImageReady {
		t.Errorf("state = %v, want ready", state)
	}
}
