// Package export renders slides to raster files over HTTP.
package export

import (
	"image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/deckforge/deckforge/backend-go/internal/auth"
	"github.com/deckforge/deckforge/backend-go/internal/document"
	"github.com/deckforge/deckforge/backend-go/internal/geometry"
	"github.com/deckforge/deckforge/backend-go/internal/presentation"
	"github.com/deckforge/deckforge/backend-go/internal/render"
)

const (
	defaultExportWidth = 1920
	maxExportWidth     = 7680
	jpegQuality        = 90
	imageWarmupBudget  = 3 * time.Second
)

// Handler serves slide raster exports.
type Handler struct {
	presentations *presentation.Service
	loadImage     render.LoadFunc
}

func NewHandler(presentations *presentation.Service, loadImage render.LoadFunc) *Handler {
	return &Handler{presentations: presentations, loadImage: loadImage}
}

// ExportSlide handles GET /export/{presentationId}/{slideId}?width=&format=.
// Image sources are given a bounded warm-up window; any still undecoded
// render as placeholders rather than failing the export.
func (h *Handler) ExportSlide(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	presentationID := vars["presentationId"]
	slideID := vars["slideId"]

	userID := auth.UserIDFromContext(r.Context())
	if _, err := h.presentations.Get(r.Context(), presentationID, userID); err != nil {
		http.Error(w, "presentation not found", http.StatusNotFound)
		return
	}

	width := defaultExportWidth
	if s := r.URL.Query().Get("width"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 || v > maxExportWidth {
			http.Error(w, "invalid width", http.StatusBadRequest)
			return
		}
		width = v
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "png"
	}
	if format != "png" && format != "jpeg" {
		http.Error(w, "format must be png or jpeg", http.StatusBadRequest)
		return
	}

	doc, err := h.presentations.LoadDocument(r.Context(), presentationID)
	if err != nil {
		http.Error(w, "presentation not found", http.StatusNotFound)
		return
	}
	slide := doc.SlideByID(slideID)
	if slide == nil {
		http.Error(w, "slide not found", http.StatusNotFound)
		return
	}

	cache := render.NewImageCache(h.loadImage, nil)
	warmImages(cache, slide)

	renderer, err := render.New(int(doc.Width), int(doc.Height), geometry.Size{Width: doc.Width, Height: doc.Height}, cache)
	if err != nil {
		slog.Error("create renderer", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	img, err := renderer.Snapshot(slide, width)
	if err != nil {
		slog.Error("render snapshot", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	switch format {
	case "jpeg":
		w.Header().Set("Content-Type", "image/jpeg")
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	default:
		w.Header().Set("Content-Type", "image/png")
		err = png.Encode(w, img)
	}
	if err != nil {
		slog.Error("encode export", "error", err, "format", format)
	}
}

// warmImages kicks off every image load on the slide and waits until they
// settle or the budget runs out.
func warmImages(cache *render.ImageCache, slide *document.Slide) {
	sources := slide.ImageSources()
	if len(sources) == 0 {
		return
	}
	for _, src := range sources {
		cache.Get(src)
	}

	deadline := time.Now().Add(imageWarmupBudget)
	for time.Now().Before(deadline) {
		pending := false
		for _, src := range sources {
			if _, state := cache.Get(src); state == render.ImagePending {
				pending = true
				break
			}
		}
		if !pending {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
}
