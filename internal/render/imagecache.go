package render

import (
	"image"
	"log/slog"
	"sync"
)

// ImageState is the lifecycle of a cached image source.
type ImageState int

const (
	ImagePending ImageState = iota
	ImageReady
	ImageFailed
)

// LoadFunc resolves an image source (asset id or URL) to decoded pixels.
type LoadFunc func(source string) (image.Image, error)

// ImageCache requests each unique source exactly once and decodes it off
// the render path. The renderer never waits for a load mid-frame: Get
// returns ImagePending and the caller paints a fallback; when the decode
// finishes, onLoad asks the host for a full re-paint. A load that resolves
// after its element was deleted just sits unused in the cache.
type ImageCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	load    LoadFunc
	onLoad  func(source string)
}

type cacheEntry struct {
	img   image.Image
	state ImageState
}

// NewImageCache creates a cache. onLoad may be nil when no host repaint
// trigger exists (snapshot export renders once and accepts fallbacks).
func NewImageCache(load LoadFunc, onLoad func(source string)) *ImageCache {
	return &ImageCache{
		entries: make(map[string]*cacheEntry),
		load:    load,
		onLoad:  onLoad,
	}
}

// Get returns the image for source if decoded, otherwise kicks off a load
// (once per source) and reports the current state.
func (c *ImageCache) Get(source string) (image.Image, ImageState) {
	if source == "" {
		return nil, ImageFailed
	}

	c.mu.Lock()
	if e, ok := c.entries[source]; ok {
		// Copy under the lock; fetch writes these fields concurrently.
		img, state := e.img, e.state
		c.mu.Unlock()
		return img, state
	}
	e := &cacheEntry{state: ImagePending}
	c.entries[source] = e
	c.mu.Unlock()

	go c.fetch(source, e)
	return nil, ImagePending
}

func (c *ImageCache) fetch(source string, e *cacheEntry) {
	img, err := c.load(source)

	c.mu.Lock()
	if err != nil {
		e.state = ImageFailed
	} else {
		e.img = img
		e.state = ImageReady
	}
	c.mu.Unlock()

	if err != nil {
		slog.Warn("image load failed", "source", source, "error", err)
		return
	}
	if c.onLoad != nil {
		c.onLoad(source)
	}
}
