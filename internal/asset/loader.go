package asset

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// Loader resolves element image sources against the asset directory for the
// render image cache. Sources may be a bare asset id, "asset_x.png", or the
// "/assets/asset_x.png" URL the upload endpoint hands out.
func (h *Handler) Loader() func(source string) (image.Image, error) {
	return func(source string) (image.Image, error) {
		name := strings.TrimPrefix(source, "/assets/")
		name = filepath.Base(name)
		if name == "" || name == "." {
			return nil, fmt.Errorf("empty asset source")
		}
		if !strings.HasSuffix(name, ".png") {
			name += ".png"
		}

		f, err := os.Open(filepath.Join(h.dir, name))
		if err != nil {
			return nil, fmt.Errorf("open asset %s: %w", name, err)
		}
		defer f.Close()

		img, err := png.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode asset %s: %w", name, err)
		}
		return img, nil
	}
}
