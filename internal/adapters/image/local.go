// Package image stores uploaded event images on the local filesystem.
package image

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"eventhub/internal/domain"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// MaxWidth is the widest image kept; larger uploads are scaled down.
const MaxWidth = 1600

// URLPrefix is the path under which saved images are served.
const URLPrefix = "/uploads/"

type localStore struct {
	dir     string
	baseURL string
}

// NewLocalStore returns an ImageStore writing into dir and returning URLs under baseURL + URLPrefix.
func NewLocalStore(dir, baseURL string) domain.ImageStore {
	return &localStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Save decodes data, normalizes orientation and size, and re-encodes it as PNG when the
// upload was a PNG and as JPEG otherwise.
func (s *localStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.NewValidationError("image", "file is empty")
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", domain.NewValidationError("image", "unsupported or corrupt image")
	}
	if img.Bounds().Dx() > MaxWidth {
		img = imaging.Resize(img, MaxWidth, 0, imaging.Lanczos)
	}

	format, ext := imaging.JPEG, ".jpg"
	if f, err := imaging.FormatFromFilename(filename); err == nil && f == imaging.PNG {
		format, ext = imaging.PNG, ".png"
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if err := imaging.Encode(f, img, format, imaging.JPEGQuality(85)); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("encode image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return s.baseURL + URLPrefix + name, nil
}
