package preview

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// maxEdge bounds the longest side of a rendered preview.
const maxEdge = 320

// Manager renders bounded-size JPEG previews into a managed directory and
// deletes them on release. Every preview is released exactly once; a
// second release of the same ref is an error so leaks and double frees
// both surface.
type Manager struct {
	dir string

	mu   sync.Mutex
	open map[string]struct{}
}

// NewManager creates the preview directory if needed.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}
	return &Manager{dir: dir, open: make(map[string]struct{})}, nil
}

// Create renders a preview of the image at path and returns the preview
// file path as its ref.
func (m *Manager) Create(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}

	ref := filepath.Join(m.dir, uuid.NewString()+".jpg")
	out, err := os.Create(ref)
	if err != nil {
		return "", fmt.Errorf("failed to create preview file: %w", err)
	}
	if err := jpeg.Encode(out, scale(src), &jpeg.Options{Quality: 80}); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to encode preview: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to write preview: %w", err)
	}

	m.mu.Lock()
	m.open[ref] = struct{}{}
	m.mu.Unlock()

	return ref, nil
}

// Release deletes the preview file behind ref.
func (m *Manager) Release(ref string) error {
	m.mu.Lock()
	_, ok := m.open[ref]
	delete(m.open, ref)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("unknown preview ref %s", ref)
	}
	return os.Remove(ref)
}

// Open reports how many previews are currently live.
func (m *Manager) Open() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.open)
}

// scale shrinks src so its longest edge is at most maxEdge, preserving the
// aspect ratio. Images already small enough pass through unscaled.
func scale(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src
	}

	if w >= h {
		h = h * maxEdge / w
		w = maxEdge
	} else {
		w = w * maxEdge / h
		h = maxEdge
	}
	if h < 1 {
		h = 1
	}
	if w < 1 {
		w = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
