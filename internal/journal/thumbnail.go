package journal

// Thumbnail edge sizes in pixels.
const (
	ThumbSizeSmall  = 64
	ThumbSizeMedium = 160
)

// Thumbnailer rasterizes drawing bytes into a square thumbnail with the
// given edge size. The core treats it as a pure function: thumbnails are
// regenerable caches, never authoritative.
type Thumbnailer interface {
	Render(drawing []byte, size int) ([]byte, error)
}
