package drawing

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// Renderer rasterizes drawings into square grayscale PNG thumbnails.
// It is stateless and safe for concurrent use.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// Render decodes the drawing bytes and rasterizes them onto a white
// size×size canvas, dark strokes on light background.
func (r *Renderer) Render(data []byte, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid thumbnail size %d", size)
	}
	d, err := Decode(data)
	if err != nil {
		return nil, err
	}

	img := image.NewGray(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}

	scale := float32(size) / float32(CanvasSize)
	for _, s := range d.Strokes {
		if len(s.Points) == 1 {
			plot(img, s.Points[0].X*scale, s.Points[0].Y*scale)
			continue
		}
		for i := 1; i < len(s.Points); i++ {
			a, b := s.Points[i-1], s.Points[i]
			segment(img, a.X*scale, a.Y*scale, b.X*scale, b.Y*scale)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// segment draws a line by sampling it densely enough that adjacent samples
// land on neighboring pixels.
func segment(img *image.Gray, x0, y0, x1, y1 float32) {
	dx, dy := x1-x0, y1-y0
	steps := int(abs(dx)) + int(abs(dy)) + 1
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		plot(img, x0+dx*t, y0+dy*t)
	}
}

func plot(img *image.Gray, x, y float32) {
	px, py := int(x), int(y)
	if image.Pt(px, py).In(img.Bounds()) {
		img.SetGray(px, py, color.Gray{Y: 0x20})
	}
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
