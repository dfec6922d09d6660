// Package drawing holds the serialized vector-path format for hand-drawn
// doodles and the rasterizer that turns them into thumbnail caches.
package drawing

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Drawings are stored as polyline strokes on a fixed square logical canvas.
// Wire format, little-endian:
//
//	magic "DRW1"
//	uint32 stroke count
//	per stroke: uint32 point count, then float32 x, float32 y per point
const CanvasSize = 256

var magic = []byte("DRW1")

// ErrInvalidDrawing indicates bytes that do not decode as a drawing.
var ErrInvalidDrawing = errors.New("invalid drawing data")

// maxPoints bounds decoding so corrupt counts cannot allocate unbounded memory.
const maxPoints = 1 << 20

// Point is a coordinate on the logical canvas.
type Point struct {
	X, Y float32
}

// Stroke is one continuous pen movement.
type Stroke struct {
	Points []Point
}

// Drawing is a sequence of strokes.
type Drawing struct {
	Strokes []Stroke
}

// IsEmpty reports whether the drawing contains no points at all.
func (d *Drawing) IsEmpty() bool {
	for _, s := range d.Strokes {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}

// Encode serializes the drawing to its wire form.
func Encode(d *Drawing) []byte {
	var buf bytes.Buffer
	buf.Write(magic)
	writeUint32(&buf, uint32(len(d.Strokes)))
	for _, s := range d.Strokes {
		writeUint32(&buf, uint32(len(s.Points)))
		for _, p := range s.Points {
			writeUint32(&buf, math.Float32bits(p.X))
			writeUint32(&buf, math.Float32bits(p.Y))
		}
	}
	return buf.Bytes()
}

// Decode parses wire-form bytes into a Drawing. Corrupt or truncated input
// returns an error wrapping ErrInvalidDrawing; it never panics.
func Decode(data []byte) (*Drawing, error) {
	if len(data) < len(magic) || !bytes.Equal(data[:len(magic)], magic) {
		return nil, fmt.Errorf("%w: missing header", ErrInvalidDrawing)
	}
	r := bytes.NewReader(data[len(magic):])

	strokeCount, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("%w: truncated stroke count", ErrInvalidDrawing)
	}
	if strokeCount > maxPoints {
		return nil, fmt.Errorf("%w: stroke count %d out of range", ErrInvalidDrawing, strokeCount)
	}

	d := &Drawing{Strokes: make([]Stroke, 0, strokeCount)}
	total := uint32(0)
	for i := uint32(0); i < strokeCount; i++ {
		pointCount, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("%w: truncated point count", ErrInvalidDrawing)
		}
		total += pointCount
		if pointCount > maxPoints || total > maxPoints {
			return nil, fmt.Errorf("%w: point count %d out of range", ErrInvalidDrawing, pointCount)
		}
		s := Stroke{Points: make([]Point, 0, pointCount)}
		for j := uint32(0); j < pointCount; j++ {
			xb, err := readUint32(r)
			if err != nil {
				return nil, fmt.Errorf("%w: truncated point", ErrInvalidDrawing)
			}
			yb, err := readUint32(r)
			if err != nil {
				return nil, fmt.Errorf("%w: truncated point", ErrInvalidDrawing)
			}
			s.Points = append(s.Points, Point{X: math.Float32frombits(xb), Y: math.Float32frombits(yb)})
		}
		d.Strokes = append(d.Strokes, s)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidDrawing, r.Len())
	}
	return d, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}
