package testutil

import (
	"bytes"
	"fmt"
)

// StubThumbnailer renders deterministic fake thumbnails without decoding
// drawing bytes: the output is "thumb-<size>:" followed by the input.
// Inputs beginning with FailPrefix return an error, for exercising
// unrenderable drawings.
type StubThumbnailer struct {
	Calls int
}

// FailPrefix marks drawing bytes the stub refuses to render.
var FailPrefix = []byte("corrupt:")

func NewStubThumbnailer() *StubThumbnailer {
	return &StubThumbnailer{}
}

func (s *StubThumbnailer) Render(drawing []byte, size int) ([]byte, error) {
	s.Calls++
	if bytes.HasPrefix(drawing, FailPrefix) {
		return nil, fmt.Errorf("stub: unrenderable drawing")
	}
	out := fmt.Appendf(nil, "thumb-%d:", size)
	return append(out, drawing...), nil
}
