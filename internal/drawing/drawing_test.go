package drawing

import (
	"errors"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	t.Run("round-trip", func(t *testing.T) {
		d := &Drawing{
			Strokes: []Stroke{
				{Points: []Point{{X: 10, Y: 20}, {X: 30.5, Y: 40.25}, {X: 255, Y: 0}}},
				{Points: []Point{{X: 128, Y: 128}}},
			},
		}

		got, err := Decode(Encode(d))
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if len(got.Strokes) != 2 {
			t.Fatalf("len(Strokes) = %d, want 2", len(got.Strokes))
		}
		if len(got.Strokes[0].Points) != 3 {
			t.Errorf("stroke 0 points = %d, want 3", len(got.Strokes[0].Points))
		}
		if p := got.Strokes[0].Points[1]; p.X != 30.5 || p.Y != 40.25 {
			t.Errorf("point = %+v, want {30.5 40.25}", p)
		}
	})

	t.Run("empty drawing round-trips", func(t *testing.T) {
		got, err := Decode(Encode(&Drawing{}))
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if !got.IsEmpty() {
			t.Error("decoded drawing should be empty")
		}
	})
}

func TestDecode_Invalid(t *testing.T) {
	valid := Encode(&Drawing{Strokes: []Stroke{{Points: []Point{{X: 1, Y: 2}}}}})

	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"short header", []byte("DR")},
		{"wrong magic", []byte("PNG1\x00\x00\x00\x00")},
		{"truncated stroke count", []byte("DRW1\x01")},
		{"truncated point count", []byte("DRW1\x01\x00\x00\x00")},
		{"truncated point data", valid[:len(valid)-3]},
		{"trailing bytes", append(append([]byte{}, valid...), 0x00)},
		{"huge stroke count", []byte("DRW1\xff\xff\xff\xff")},
		{"huge point count", []byte("DRW1\x01\x00\x00\x00\xff\xff\xff\xff")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if err == nil {
				t.Fatal("Decode() expected error")
			}
			if !errors.Is(err, ErrInvalidDrawing) {
				t.Errorf("error = %v, want ErrInvalidDrawing", err)
			}
		})
	}
}

func TestDrawing_IsEmpty(t *testing.T) {
	if !(&Drawing{}).IsEmpty() {
		t.Error("no strokes should be empty")
	}
	if !(&Drawing{Strokes: []Stroke{{}}}).IsEmpty() {
		t.Error("a pointless stroke should still be empty")
	}
	if (&Drawing{Strokes: []Stroke{{Points: []Point{{X: 1, Y: 1}}}}}).IsEmpty() {
		t.Error("a stroke with a point is not empty")
	}
}
