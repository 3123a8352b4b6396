package character

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// seqRand replays fixed values, wrapping each into [0, n).
type seqRand struct {
	vals  []int
	i     int
	calls int
}

func (s *seqRand) IntN(n int) int {
	s.calls++
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func pngPhoto(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 120, G: 80, B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
