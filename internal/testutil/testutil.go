package testutil

import (
	"flag"
	"image"
	"math/rand/v2"
	"testing"
)

var RunLong = flag.Bool("long", false, "run long/heavy tests")

func RequireLong(t *testing.T) {
	t.Helper()
	if !*RunLong {
		t.Skip("skipping long test (use -long to enable)")
	}
}

// NoiseImage returns an opaque w x h cover with pseudo-random channels, so a
// wrong seed reads random header bits instead of zeros.
func NoiseImage(w, h int, seed uint64) *image.NRGBA {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(r.Uint32())
		img.Pix[i+1] = uint8(r.Uint32())
		img.Pix[i+2] = uint8(r.Uint32())
		img.Pix[i+3] = 255
	}
	return img
}
