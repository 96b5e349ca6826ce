package render

import (
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/snapmark/internal/geom"
)

var (
	fontOnce   sync.Once
	parsedFont *opentype.Font
	faceMu     sync.Mutex
	faces      = map[int]font.Face{}
)

// faceForSize returns a cached Go Regular face at roughly the requested pixel
// size. Faces are keyed by rounded size so zoomed canvases reuse them.
func faceForSize(size float64) font.Face {
	fontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			// goregular.TTF is embedded and always parses; a failure here
			// means a corrupted toolchain.
			panic(err)
		}
		parsedFont = f
	})
	key := int(math.Round(size))
	if key < 6 {
		key = 6
	}
	faceMu.Lock()
	defer faceMu.Unlock()
	if face, ok := faces[key]; ok {
		return face
	}
	face, err := opentype.NewFace(parsedFont, &opentype.FaceOptions{
		Size:    float64(key),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		panic(err)
	}
	faces[key] = face
	return face
}

// DrawString renders s with its baseline-left at p.
func DrawString(img *image.RGBA, s string, p geom.Point, c color.RGBA, size float64) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: faceForSize(size),
		Dot:  fixed.P(int(math.Round(p.X)), int(math.Round(p.Y))),
	}
	d.DrawString(s)
}

// MeasureString returns the advance width of s at the given size, in pixels.
func MeasureString(s string, size float64) float64 {
	d := &font.Drawer{Face: faceForSize(size)}
	return float64(d.MeasureString(s)) / 64
}
