package clipboard

import (
	"image"
	"os"
	"testing"
)

func TestWriteImageWithoutDisplay(t *testing.T) {
	if os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != "" {
		t.Skip("display available; headless-only test")
	}
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := WriteImage(img); err == nil {
		t.Fatal("expected an error without a display server")
	}
}
