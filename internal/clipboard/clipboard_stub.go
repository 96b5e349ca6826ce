//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"errors"
	"image"
)

// ErrUnsupported is returned on platforms without a clipboard backend;
// exports can still be saved to disk.
var ErrUnsupported = errors.New("snapmark: no clipboard backend on this platform")

func WriteImage(image.Image) error {
	return ErrUnsupported
}

func ReadImage() (image.Image, error) {
	return nil, ErrUnsupported
}

func WriteText(string) error {
	return ErrUnsupported
}

func ReadText() (string, error) {
	return "", ErrUnsupported
}
