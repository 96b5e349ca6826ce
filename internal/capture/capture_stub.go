//go:build !linux && !freebsd && !openbsd && !netbsd && !dragonfly

package capture

import (
	"fmt"
	"image"
)

func grabScreen() (*image.RGBA, error) {
	return nil, fmt.Errorf("screen capture is not supported on this platform; open an image file instead")
}

func listMonitors() ([]MonitorInfo, error) {
	return nil, fmt.Errorf("monitor enumeration is not supported on this platform")
}
