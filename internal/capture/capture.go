// Package capture grabs screen pixels to seed an annotation session. On X11
// it reads the root window directly; other platforms return a descriptive
// error and callers fall back to opening an image file.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strconv"
	"strings"
)

// MonitorInfo describes one monitor in the screen layout.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

var errNoMonitors = errors.New("no monitors available")

// Screen captures the whole desktop. A non-empty display selector crops the
// result to the matching monitor.
func Screen(display string) (*image.RGBA, error) {
	img, err := grabScreen()
	if err != nil {
		return nil, err
	}
	if display == "" {
		return img, nil
	}
	monitors, err := Monitors()
	if err != nil {
		return nil, err
	}
	mon, err := FindMonitor(monitors, display)
	if err != nil {
		return nil, err
	}
	return cropRect(img, mon.Rect)
}

// Region captures a specific rectangle in global screen coordinates.
func Region(rect image.Rectangle) (*image.RGBA, error) {
	if rect.Empty() {
		return nil, fmt.Errorf("region is empty")
	}
	img, err := grabScreen()
	if err != nil {
		return nil, err
	}
	return cropRect(img, rect)
}

// Monitors lists the connected monitors.
func Monitors() ([]MonitorInfo, error) {
	monitors, err := listMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, errNoMonitors
	}
	return monitors, nil
}

// FindMonitor resolves a selector ("primary", an index like "1" or "#1", or a
// case-insensitive name fragment) against the monitor list.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" {
		return monitors[0], nil
	}
	if sel == "primary" {
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	if idx, err := strconv.Atoi(strings.TrimPrefix(sel, "#")); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), sel) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

func cropRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
