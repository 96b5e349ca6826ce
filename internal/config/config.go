// Package config loads editor settings from an rc-style file: default
// drawing style, export framing, save location and notification toggles.
package config

import (
	"fmt"
	"image/color"
	"strings"
)

// Notify holds per-event notification toggles.
type Notify struct {
	Capture bool
	Save    bool
	Copy    bool
	Export  bool
}

// Style holds the default authoring style applied to new annotations.
type Style struct {
	Color        color.RGBA
	StrokeWidth  float64
	FontSize     float64
	BlurStrength float64
}

// Export holds the decorative background settings for exports.
type Export struct {
	Background   bool
	Padding      int
	Color        color.RGBA
	CornerRadius float64
	Shadow       bool
}

// Config holds the application configuration.
type Config struct {
	SaveDir string
	Notify  Notify
	Style   Style
	Export  Export
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		Style: Style{
			Color:        color.RGBA{R: 255, A: 255},
			StrokeWidth:  4,
			FontSize:     0, // derived from stroke width
			BlurStrength: 12,
		},
		Export: Export{
			Background:   false,
			Padding:      48,
			Color:        color.RGBA{38, 41, 54, 255},
			CornerRadius: 14,
			Shadow:       true,
		},
	}
}

// String returns the configuration in rc format, suitable for writing back to
// the config file.
func (c *Config) String() string {
	var sb strings.Builder

	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n[style]\n")
	fmt.Fprintf(&sb, "color = %s\n", toHex(c.Style.Color))
	fmt.Fprintf(&sb, "stroke_width = %g\n", c.Style.StrokeWidth)
	if c.Style.FontSize > 0 {
		fmt.Fprintf(&sb, "font_size = %g\n", c.Style.FontSize)
	}
	fmt.Fprintf(&sb, "blur_strength = %g\n", c.Style.BlurStrength)

	sb.WriteString("\n[export]\n")
	fmt.Fprintf(&sb, "background = %v\n", c.Export.Background)
	fmt.Fprintf(&sb, "padding = %d\n", c.Export.Padding)
	fmt.Fprintf(&sb, "color = %s\n", toHex(c.Export.Color))
	fmt.Fprintf(&sb, "corner_radius = %g\n", c.Export.CornerRadius)
	fmt.Fprintf(&sb, "shadow = %v\n", c.Export.Shadow)

	sb.WriteString("\n[notify]\n")
	fmt.Fprintf(&sb, "capture = %v\n", c.Notify.Capture)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)

	return sb.String()
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
