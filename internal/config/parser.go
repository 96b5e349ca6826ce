package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
)

// Parse reads rc-format configuration from r. Lines are `key = value`;
// `[section]` headers switch between the root, style, export and notify
// groups. Unknown keys are ignored so configs survive version skew.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)
	var section string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			continue
		}

		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch section {
		case "":
			err = setRootField(cfg, key, value)
		case "style":
			err = setStyleField(&cfg.Style, key, value)
		case "export":
			err = setExportField(&cfg.Export, key, value)
		case "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			return nil, fmt.Errorf("config: section [%s]: %w", section, err)
		}
	}
	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	if key == "save_dir" {
		cfg.SaveDir = value
	}
	return nil
}

func setStyleField(s *Style, key, value string) error {
	switch key {
	case "color":
		c, err := parseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color: %w", err)
		}
		s.Color = c
	case "stroke_width":
		return parseFloat(&s.StrokeWidth, key, value)
	case "font_size":
		return parseFloat(&s.FontSize, key, value)
	case "blur_strength":
		return parseFloat(&s.BlurStrength, key, value)
	}
	return nil
}

func setExportField(e *Export, key, value string) error {
	switch key {
	case "background":
		return parseBool(&e.Background, key, value)
	case "padding":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for key %s: %w", key, err)
		}
		e.Padding = n
	case "color":
		c, err := parseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color: %w", err)
		}
		e.Color = c
	case "corner_radius":
		return parseFloat(&e.CornerRadius, key, value)
	case "shadow":
		return parseBool(&e.Shadow, key, value)
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	switch key {
	case "capture":
		return parseBool(&n.Capture, key, value)
	case "save":
		return parseBool(&n.Save, key, value)
	case "copy":
		return parseBool(&n.Copy, key, value)
	case "export":
		return parseBool(&n.Export, key, value)
	}
	return nil
}

func parseBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	*dst = b
	return nil
}

func parseFloat(dst *float64, key, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	*dst = f
	return nil
}

// parseColor parses #RRGGBB or #RRGGBBAA.
func parseColor(s string) (color.RGBA, error) {
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("color must start with #")
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 16),
			G: uint8((val >> 8) & 0xFF),
			B: uint8(val & 0xFF),
			A: 255,
		}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 24),
			G: uint8((val >> 16) & 0xFF),
			B: uint8((val >> 8) & 0xFF),
			A: uint8(val & 0xFF),
		}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid hex length")
}
