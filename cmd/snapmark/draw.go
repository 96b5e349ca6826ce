package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/snapmark/internal/annotation"
	"github.com/example/snapmark/internal/canvas"
	"github.com/example/snapmark/internal/clipboard"
	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/imagecache"
	"github.com/example/snapmark/internal/render"
)

// drawCmd applies one annotation to an image without opening the editor.
// Coordinates are given in pixels of the input image.
type drawCmd struct {
	file          string
	output        string
	fromClipboard bool
	toClipboard   bool
	colorSpec     string
	color         color.RGBA
	width         float64
	textSize      float64
	blurStrength  float64
	cropSpec      string
	crop          *geom.Rect
	background    bool
	overlayPath   string

	shape  string
	coords []float64
	text   string
	number int
	radius float64
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if strings.HasPrefix(spec, "#") && (len(spec) == 7 || len(spec) == 9) {
		r, err1 := strconv.ParseUint(spec[1:3], 16, 8)
		g, err2 := strconv.ParseUint(spec[3:5], 16, 8)
		b, err3 := strconv.ParseUint(spec[5:7], 16, 8)
		if err1 != nil || err2 != nil || err3 != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		a := uint64(255)
		if len(spec) == 9 {
			val, err := strconv.ParseUint(spec[7:9], 16, 8)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("invalid color %q", s)
			}
			a = val
		}
		return color.RGBA{uint8(r), uint8(g), uint8(b), uint8(a)}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.file, "file", "", "input image file")
	fs.StringVar(&d.output, "output", "", "output file path (defaults to input file)")
	fs.BoolVar(&d.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.StringVar(&d.colorSpec, "color", "red", "stroke color name or hex value")
	fs.Float64Var(&d.width, "width", r.config.Style.StrokeWidth, "stroke width in pixels at input resolution")
	fs.Float64Var(&d.textSize, "text-size", 0, "text size in points (0 derives from stroke width)")
	fs.Float64Var(&d.blurStrength, "blur-strength", r.config.Style.BlurStrength, "pixelation block size for blur regions")
	fs.StringVar(&d.cropSpec, "crop", "", "crop window as four unit fractions minx,miny,maxx,maxy")
	fs.BoolVar(&d.background, "background", r.config.Export.Background, "frame the export on a decorative background")
	fs.StringVar(&d.overlayPath, "image", "", "image file placed by the overlay shape")

	flagArgs, positionals, err := splitDrawArgs(args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) < 1 {
		return nil, &UsageError{of: d}
	}
	d.shape = strings.ToLower(positionals[0])
	remaining := positionals[1:]
	switch d.shape {
	case "arrow", "curved-arrow", "line", "rect", "ellipse", "highlight", "blur":
		d.coords, err = expectFloats(remaining, 4, d.shape)
	case "overlay":
		d.coords, err = expectFloats(remaining, 4, d.shape)
		if err == nil && d.overlayPath == "" {
			err = fmt.Errorf("overlay requires -image")
		}
	case "magnifier":
		if len(remaining) == 5 {
			var vals []float64
			vals, err = expectFloats(remaining, 5, d.shape)
			if err == nil {
				d.coords = vals[:4]
				d.radius = vals[4]
			}
		} else {
			d.coords, err = expectFloats(remaining, 4, d.shape)
		}
	case "number":
		var vals []float64
		vals, err = expectFloats(remaining, 3, d.shape)
		if err == nil {
			d.coords = vals[:2]
			d.number = int(vals[2])
		}
	case "text":
		if len(remaining) < 3 {
			return nil, fmt.Errorf("text requires x y and content")
		}
		d.coords, err = expectFloats(remaining[:2], 2, d.shape)
		if err == nil {
			d.text = strings.Join(remaining[2:], " ")
			if strings.TrimSpace(d.text) == "" {
				return nil, fmt.Errorf("text content cannot be empty")
			}
		}
	default:
		return nil, fmt.Errorf("unsupported shape %q", d.shape)
	}
	if err != nil {
		return nil, err
	}

	colorVal, err := parseDrawColor(d.colorSpec)
	if err != nil {
		return nil, err
	}
	d.color = colorVal
	if d.cropSpec != "" {
		crop, err := parseCrop(d.cropSpec)
		if err != nil {
			return nil, err
		}
		d.crop = &crop
	}
	if d.fromClipboard {
		if d.output == "" {
			if d.file == "" {
				return nil, fmt.Errorf("output file is required when reading from the clipboard")
			}
			d.output = d.file
		}
	} else {
		if d.file == "" {
			return nil, fmt.Errorf("input file is required")
		}
		if d.output == "" {
			d.output = d.file
		}
	}
	if d.width < 1 {
		d.width = 1
	}
	return d, nil
}

func (d *drawCmd) Run() error {
	src, err := d.loadSource()
	if err != nil {
		return err
	}
	b := src.Bounds()
	display := canvas.Sz(float64(b.Dx()), float64(b.Dy()))

	a, err := d.buildAnnotation(display)
	if err != nil {
		return err
	}

	opts := render.ExportOptions{Crop: d.crop}
	if d.background {
		bg := render.BackgroundOptions{
			Padding:      d.root.config.Export.Padding,
			Color:        d.root.config.Export.Color,
			CornerRadius: d.root.config.Export.CornerRadius,
			Shadow:       d.root.config.Export.Shadow,
		}
		opts.Background = &bg
	}
	if d.shape == "overlay" {
		cache := imagecache.New(nil)
		if _, err := cache.Load(d.overlayPath); err != nil {
			return fmt.Errorf("load overlay image: %w", err)
		}
		opts.Images = cache
	}
	out := render.Export(src, []annotation.Annotation{a}, opts)

	if err := savePNG(d.output, out); err != nil {
		return err
	}
	saved := d.output
	if abs, err := filepath.Abs(d.output); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	d.root.notifyExport(saved)

	if d.toClipboard {
		if err := clipboard.WriteImage(out); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		detail := filepath.Base(d.output)
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		d.root.notifyCopy(detail)
	}
	return nil
}

// buildAnnotation converts the pixel arguments into the stored unit-square
// form, referenced against the input image's minimum dimension.
func (d *drawCmd) buildAnnotation(display canvas.Size) (annotation.Annotation, error) {
	a := annotation.Annotation{
		Color:        d.color,
		StrokeWidth:  d.width,
		RefMinDim:    display.MinDim(),
		BlurStrength: d.blurStrength,
		FontSize:     d.textSize,
	}
	unit := func(i int) geom.Point {
		return canvas.ToUnit(geom.Pt(d.coords[i], d.coords[i+1]), display)
	}

	switch d.shape {
	case "arrow":
		a.Tool = annotation.ToolStraightArrow
		a.Points = []geom.Point{unit(0), unit(2)}
	case "curved-arrow":
		a.Tool = annotation.ToolCurvedArrow
		a.Points = []geom.Point{unit(0), unit(2)}
	case "line":
		a.Tool = annotation.ToolLine
		a.Points = []geom.Point{unit(0), unit(2)}
	case "rect":
		a.Tool = annotation.ToolRect
		a.Points = []geom.Point{unit(0), unit(2)}
	case "ellipse":
		a.Tool = annotation.ToolEllipse
		a.Points = []geom.Point{unit(0), unit(2)}
	case "highlight":
		a.Tool = annotation.ToolHighlighter
		a.Points = []geom.Point{unit(0), unit(2)}
	case "blur":
		a.Tool = annotation.ToolBlur
		a.Points = []geom.Point{unit(0), unit(2)}
	case "overlay":
		a.Tool = annotation.ToolImageOverlay
		a.Points = []geom.Point{unit(0), unit(2)}
		a.ImagePath = d.overlayPath
	case "magnifier":
		a.Tool = annotation.ToolMagnifier
		a.Points = []geom.Point{unit(0), unit(2)}
		if d.radius > 0 {
			a.MagnifierRadius = d.radius
		}
	case "number":
		a.Tool = annotation.ToolNumberBadge
		a.Points = []geom.Point{unit(0)}
		a.Text = strconv.Itoa(d.number)
	case "text":
		a.Tool = annotation.ToolText
		a.Points = []geom.Point{unit(0)}
		a.Text = d.text
	default:
		return a, fmt.Errorf("unhandled shape %q", d.shape)
	}
	return a, nil
}

func (d *drawCmd) loadSource() (*image.RGBA, error) {
	if d.fromClipboard {
		img, err := clipboard.ReadImage()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		b := img.Bounds()
		rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
		return rgba, nil
	}
	return loadImage(d.file)
}

func expectFloats(args []string, n int, shape string) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d numeric arguments", shape, n)
	}
	vals := make([]float64, n)
	for i, raw := range args {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}

// parseCrop reads minx,miny,maxx,maxy as unit-square fractions.
func parseCrop(spec string) (geom.Rect, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return geom.Rect{}, fmt.Errorf("crop must be minx,miny,maxx,maxy")
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v < 0 || v > 1 {
			return geom.Rect{}, fmt.Errorf("crop components must be fractions in [0, 1]")
		}
		vals[i] = v
	}
	r := geom.RectFromCorners(geom.Pt(vals[0], vals[1]), geom.Pt(vals[2], vals[3]))
	if r.Width() <= 0 || r.Height() <= 0 {
		return geom.Rect{}, fmt.Errorf("crop window must have positive size")
	}
	return r, nil
}

var drawFlagNames = map[string]struct{}{
	"file":           {},
	"output":         {},
	"from-clipboard": {},
	"to-clipboard":   {},
	"color":          {},
	"width":          {},
	"text-size":      {},
	"blur-strength":  {},
	"crop":           {},
	"background":     {},
	"image":          {},
}

var drawBoolFlags = map[string]struct{}{
	"from-clipboard": {},
	"to-clipboard":   {},
	"background":     {},
}

// splitDrawArgs lets flags appear before or after the shape arguments, since
// negative coordinates would otherwise be eaten by the flag parser.
func splitDrawArgs(args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if name == "" {
			positionals = append(positionals, arg)
			continue
		}
		parts := strings.SplitN(name, "=", 2)
		base := strings.ToLower(parts[0])
		if _, ok := drawFlagNames[base]; !ok {
			positionals = append(positionals, arg)
			continue
		}
		norm := "-" + base
		if len(parts) == 2 {
			flags = append(flags, norm+"="+parts[1])
			continue
		}
		if _, ok := drawBoolFlags[base]; ok {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}
