package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"os"

	_ "image/jpeg"
	"image/png"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/ui"
)

// annotateCmd opens the interactive editor on a capture or an existing file.
type annotateCmd struct {
	mode    string
	file    string
	output  string
	monitor string
	overlay string
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.file, "file", "", "image file to annotate")
	fs.StringVar(&a.output, "output", "annotated.png", "output file path")
	fs.StringVar(&a.monitor, "monitor", "", "monitor selector: primary, #N or a name fragment")
	fs.StringVar(&a.overlay, "image", "", "image file placed by the overlay tool")
	if len(args) < 1 {
		return nil, &UsageError{of: a}
	}
	a.mode = args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	var img *image.RGBA
	switch a.mode {
	case "capture":
		src, err := captureMonitor(a.monitor)
		if err != nil {
			return err
		}
		img = src
		a.root.notifyCapture("screen", img)
	case "open":
		if a.file == "" {
			return &UsageError{of: a}
		}
		src, err := loadImage(a.file)
		if err != nil {
			return err
		}
		img = src
	default:
		return &UsageError{of: a}
	}

	session := &ui.Session{
		Source:  img,
		Output:  a.output,
		Overlay: a.overlay,
		Config:  a.root.config,
		Notify:  a.root.notifier,
	}
	session.Run()
	return nil
}

// captureMonitor grabs one monitor, or the whole virtual screen when no
// selector is given.
func captureMonitor(selector string) (*image.RGBA, error) {
	if selector == "" {
		return capture.Screen("")
	}
	monitors, err := capture.Monitors()
	if err != nil {
		return nil, err
	}
	mon, err := capture.FindMonitor(monitors, selector)
	if err != nil {
		return nil, err
	}
	return capture.Region(mon.Rect)
}

func loadImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	b := dec.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), dec, b.Min, draw.Src)
	return img, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
