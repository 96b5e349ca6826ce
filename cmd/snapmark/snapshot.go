package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/clipboard"
)

// snapshotCmd captures the screen without opening the editor.
type snapshotCmd struct {
	output      string
	monitor     string
	region      string
	toClipboard bool
	*root
	fs *flag.FlagSet
}

func (s *snapshotCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseSnapshotCmd(args []string, r *root) (*snapshotCmd, error) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	s := &snapshotCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	fs.StringVar(&s.output, "output", "", "output file path (default: snapmark-<timestamp>.png in save_dir)")
	fs.StringVar(&s.monitor, "monitor", "", "monitor selector: primary, #N or a name fragment")
	fs.StringVar(&s.region, "region", "", "capture region as x,y,width,height in screen pixels")
	fs.BoolVar(&s.toClipboard, "to-clipboard", false, "copy the capture to the clipboard instead of saving")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: s}
	}
	if s.monitor != "" && s.region != "" {
		return nil, fmt.Errorf("-monitor and -region are mutually exclusive")
	}
	return s, nil
}

func (s *snapshotCmd) Run() error {
	img, detail, err := s.capture()
	if err != nil {
		return err
	}
	s.root.notifyCapture(detail, img)

	if s.toClipboard {
		if err := clipboard.WriteImage(img); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "copied capture to clipboard")
		s.root.notifyCopy(detail)
		return nil
	}

	path := s.output
	if path == "" {
		name := "snapmark-" + time.Now().Format("20060102-150405") + ".png"
		path = filepath.Join(s.root.config.SaveDir, name)
	}
	if err := savePNG(path, img); err != nil {
		return err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", path)
	s.root.notifySave(path)
	return nil
}

func (s *snapshotCmd) capture() (*image.RGBA, string, error) {
	if s.region != "" {
		rect, err := parseRegion(s.region)
		if err != nil {
			return nil, "", err
		}
		img, err := capture.Region(rect)
		return img, "region", err
	}
	if s.monitor != "" {
		img, err := captureMonitor(s.monitor)
		return img, s.monitor, err
	}
	img, err := capture.Screen("")
	return img, "screen", err
}

func parseRegion(spec string) (image.Rectangle, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("region must be x,y,width,height")
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid region component %q", p)
		}
		vals[i] = v
	}
	if vals[2] < 1 || vals[3] < 1 {
		return image.Rectangle{}, fmt.Errorf("region must have positive size")
	}
	return image.Rect(vals[0], vals[1], vals[0]+vals[2], vals[1]+vals[3]), nil
}
