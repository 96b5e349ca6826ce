package capture

import (
	"image"
	"image/color"
	"testing"
)

func testMonitors() []MonitorInfo {
	return []MonitorInfo{
		{Index: 0, Name: "eDP-1", Rect: image.Rect(0, 0, 1920, 1080)},
		{Index: 1, Name: "DP-2", Rect: image.Rect(1920, 0, 4480, 1440), Primary: true},
	}
}

func TestFindMonitorSelectors(t *testing.T) {
	monitors := testMonitors()

	cases := []struct {
		selector string
		want     string
	}{
		{"", "eDP-1"},
		{"primary", "DP-2"},
		{"1", "DP-2"},
		{"#0", "eDP-1"},
		{"dp-2", "DP-2"},
		{"edp", "eDP-1"},
	}
	for _, tc := range cases {
		mon, err := FindMonitor(monitors, tc.selector)
		if err != nil {
			t.Fatalf("FindMonitor(%q): %v", tc.selector, err)
		}
		if mon.Name != tc.want {
			t.Fatalf("FindMonitor(%q) = %s, want %s", tc.selector, mon.Name, tc.want)
		}
	}
}

func TestFindMonitorErrors(t *testing.T) {
	monitors := testMonitors()
	if _, err := FindMonitor(monitors, "5"); err == nil {
		t.Fatal("out-of-range index accepted")
	}
	if _, err := FindMonitor(monitors, "HDMI-9"); err == nil {
		t.Fatal("unknown name accepted")
	}
	if _, err := FindMonitor(nil, "primary"); err == nil {
		t.Fatal("empty monitor list accepted")
	}
}

func TestCropRect(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	src.Set(60, 60, color.RGBA{255, 0, 0, 255})

	out, err := cropRect(src, image.Rect(50, 50, 80, 80))
	if err != nil {
		t.Fatal(err)
	}
	if out.Bounds().Dx() != 30 || out.Bounds().Dy() != 30 {
		t.Fatalf("crop = %v", out.Bounds())
	}
	if got := out.RGBAAt(10, 10); got.R != 255 {
		t.Fatalf("crop misaligned: %+v", got)
	}

	// Partially overlapping rects clip to the source.
	out, err = cropRect(src, image.Rect(90, 90, 200, 200))
	if err != nil {
		t.Fatal(err)
	}
	if out.Bounds().Dx() != 10 {
		t.Fatalf("clip = %v", out.Bounds())
	}

	if _, err := cropRect(src, image.Rect(200, 200, 300, 300)); err == nil {
		t.Fatal("disjoint crop accepted")
	}
}
