package platform

// Options carries the per-notification extras the editor attaches to its
// capture, save, copy and export events.
type Options struct {
	// IconPath, when non-empty, is an image file shown alongside the
	// notification on platforms that support preview icons. The editor uses
	// it for capture thumbnails and saved-file previews.
	IconPath string
}
