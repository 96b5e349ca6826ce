//go:build !linux && !darwin && !windows

package platform

// Notify drops the event on platforms without a notification transport; the
// editor's save and export still succeed, only the toast is lost.
func Notify(title, body string, opts Options) error {
	return nil
}
