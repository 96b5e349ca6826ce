//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// Notify posts the event through Notification Center via osascript. Preview
// icons are not supported there, so opts.IconPath is ignored.
func Notify(title, body string, opts Options) error {
	script := fmt.Sprintf("display notification %q with title %q", body, title)
	return exec.Command("osascript", "-e", script).Run()
}
