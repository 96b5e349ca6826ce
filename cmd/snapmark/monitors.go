package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/example/snapmark/internal/capture"
)

// monitorsCmd lists the monitors available for capture.
type monitorsCmd struct {
	*root
	fs *flag.FlagSet
}

func (m *monitorsCmd) FlagSet() *flag.FlagSet {
	return m.fs
}

func parseMonitorsCmd(args []string, r *root) (*monitorsCmd, error) {
	fs := flag.NewFlagSet("monitors", flag.ExitOnError)
	cmd := &monitorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (m *monitorsCmd) Run() error {
	monitors, err := capture.Monitors()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tNAME\tGEOMETRY\tPRIMARY")
	for _, mon := range monitors {
		primary := ""
		if mon.Primary {
			primary = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%dx%d+%d+%d\t%s\n",
			mon.Index, mon.Name,
			mon.Rect.Dx(), mon.Rect.Dy(), mon.Rect.Min.X, mon.Rect.Min.Y,
			primary)
	}
	return w.Flush()
}
