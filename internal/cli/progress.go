package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// indexProgressReporter shows a spinner with a file count while an index
// is built. The total is unknown until enumeration finishes.
type indexProgressReporter struct {
	bar *progressbar.ProgressBar
}

func newIndexProgressReporter(quiet bool) *indexProgressReporter {
	stat, err := os.Stderr.Stat()
	enabled := err == nil && (stat.Mode()&os.ModeCharDevice) != 0 && !quiet
	if !enabled {
		return &indexProgressReporter{}
	}
	return &indexProgressReporter{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Indexing files"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files/s"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		),
	}
}

// FileLoaded is safe for concurrent use.
func (r *indexProgressReporter) FileLoaded(string) {
	if r.bar == nil {
		return
	}
	_ = r.bar.Add(1)
}

func (r *indexProgressReporter) Done() {
	if r.bar == nil {
		return
	}
	if err := r.bar.Finish(); err != nil {
		fmt.Fprintln(os.Stderr)
	}
}
