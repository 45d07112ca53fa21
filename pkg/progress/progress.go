// Package progress draws console progress bars for long loops over files and
// rows.
package progress

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Bar is a console progress bar.
type Bar = progressbar.ProgressBar

// New returns a bar of max steps drawn to w. A nil w, or an empty loop, gives
// a bar that draws nothing.
func New(w io.Writer, max int, description string) *Bar {
	if w == nil || max <= 0 {
		w = io.Discard
	}
	if max <= 0 {
		max = 1
	}
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(w, "\n")
		}),
	)
}
