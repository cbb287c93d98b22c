package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// SpinnerSink renders progress events as a spinner on stderr
type SpinnerSink struct {
	out     io.Writer
	spinner *spinner.Spinner

	mu         sync.Mutex
	stage      string
	stageStart time.Time
	start      time.Time
}

// NewSpinnerSink creates a spinner sink writing to stderr
func NewSpinnerSink() *SpinnerSink {
	return NewSpinnerSinkWithWriter(os.Stderr)
}

// NewSpinnerSinkWithWriter creates a spinner sink writing to out
func NewSpinnerSinkWithWriter(out io.Writer) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerSink{out: out, spinner: s}
}

// OnProgress handles progress events
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if r.start.IsZero() {
		r.start = now
	}
	if event.Stage != r.stage {
		r.stage = event.Stage
		r.stageStart = now
	}

	if event.Stage == "complete" {
		r.stopSpinner()
		elapsed := now.Sub(r.start).Round(time.Millisecond)
		color.New(color.FgGreen).Fprintf(r.out, "✓ %s (%s)\n", event.Message, elapsed)
		r.start = time.Time{}
		r.stage = ""
		return
	}

	if event.Spinner {
		r.spinner.Suffix = " " + stageLabel(event)
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		return
	}

	r.stopSpinner()
	if event.Message != "" {
		fmt.Fprintln(r.out, stageLabel(event))
	}
}

// Info prints an info message
func (r *SpinnerSink) Info(message string) {
	r.println(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerSink) Error(message string) {
	r.println(color.New(color.FgRed), message)
}

func (r *SpinnerSink) println(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Stop spinner temporarily
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

func (r *SpinnerSink) stopSpinner() {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

func stageLabel(event usecase.ProgressEvent) string {
	label := event.Message
	if event.Total > 0 {
		label = fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, label)
	}
	return label
}

// Ensure SpinnerSink implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerSink)(nil)
