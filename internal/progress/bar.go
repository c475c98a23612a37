package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Bar renders track download progress on a single terminal line.
type Bar struct {
	out       io.Writer
	label     string
	total     int
	current   int
	mu        sync.Mutex
	startTime time.Time
	lastPrint time.Time
	done      bool
}

// New creates a progress bar for total tracks, printed to stderr.
func New(total int, label string) *Bar {
	return NewWithWriter(os.Stderr, total, label)
}

// NewWithWriter creates a progress bar printed to w.
func NewWithWriter(w io.Writer, total int, label string) *Bar {
	now := time.Now()
	return &Bar{
		out:       w,
		label:     label,
		total:     max(total, 1),
		startTime: now,
		lastPrint: now,
	}
}

// Increment marks one more track as finished.
func (b *Bar) Increment() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = min(b.current+1, b.total)

	// Redraw at most every 500ms, and always on the last track.
	now := time.Now()
	if now.Sub(b.lastPrint) > 500*time.Millisecond || b.current >= b.total {
		b.render()
		b.lastPrint = now
	}
}

// Finish marks the progress as complete
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.done {
		b.current = b.total
		b.render()
		fmt.Fprintln(b.out)
		b.done = true
	}
}

func (b *Bar) render() {
	if b.done {
		return
	}

	percentage := float64(b.current) / float64(b.total) * 100
	elapsed := time.Since(b.startTime)

	var eta time.Duration
	if b.current > 0 {
		eta = elapsed / time.Duration(b.current) * time.Duration(b.total-b.current)
	}

	const width = 30
	filled := width * b.current / b.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	fmt.Fprintf(b.out, "\r%s [%s] %d/%d tracks (%.0f%%) - %s elapsed, ETA %s   ",
		b.label,
		bar,
		b.current,
		b.total,
		percentage,
		formatDuration(elapsed),
		formatDuration(eta),
	)
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
