// Package progressbar implements functionality of printing a progress
// bar to a terminal
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ProgressBar prints a progress bar to a writer. The bar is redrawn
// whenever Increment is called. It is safe for concurrent use.
type ProgressBar struct {
	mu sync.Mutex
	w  io.Writer

	// width is the number of characters wide that the bar is drawn
	width int

	// maxProgress is the number of Increment calls after which the bar
	// reaches 100%
	maxProgress     int
	currentProgress int

	start  time.Time
	closed bool
}

// NewProgressBar returns a new progress bar drawn on w that is width
// characters wide and reaches 100% after max Increment calls
func NewProgressBar(w io.Writer, width, max int) *ProgressBar {
	return &ProgressBar{
		w:           w,
		width:       width,
		maxProgress: max,
		start:       time.Now(),
	}
}

// Increment increments the internal progress counter and redraws the
// bar. Increments past the maximum or after Close are ignored.
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.currentProgress >= p.maxProgress {
		return
	}
	p.currentProgress++
	fmt.Fprintf(p.w, "\r%v", p.bar())
}

// Close finishes the progress bar so that it will no longer be drawn
func (p *ProgressBar) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		panic("close: close on closed progress bar")
	}
	p.closed = true
	fmt.Fprintln(p.w)
}

// String returns the current bar without the elapsed time
func (p *ProgressBar) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draw()
}

func (p *ProgressBar) bar() string {
	elapsed := time.Since(p.start).Round(time.Second)
	return fmt.Sprintf("%v elapsed: %v", p.draw(), elapsed)
}

func (p *ProgressBar) draw() string {
	fraction := 1.0
	if p.maxProgress > 0 {
		fraction = float64(p.currentProgress) / float64(p.maxProgress)
	}
	filled := int(fraction * float64(p.width))

	var bar strings.Builder
	bar.WriteString("|")
	bar.WriteString(strings.Repeat("█", filled))
	bar.WriteString(strings.Repeat(" ", p.width-filled))
	fmt.Fprintf(&bar, "| [%.2f%%]", fraction*100)
	return bar.String()
}
