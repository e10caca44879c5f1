package terminal

import (
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// Indicator is a spinner shown while an answer is being prepared. It is
// owned by a View and only spins while that panel is visible.
type Indicator struct {
	mu       sync.Mutex
	s        *spinner.Spinner
	waiting  bool
	visible  bool
	spinning bool
}

func newIndicator(w io.Writer) *Indicator {
	return &Indicator{
		s: spinner.New(spinner.CharSets[14], 100*time.Millisecond,
			spinner.WithWriter(w),
			spinner.WithSuffix(" typing..."),
		),
	}
}

func (i *Indicator) Show() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.waiting = true
	i.sync()
}

func (i *Indicator) Hide() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.waiting = false
	i.sync()
}

// Spinning reports whether the spinner is currently drawn.
func (i *Indicator) Spinning() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.spinning
}

func (i *Indicator) setVisible(visible bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.visible = visible
	i.sync()
}

// sync starts or stops the spinner to match the state. Caller holds i.mu.
func (i *Indicator) sync() {
	want := i.waiting && i.visible
	switch {
	case want && !i.spinning:
		i.s.Start()
	case !want && i.spinning:
		i.s.Stop()
	}
	i.spinning = want
}
