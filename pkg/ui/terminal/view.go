package terminal

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/m-mizutani/portochat/pkg/model"
	"github.com/m-mizutani/portochat/pkg/render"
)

// View renders the transcript as lines on a terminal. It doubles as the
// widget panel: while hidden, output is discarded and the typing indicator
// stops.
type View struct {
	mu        sync.Mutex
	w         io.Writer
	visible   bool
	labels    map[model.Sender]string
	indicator *Indicator
}

// NewView creates a View writing to w. assistant is the label shown before
// answers, e.g. "Zaki's assistant".
func NewView(w io.Writer, assistant string) *View {
	return &View{
		w: w,
		labels: map[model.Sender]string{
			model.SenderUser:      color.New(color.FgGreen, color.Bold).Sprint("You"),
			model.SenderAssistant: color.New(color.FgCyan, color.Bold).Sprint(assistant),
		},
		indicator: newIndicator(w),
	}
}

// SetVisible shows or hides the panel.
func (v *View) SetVisible(visible bool) {
	v.mu.Lock()
	v.visible = visible
	v.mu.Unlock()

	v.indicator.setVisible(visible)
}

// Indicator returns the typing indicator drawn in this panel.
func (v *View) Indicator() *Indicator {
	return v.indicator
}

func (v *View) NewMessage(sender model.Sender) render.Node {
	v.write(fmt.Sprintf("%s: ", v.labels[sender]))
	return &node{view: v}
}

// ScrollToBottom is a no-op: terminal output always follows the newest line.
func (v *View) ScrollToBottom() {}

// OnScroll never fires: terminal output has no manual scroll, so auto-scroll
// is never suppressed.
func (v *View) OnScroll(fn func()) func() {
	return func() {}
}

// write drops output while hidden; a message streamed into a closed panel
// is simply not shown.
func (v *View) write(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.visible {
		return
	}
	_, _ = io.WriteString(v.w, s)
}

type node struct {
	view *View
}

func (n *node) Append(text string) { n.view.write(text) }

func (n *node) Finish() { n.view.write("\n") }
