package widget

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/portochat/pkg/model"
	"github.com/m-mizutani/portochat/pkg/render"
	"github.com/m-mizutani/portochat/pkg/utils/logging"
)

// Apology is shown when no answer could be produced at all.
const Apology = "Sorry, I'm having trouble connecting right now. Please try again later."

// Responder produces the answer for a question. An error means a total
// communication breakdown.
type Responder interface {
	Respond(ctx context.Context, text string) (string, error)
}

// Input is the text field questions are typed into.
type Input interface {
	Value() string
	Clear()
	Focus()
}

// Indicator is the "typing" placeholder shown while waiting for an answer.
type Indicator interface {
	Show()
	Hide()
}

// Panel is the chat window that can be opened and closed.
type Panel interface {
	SetVisible(visible bool)
}

// Controller owns the widget state: open or closed, idle or busy, and the
// append-only transcript. At most one question is in flight at a time.
type Controller struct {
	responder Responder
	renderer  *render.Renderer
	input     Input
	indicator Indicator
	panel     Panel
	now       func() time.Time

	mu         sync.Mutex
	open       bool
	busy       bool
	session    *render.Session
	transcript []model.Entry
}

// NewInput contains parameters for creating a new Controller
type NewInput struct {
	Responder Responder
	Renderer  *render.Renderer
	Input     Input
	Indicator Indicator
	Panel     Panel

	// Now defaults to time.Now
	Now func() time.Time
}

func New(input NewInput) *Controller {
	c := &Controller{
		responder: input.Responder,
		renderer:  input.Renderer,
		input:     input.Input,
		indicator: input.Indicator,
		panel:     input.Panel,
		now:       input.Now,
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Toggle opens a closed widget and closes an open one.
func (c *Controller) Toggle() {
	c.mu.Lock()
	open := c.open
	c.mu.Unlock()

	if open {
		c.Close()
	} else {
		c.Open()
	}
}

func (c *Controller) Open() {
	c.mu.Lock()
	c.open = true
	c.mu.Unlock()

	c.panel.SetVisible(true)
	c.input.Focus()
}

// Close hides the widget. A message still streaming is fast-forwarded so it
// settles into the transcript.
func (c *Controller) Close() {
	c.mu.Lock()
	c.open = false
	session := c.session
	c.mu.Unlock()

	c.panel.SetVisible(false)
	if session != nil {
		session.Skip()
	}
}

func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *Controller) IsBusy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Transcript returns a copy of the settled messages in order.
func (c *Controller) Transcript() []model.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Entry(nil), c.transcript...)
}

// Submit sends the current input value. It reports whether the submission
// was accepted; empty input and submissions while busy are ignored.
func (c *Controller) Submit(ctx context.Context) bool {
	err := c.Send(ctx, c.input.Value())
	switch {
	case errors.Is(err, model.ErrEmptyInput), errors.Is(err, model.ErrBusy):
		logging.From(ctx).Debug("submission ignored", "reason", err.Error())
		return false
	default:
		return true
	}
}

// KeyPress handles a key in the input field. Enter without Shift submits.
func (c *Controller) KeyPress(ctx context.Context, ev model.KeyEvent) bool {
	if ev.Key != model.KeyEnter || ev.Shift {
		return false
	}
	return c.Submit(ctx)
}

// Send asks text and renders the answer, blocking until it settles. It
// returns model.ErrEmptyInput or model.ErrBusy without side effects, and
// ctx.Err() when torn down before the answer settled.
func (c *Controller) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return goerr.Wrap(model.ErrEmptyInput, "nothing to send")
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return goerr.Wrap(model.ErrBusy, "previous question is still being answered")
	}
	c.busy = true
	c.mu.Unlock()
	defer c.idle()

	c.renderer.Settle(model.SenderUser, text)
	c.appendEntry(model.SenderUser, text)
	c.input.Clear()

	c.indicator.Show()
	answer, err := c.responder.Respond(ctx, text)
	c.indicator.Hide()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		logging.From(ctx).Warn("failed to get answer", "error", err)
		c.renderer.Settle(model.SenderAssistant, Apology)
		c.appendEntry(model.SenderAssistant, Apology)
		return nil
	}

	session := c.renderer.Begin(answer)
	c.mu.Lock()
	c.session = session
	open := c.open
	c.mu.Unlock()
	if !open {
		session.Skip()
	}

	runErr := session.Run(ctx)

	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()

	if runErr != nil {
		return runErr
	}
	c.appendEntry(model.SenderAssistant, answer)
	return nil
}

func (c *Controller) idle() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
	c.input.Focus()
}

func (c *Controller) appendEntry(sender model.Sender, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcript = append(c.transcript, model.Entry{
		ID:        model.NewEntryID(),
		Content:   content,
		Sender:    sender,
		Timestamp: c.now(),
	})
}
