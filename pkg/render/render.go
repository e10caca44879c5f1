package render

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/portochat/pkg/model"
)

const (
	DefaultInterval   = 20 * time.Millisecond
	DefaultScrollIdle = time.Second
)

// View is the transcript container messages are rendered into. It must
// accept writes after being hidden or detached.
type View interface {
	NewMessage(sender model.Sender) Node
	ScrollToBottom()
	// OnScroll subscribes fn to manual scroll events and returns a function
	// that unsubscribes it.
	OnScroll(fn func()) (cancel func())
}

// Node is the content node of one rendered message.
type Node interface {
	Append(text string)
	Finish()
}

// Renderer writes messages into a View, either settled at once or streamed
// one character per tick.
type Renderer struct {
	view       View
	clock      Clock
	interval   time.Duration
	scrollIdle time.Duration
	instant    bool
}

type Option func(*Renderer)

func WithClock(clock Clock) Option {
	return func(r *Renderer) {
		r.clock = clock
	}
}

// WithInterval sets the delay between streamed characters.
func WithInterval(d time.Duration) Option {
	return func(r *Renderer) {
		r.interval = d
	}
}

// WithScrollIdle sets how long a manual scroll suppresses auto-scroll.
func WithScrollIdle(d time.Duration) Option {
	return func(r *Renderer) {
		r.scrollIdle = d
	}
}

// WithInstant makes streamed messages settle in one step.
func WithInstant(instant bool) Option {
	return func(r *Renderer) {
		r.instant = instant
	}
}

func New(view View, opts ...Option) *Renderer {
	r := &Renderer{
		view:       view,
		clock:      realClock{},
		interval:   DefaultInterval,
		scrollIdle: DefaultScrollIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.interval <= 0 {
		r.instant = true
	}
	return r
}

// Settle renders a complete message without animation.
func (r *Renderer) Settle(sender model.Sender, text string) {
	node := r.view.NewMessage(sender)
	node.Append(text)
	node.Finish()
	r.view.ScrollToBottom()
}

// Begin prepares a streamed assistant message. Nothing is rendered until the
// session runs or steps.
func (r *Renderer) Begin(text string) *Session {
	return &Session{
		r:      r,
		runes:  []rune(text),
		intent: NewScrollIntent(r.scrollIdle),
		skip:   make(chan struct{}, 1),
	}
}

type State int

const (
	StatePending State = iota
	StateStreaming
	StateSettled
	StateAborted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateStreaming:
		return "streaming"
	case StateSettled:
		return "settled"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Session is one streamed message: Pending, then Streaming, then Settled.
// Cancelling Run aborts it instead.
type Session struct {
	r      *Renderer
	runes  []rune
	intent *ScrollIntent
	skip   chan struct{}

	mu       sync.Mutex
	state    State
	cursor   int
	node     Node
	unscroll func()
}

// Run streams the message until it settles or ctx is done. It returns
// ctx.Err() when aborted.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StatePending {
		state := s.state
		s.mu.Unlock()
		return goerr.New("session already started", goerr.V("state", state.String()))
	}
	s.start()
	if s.r.instant {
		s.flush(s.r.clock.Now())
	}
	done := s.state == StateSettled
	s.mu.Unlock()
	if done {
		return nil
	}

	ticker := s.r.clock.NewTicker(s.r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.abort()
			return ctx.Err()

		case <-s.skip:
			s.mu.Lock()
			s.flush(s.r.clock.Now())
			s.mu.Unlock()
			return nil

		case now := <-ticker.C():
			if s.Step(now) == StateSettled {
				return nil
			}
		}
	}
}

// Step appends the next character as of now and returns the resulting
// state. A pending session starts streaming on its first step.
func (s *Session) Step(now time.Time) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StatePending:
		s.start()
	case StateSettled, StateAborted:
		return s.state
	}

	if s.cursor < len(s.runes) {
		s.node.Append(string(s.runes[s.cursor]))
		s.cursor++
		s.autoScroll(now)
	}
	if s.cursor >= len(s.runes) {
		s.settle()
	}
	return s.state
}

// Skip fast-forwards a running session to its settled state.
func (s *Session) Skip() {
	select {
	case s.skip <- struct{}{}:
	default:
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Text returns the full message text.
func (s *Session) Text() string {
	return string(s.runes)
}

// start moves Pending to Streaming. Caller holds s.mu.
func (s *Session) start() {
	s.node = s.r.view.NewMessage(model.SenderAssistant)
	s.unscroll = s.r.view.OnScroll(func() {
		s.intent.Mark(s.r.clock.Now())
	})
	s.state = StateStreaming
	if len(s.runes) == 0 {
		s.settle()
	}
}

// flush appends the rest of the text at once and settles. Caller holds s.mu.
func (s *Session) flush(now time.Time) {
	if s.state != StateStreaming {
		return
	}
	if s.cursor < len(s.runes) {
		s.node.Append(string(s.runes[s.cursor:]))
		s.cursor = len(s.runes)
		s.autoScroll(now)
	}
	s.settle()
}

func (s *Session) autoScroll(now time.Time) {
	if !s.intent.Active(now) {
		s.r.view.ScrollToBottom()
	}
}

// settle finishes the node and tears down the scroll subscription. Caller
// holds s.mu.
func (s *Session) settle() {
	s.node.Finish()
	s.state = StateSettled
	s.teardown()
}

func (s *Session) abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateStreaming {
		return
	}
	s.state = StateAborted
	s.teardown()
}

func (s *Session) teardown() {
	if s.unscroll != nil {
		s.unscroll()
		s.unscroll = nil
	}
}
