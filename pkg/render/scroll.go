package render

import (
	"sync"
	"time"
)

// ScrollIntent tracks whether the user is reading earlier messages. A manual
// scroll keeps it active until idle has passed since the last scroll event.
type ScrollIntent struct {
	mu   sync.Mutex
	idle time.Duration
	last time.Time
}

func NewScrollIntent(idle time.Duration) *ScrollIntent {
	return &ScrollIntent{idle: idle}
}

// Mark records a manual scroll at now.
func (s *ScrollIntent) Mark(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = now
}

// Active reports whether auto-scroll should be suppressed at now.
func (s *ScrollIntent) Active(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.last.IsZero() && now.Before(s.last.Add(s.idle))
}
