package model

import (
	"time"

	"github.com/google/uuid"
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

type EntryID string

// NewEntryID generates a new unique EntryID
func NewEntryID() EntryID {
	return EntryID(uuid.New().String())
}

// Entry is one settled message in the chat transcript
type Entry struct {
	ID        EntryID
	Content   string
	Sender    Sender
	Timestamp time.Time
}

// KeyEvent is a key press delivered to the chat input
type KeyEvent struct {
	Key   string
	Shift bool
}

const KeyEnter = "Enter"
