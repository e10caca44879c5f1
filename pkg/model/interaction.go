package model

import (
	"time"

	"github.com/google/uuid"
)

// ReplySource tells which responder produced an answer
type ReplySource string

const (
	ReplySourceRemote              ReplySource = "remote"
	ReplySourceKnowledgeBase       ReplySource = "knowledge_base"
	ReplySourceKnowledgeBaseStatic ReplySource = "knowledge_base_static"
)

type InteractionID string

// NewInteractionID generates a new unique InteractionID
func NewInteractionID() InteractionID {
	return InteractionID(uuid.New().String())
}

type SessionID string

// NewSessionID generates a new unique SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

// Interaction is an archived question and its answer, kept for operators
type Interaction struct {
	ID        InteractionID `firestore:"id" json:"id"`
	SessionID SessionID     `firestore:"session_id" json:"session_id"`
	Question  string        `firestore:"question" json:"question"`
	Answer    string        `firestore:"answer" json:"answer"`
	Source    ReplySource   `firestore:"source" json:"source"`
	Origin    string        `firestore:"origin" json:"origin"`
	CreatedAt time.Time     `firestore:"created_at" json:"created_at"`
}

// Prompt is a backend-neutral chat request
type Prompt struct {
	// System is optional context prepended as a system message.
	System string
	User   string
}
