package model

import (
	"bytes"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
)

// ChatMessage is one role-tagged message in a structured chat payload.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatMessages is the "messages" field of the chat wire format. It is either
// a bare user string or a list of role-tagged messages.
type ChatMessages struct {
	Text string
	List []ChatMessage
}

func (m ChatMessages) MarshalJSON() ([]byte, error) {
	if m.List != nil {
		return json.Marshal(m.List)
	}
	return json.Marshal(m.Text)
}

func (m *ChatMessages) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &m.Text)
	}
	if err := json.Unmarshal(data, &m.List); err != nil {
		return goerr.Wrap(err, "messages must be a string or a list of {role, content}")
	}
	return nil
}

// LastUser returns the most recent user message.
func (m ChatMessages) LastUser() string {
	if m.List == nil {
		return m.Text
	}
	for i := len(m.List) - 1; i >= 0; i-- {
		if m.List[i].Role == "user" {
			return m.List[i].Content
		}
	}
	return ""
}

// ChatRequest is the body POSTed to a chat endpoint.
type ChatRequest struct {
	Messages    ChatMessages `json:"messages"`
	Model       string       `json:"model,omitempty"`
	Temperature *float64     `json:"temperature,omitempty"`
	MaxTokens   *int64       `json:"max_tokens,omitempty"`
}

// ChatResponse is the body a chat endpoint answers with. Source and Error are
// set by portochat servers only.
type ChatResponse struct {
	Success  bool        `json:"success"`
	Response string      `json:"response,omitempty"`
	Source   ReplySource `json:"source,omitempty"`
	Error    string      `json:"error,omitempty"`
}
