package core

import "time"

const (
	AppName      = "techassist"
	AppUserAgent = "techassist/0.1"
	AppVersion   = "0.1.0"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// HistoryEntry is a prior chat message as delivered by the messaging
// integration. FromMe marks messages written by the operator.
type HistoryEntry struct {
	FromMe bool   `json:"fromMe"`
	Body   string `json:"body"`
}

// Document is a chunk returned by the vector store, ranked by similarity.
type Document struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Distance float32        `json:"distance"`
}

// Reply is the answer text plus the documents it was grounded on.
type Reply struct {
	Answer    string
	Documents []Document
}

type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Exchange struct {
	ID         string        `json:"id"`
	Question   string        `json:"question"`
	Answer     string        `json:"answer"`
	HistoryLen int           `json:"history_len"`
	Documents  int           `json:"documents"`
	Model      string        `json:"model"`
	Duration   time.Duration `json:"duration"`
	CreatedAt  time.Time     `json:"created_at"`
}
