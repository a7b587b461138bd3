package model

import (
	"time"

	"github.com/google/uuid"
)

type HistoryID string

// NewHistoryID generates a new unique HistoryID
func NewHistoryID() HistoryID {
	return HistoryID(uuid.New().String())
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History represents one chat exchange with the provider. Messages are archived
// separately through the Storage adapter; only the metadata lives in the
// repository (Firestore documents have a size limit).
type History struct {
	ID        HistoryID
	Title     string
	Provider  string
	Language  string
	CreatedAt time.Time
	UpdatedAt time.Time

	Messages []Message `firestore:"-" json:"-"`
}
