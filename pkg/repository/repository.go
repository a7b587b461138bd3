package repository

import (
	"context"

	"github.com/aura-ai/aura/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrMemoryNotFound is returned by GetMemory when no record exists for the ID.
	ErrMemoryNotFound = goerr.New("memory record not found")

	// ErrUnavailable indicates the backing store could not be reached or timed
	// out. Transport-level failures are indistinguishable to callers: they all
	// map to this error.
	ErrUnavailable = goerr.New("memory store unavailable")
)

// Repository defines the interface for memory record and chat history persistence
type Repository interface {
	// PutMemory inserts or overwrites a record. CreatedAt is set by the store on
	// first insert; overwriting under the same ID preserves the original CreatedAt.
	PutMemory(ctx context.Context, record *model.MemoryRecord) error

	// GetMemory retrieves a record by ID, or ErrMemoryNotFound
	GetMemory(ctx context.Context, id model.MemoryID) (*model.MemoryRecord, error)

	// DeleteMemory removes a record. Deleting a non-existent ID is not an error.
	DeleteMemory(ctx context.Context, id model.MemoryID) error

	// ListMemories returns all records in insertion order
	ListMemories(ctx context.Context) ([]*model.MemoryRecord, error)

	// PutHistory saves chat history metadata
	PutHistory(ctx context.Context, history *model.History) error

	// GetHistory retrieves chat history metadata by ID
	GetHistory(ctx context.Context, id model.HistoryID) (*model.History, error)

	// ListHistories retrieves chat histories, newest first
	ListHistories(ctx context.Context, offset, limit int) ([]*model.History, error)

	// ClearHistories removes all chat history metadata
	ClearHistories(ctx context.Context) error

	// Close releases any held connections
	Close() error
}
