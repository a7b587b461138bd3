package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aura-ai/aura/pkg/model"
	"github.com/aura-ai/aura/pkg/repository"
	"github.com/m-mizutani/gt"
)

func TestMemoryRoundTrip(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	err := repo.PutMemory(ctx, &model.MemoryRecord{
		ID:   "rec-1",
		Text: "the quick brown fox",
		Metadata: map[string]string{
			model.MetaSource: "chat",
			model.MetaRole:   "user",
		},
	})
	gt.NoError(t, err)

	rec, err := repo.GetMemory(ctx, "rec-1")
	gt.NoError(t, err)
	gt.V(t, rec.Text).Equal("the quick brown fox")
	gt.V(t, rec.Metadata[model.MetaSource]).Equal("chat")
	gt.V(t, rec.Metadata[model.MetaRole]).Equal("user")
	gt.False(t, rec.CreatedAt.IsZero())
}

func TestMemoryGetNotFound(t *testing.T) {
	repo := repository.NewMemory()

	_, err := repo.GetMemory(context.Background(), "missing")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrMemoryNotFound))
}

func TestMemoryDeleteIdempotent(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	gt.NoError(t, repo.PutMemory(ctx, &model.MemoryRecord{ID: "a", Text: "keep"}))

	// Deleting a non-existent ID is not an error and leaves the store unchanged
	gt.NoError(t, repo.DeleteMemory(ctx, "missing"))
	records, err := repo.ListMemories(ctx)
	gt.NoError(t, err)
	gt.A(t, records).Length(1)

	gt.NoError(t, repo.DeleteMemory(ctx, "a"))
	gt.NoError(t, repo.DeleteMemory(ctx, "a"))
	_, err = repo.GetMemory(ctx, "a")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrMemoryNotFound))
}

func TestMemoryOverwritePreservesCreatedAt(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	gt.NoError(t, repo.PutMemory(ctx, &model.MemoryRecord{ID: "a", Text: "first"}))
	original, err := repo.GetMemory(ctx, "a")
	gt.NoError(t, err)

	gt.NoError(t, repo.PutMemory(ctx, &model.MemoryRecord{
		ID:       "a",
		Text:     "second",
		Metadata: map[string]string{model.MetaKind: "revised"},
	}))

	updated, err := repo.GetMemory(ctx, "a")
	gt.NoError(t, err)
	gt.V(t, updated.Text).Equal("second")
	gt.V(t, updated.Metadata[model.MetaKind]).Equal("revised")
	gt.True(t, updated.CreatedAt.Equal(original.CreatedAt))
}

func TestMemoryListInsertionOrder(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		gt.NoError(t, repo.PutMemory(ctx, &model.MemoryRecord{
			ID:   model.MemoryID(fmt.Sprintf("rec-%d", i)),
			Text: fmt.Sprintf("entry %d", i),
		}))
	}

	records, err := repo.ListMemories(ctx)
	gt.NoError(t, err)
	gt.A(t, records).Length(5)
	for i, rec := range records {
		gt.V(t, rec.ID).Equal(model.MemoryID(fmt.Sprintf("rec-%d", i)))
	}
}

func TestMemoryBoundedRetention(t *testing.T) {
	const capN = 3
	repo := repository.NewMemory(repository.WithCapacity(capN))
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < capN+1; i++ {
		gt.NoError(t, repo.PutMemory(ctx, &model.MemoryRecord{
			ID:        model.MemoryID(fmt.Sprintf("rec-%d", i)),
			Text:      fmt.Sprintf("entry %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := repo.ListMemories(ctx)
	gt.NoError(t, err)
	gt.A(t, records).Length(capN)

	// The single oldest record is gone, the rest survive
	_, err = repo.GetMemory(ctx, "rec-0")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrMemoryNotFound))
	for i := 1; i <= capN; i++ {
		_, err := repo.GetMemory(ctx, model.MemoryID(fmt.Sprintf("rec-%d", i)))
		gt.NoError(t, err)
	}
}

func TestMemoryOverwriteDoesNotEvict(t *testing.T) {
	repo := repository.NewMemory(repository.WithCapacity(2))
	ctx := context.Background()

	gt.NoError(t, repo.PutMemory(ctx, &model.MemoryRecord{ID: "a", Text: "one"}))
	gt.NoError(t, repo.PutMemory(ctx, &model.MemoryRecord{ID: "b", Text: "two"}))
	gt.NoError(t, repo.PutMemory(ctx, &model.MemoryRecord{ID: "a", Text: "one again"}))

	records, err := repo.ListMemories(ctx)
	gt.NoError(t, err)
	gt.A(t, records).Length(2)
}

func TestMemoryConcurrentPutDistinctIDs(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	done := make(chan error, 2)
	go func() {
		done <- repo.PutMemory(ctx, &model.MemoryRecord{ID: "left", Text: "from goroutine one"})
	}()
	go func() {
		done <- repo.PutMemory(ctx, &model.MemoryRecord{ID: "right", Text: "from goroutine two"})
	}()
	gt.NoError(t, <-done)
	gt.NoError(t, <-done)

	// Both become independently retrievable regardless of completion order
	left, err := repo.GetMemory(ctx, "left")
	gt.NoError(t, err)
	gt.V(t, left.Text).Equal("from goroutine one")
	right, err := repo.GetMemory(ctx, "right")
	gt.NoError(t, err)
	gt.V(t, right.Text).Equal("from goroutine two")
}

func TestMemoryHistories(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		gt.NoError(t, repo.PutHistory(ctx, &model.History{
			ID:        model.HistoryID(fmt.Sprintf("h-%d", i)),
			Title:     fmt.Sprintf("session %d", i),
			CreatedAt: time.Now(),
		}))
	}

	histories, err := repo.ListHistories(ctx, 0, 2)
	gt.NoError(t, err)
	gt.A(t, histories).Length(2)
	gt.V(t, histories[0].ID).Equal("h-2") // newest first

	gt.NoError(t, repo.ClearHistories(ctx))
	histories, err = repo.ListHistories(ctx, 0, 0)
	gt.NoError(t, err)
	gt.A(t, histories).Length(0)
}
