package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/aura-ai/aura/pkg/model"
	"github.com/aura-ai/aura/pkg/repository"
	"github.com/m-mizutani/gt"
)

func setupFirestore(t *testing.T) *repository.Firestore {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.NewFirestore(context.Background(), projectID, databaseID)
	gt.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}

func TestFirestoreMemoryRoundTrip(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	id := model.NewMemoryID()
	err := repo.PutMemory(ctx, &model.MemoryRecord{
		ID:   id,
		Text: "user prefers short answers",
		Metadata: map[string]string{
			model.MetaSource: "chat",
			model.MetaRole:   "user",
		},
	})
	gt.NoError(t, err)

	retrieved, err := repo.GetMemory(ctx, id)
	gt.NoError(t, err)
	gt.Equal(t, retrieved.Text, "user prefers short answers")
	gt.Equal(t, retrieved.Metadata[model.MetaSource], "chat")
	gt.False(t, retrieved.CreatedAt.IsZero())

	gt.NoError(t, repo.DeleteMemory(ctx, id))
	_, err = repo.GetMemory(ctx, id)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrMemoryNotFound))
}

func TestFirestoreOverwritePreservesCreatedAt(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	id := model.NewMemoryID()
	gt.NoError(t, repo.PutMemory(ctx, &model.MemoryRecord{ID: id, Text: "first"}))
	t.Cleanup(func() {
		_ = repo.DeleteMemory(context.Background(), id)
	})

	original, err := repo.GetMemory(ctx, id)
	gt.NoError(t, err)

	gt.NoError(t, repo.PutMemory(ctx, &model.MemoryRecord{ID: id, Text: "second"}))
	updated, err := repo.GetMemory(ctx, id)
	gt.NoError(t, err)
	gt.Equal(t, updated.Text, "second")
	gt.True(t, updated.CreatedAt.Equal(original.CreatedAt))
}

func TestFirestoreDeleteIdempotent(t *testing.T) {
	repo := setupFirestore(t)

	gt.NoError(t, repo.DeleteMemory(context.Background(), model.NewMemoryID()))
}

func TestFirestoreHistories(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	history := &model.History{
		ID:        model.NewHistoryID(),
		Title:     "test session",
		Provider:  "gemini",
		Language:  "English",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	gt.NoError(t, repo.PutHistory(ctx, history))

	retrieved, err := repo.GetHistory(ctx, history.ID)
	gt.NoError(t, err)
	gt.Equal(t, retrieved.Title, history.Title)
	gt.Equal(t, retrieved.Provider, history.Provider)

	histories, err := repo.ListHistories(ctx, 0, 10)
	gt.NoError(t, err)
	gt.A(t, histories).Longer(0)
}
