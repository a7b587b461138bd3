package chat

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/aura-ai/aura/pkg/adapter"
	"github.com/aura-ai/aura/pkg/model"
	"github.com/aura-ai/aura/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

func historyKey(id model.HistoryID) string {
	return "histories/" + string(id) + ".json"
}

// loadHistory loads conversation history metadata from the repository and the
// message transcript from storage.
func loadHistory(ctx context.Context, repo repository.Repository, storage adapter.Storage, historyID model.HistoryID) (*model.History, error) {
	history, err := repo.GetHistory(ctx, historyID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get history from repository")
	}

	reader, err := storage.Get(ctx, historyKey(historyID))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get history from storage")
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read history data")
	}

	var messages []model.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal history messages")
	}

	history.Messages = messages
	return history, nil
}

// saveHistory archives the transcript to storage and the metadata to the
// repository.
func saveHistory(ctx context.Context, repo repository.Repository, storage adapter.Storage, language string, history *model.History) error {
	if history.ID == "" {
		history.ID = model.NewHistoryID()
		history.Language = language
		history.CreatedAt = time.Now()
	}
	history.UpdatedAt = time.Now()

	writer, err := storage.Put(ctx, historyKey(history.ID))
	if err != nil {
		return goerr.Wrap(err, "failed to create storage writer")
	}

	data, err := json.Marshal(history.Messages)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal history messages")
	}

	if _, err := writer.Write(data); err != nil {
		return goerr.Wrap(err, "failed to write history to storage")
	}

	if err := writer.Close(); err != nil {
		return goerr.Wrap(err, "failed to close storage writer")
	}

	if err := repo.PutHistory(ctx, history); err != nil {
		return goerr.Wrap(err, "failed to put history to repository")
	}

	return nil
}
