package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aura-ai/aura/pkg/model"
	"github.com/aura-ai/aura/pkg/usecase/memory"
	"github.com/m-mizutani/goerr/v2"
)

// Document commits text into long-term memory as a sequence of chunks. The
// returned count is how many chunks were committed. Chunk IDs are stable for a
// given name, so re-ingesting an updated document overwrites in place.
func Document(ctx context.Context, svc *memory.Service, name, text string, chunkSize int) int {
	chunks := memory.SplitChunks(text, chunkSize)
	for i, chunk := range chunks {
		id := model.MemoryID(fmt.Sprintf("doc-%s-%d", name, i))
		svc.Commit(ctx, id, chunk, map[string]string{
			model.MetaFilename: name,
			model.MetaKind:     "document",
			model.MetaChunk:    fmt.Sprintf("%d", i),
		})
	}
	return len(chunks)
}

// File reads a document from disk and ingests it under its base name
func File(ctx context.Context, svc *memory.Service, path string, chunkSize int) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to read document", goerr.V("path", path))
	}
	if len(data) == 0 {
		return 0, goerr.New("document is empty", goerr.V("path", path))
	}
	return Document(ctx, svc, filepath.Base(path), string(data), chunkSize), nil
}
