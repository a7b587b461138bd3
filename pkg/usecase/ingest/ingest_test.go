package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aura-ai/aura/pkg/repository"
	"github.com/aura-ai/aura/pkg/usecase/ingest"
	"github.com/aura-ai/aura/pkg/usecase/memory"
	"github.com/m-mizutani/gt"
)

func TestDocument(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	svc := memory.New(ctx, repo)

	text := strings.Repeat("a", 2500)
	n := ingest.Document(ctx, svc, "report.txt", text, 1000)
	gt.Equal(t, n, 3)

	records, err := repo.ListMemories(ctx)
	gt.NoError(t, err)
	gt.A(t, records).Length(3)
	gt.Equal(t, string(records[0].ID), "doc-report.txt-0")
	gt.Equal(t, records[0].Metadata["kind"], "document")
	gt.Equal(t, records[2].Metadata["chunk"], "2")
	gt.Equal(t, len(records[2].Text), 500)
}

func TestDocumentReingestOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	svc := memory.New(ctx, repo)

	ingest.Document(ctx, svc, "notes.md", "first version of the notes", 1000)
	ingest.Document(ctx, svc, "notes.md", "second version of the notes", 1000)

	records, err := repo.ListMemories(ctx)
	gt.NoError(t, err)
	gt.A(t, records).Length(1)
	gt.Equal(t, records[0].Text, "second version of the notes")
}

func TestFile(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	svc := memory.New(ctx, repo)

	path := filepath.Join(t.TempDir(), "manual.txt")
	gt.NoError(t, os.WriteFile(path, []byte("how to restart the ingestion worker"), 0644))

	n, err := ingest.File(ctx, svc, path, 1000)
	gt.NoError(t, err)
	gt.Equal(t, n, 1)

	gt.Equal(t, svc.Search(ctx, "restart ingestion worker"), "how to restart the ingestion worker")
}

func TestFileMissing(t *testing.T) {
	ctx := context.Background()
	svc := memory.New(ctx, repository.NewMemory())

	_, err := ingest.File(ctx, svc, "/nonexistent/file.txt", 1000)
	gt.Error(t, err)
}
