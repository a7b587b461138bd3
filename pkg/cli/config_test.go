package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aura-ai/aura/pkg/adapter"
	"github.com/aura-ai/aura/pkg/repository"
	"github.com/m-mizutani/gt"
)

func TestNewMemoryServiceSharesRepository(t *testing.T) {
	ctx := context.Background()
	cfg := &config{}

	repo := repository.NewMemory()
	storage, err := adapter.NewLocalStorage(t.TempDir())
	gt.NoError(t, err)

	mem := cfg.newMemoryService(ctx, repo, storage)
	mem.Commit(ctx, "note-1", "written through the service", nil)

	// The service writes through the repository it was given, not a private one.
	rec, err := repo.GetMemory(ctx, "note-1")
	gt.NoError(t, err)
	gt.Equal(t, rec.Text, "written through the service")
}

func TestConfigLoadMergesFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aura.yml")
	gt.NoError(t, os.WriteFile(path, []byte("provider: claude\nlanguage: Japanese\n"), 0644))

	cfg := &config{configPath: path, provider: "gemini"}
	gt.NoError(t, cfg.load())

	// Flag-set values win, file fills the gaps
	gt.Equal(t, cfg.provider, "gemini")
	gt.Equal(t, cfg.language, "Japanese")
}
