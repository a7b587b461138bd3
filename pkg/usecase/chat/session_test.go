package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aura-ai/aura/pkg/adapter"
	"github.com/aura-ai/aura/pkg/model"
	"github.com/aura-ai/aura/pkg/repository"
	"github.com/aura-ai/aura/pkg/usecase/chat"
	"github.com/aura-ai/aura/pkg/usecase/memory"
	"github.com/m-mizutani/gt"
)

// echoGenerator replies with a fixed response and records the prompts it saw
type echoGenerator struct {
	resp    string
	err     error
	prompts []string
}

func (g *echoGenerator) GenerateText(ctx context.Context, prompt string, opts ...adapter.TextOption) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.resp, g.err
}

func newTestSession(t *testing.T, gen *echoGenerator, useMemory bool, mem *memory.Service) (*chat.Session, repository.Repository) {
	t.Helper()

	repo := repository.NewMemory()
	manager := adapter.NewManager(adapter.WithPrimary("stub"))
	manager.RegisterText("stub", gen)
	storage, err := adapter.NewLocalStorage(t.TempDir())
	gt.NoError(t, err)

	session, err := chat.New(context.Background(), chat.NewInput{
		Repo:      repo,
		Provider:  manager,
		Memory:    mem,
		Storage:   storage,
		Language:  "English",
		UseMemory: useMemory,
	})
	gt.NoError(t, err)
	return session, repo
}

func TestSessionSend(t *testing.T) {
	gen := &echoGenerator{resp: "hello there"}
	session, repo := newTestSession(t, gen, false, nil)

	resp, err := session.Send(context.Background(), "say hello")
	gt.NoError(t, err)
	gt.Equal(t, resp, "hello there")

	history := session.History()
	gt.A(t, history.Messages).Length(2)
	gt.Equal(t, history.Messages[0].Role, model.RoleUser)
	gt.Equal(t, history.Messages[0].Content, "say hello")
	gt.Equal(t, history.Messages[1].Role, model.RoleAssistant)
	gt.Equal(t, history.Messages[1].Content, "hello there")
	gt.Equal(t, history.Provider, "stub")
	gt.Equal(t, history.Title, "say hello")

	// Metadata was persisted
	histories, err := repo.ListHistories(context.Background(), 0, 10)
	gt.NoError(t, err)
	gt.A(t, histories).Length(1)
}

func TestSessionPromptIncludesLanguageAndContext(t *testing.T) {
	gen := &echoGenerator{resp: "ok"}
	repo := repository.NewMemory()
	manager := adapter.NewManager(adapter.WithPrimary("stub"))
	manager.RegisterText("stub", gen)
	storage, err := adapter.NewLocalStorage(t.TempDir())
	gt.NoError(t, err)

	session, err := chat.New(context.Background(), chat.NewInput{
		Repo:         repo,
		Provider:     manager,
		Storage:      storage,
		Language:     "Spanish",
		LocalContext: "the user is a pirate",
	})
	gt.NoError(t, err)

	_, err = session.Send(context.Background(), "hola")
	gt.NoError(t, err)

	gt.A(t, gen.prompts).Length(1)
	gt.S(t, gen.prompts[0]).Contains("Spanish")
	gt.S(t, gen.prompts[0]).Contains("the user is a pirate")
	gt.S(t, gen.prompts[0]).Contains("hola")
}

func TestSessionMemoryContextInPrompt(t *testing.T) {
	ctx := context.Background()
	mem := memory.New(ctx, repository.NewMemory())
	mem.Commit(ctx, "note-1", "the production database is postgres fourteen", nil)

	gen := &echoGenerator{resp: "ok"}
	session, _ := newTestSession(t, gen, true, mem)

	_, err := session.Send(ctx, "which postgres version runs in production?")
	gt.NoError(t, err)

	gt.A(t, gen.prompts).Length(1)
	gt.S(t, gen.prompts[0]).Contains("the production database is postgres fourteen")
}

func TestSessionAutoCommit(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	mem := memory.New(ctx, repo)

	gen := &echoGenerator{resp: "noted"}
	session, _ := newTestSession(t, gen, true, mem)

	long := "my favorite deployment region is europe-west1"
	gt.True(t, len(long) > 20)
	_, err := session.Send(ctx, long)
	gt.NoError(t, err)

	// The commit runs in a goroutine; poll the store briefly.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		records, err := repo.ListMemories(ctx)
		gt.NoError(t, err)
		if len(records) > 0 {
			gt.Equal(t, records[0].Text, long)
			gt.Equal(t, records[0].Metadata[model.MetaSource], "chat")
			gt.True(t, strings.HasPrefix(string(records[0].ID), "chat-"))
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("user message was not committed to memory")
}

func TestSessionNoAutoCommitForShortMessages(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	mem := memory.New(ctx, repo)

	gen := &echoGenerator{resp: "hi"}
	session, _ := newTestSession(t, gen, true, mem)

	_, err := session.Send(ctx, "thanks")
	gt.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	records, err := repo.ListMemories(ctx)
	gt.NoError(t, err)
	gt.A(t, records).Length(0)
}

func TestSessionProviderError(t *testing.T) {
	gen := &echoGenerator{err: errors.New("quota exceeded")}
	session, _ := newTestSession(t, gen, false, nil)

	_, err := session.Send(context.Background(), "hello")
	gt.Error(t, err)
	gt.A(t, session.History().Messages).Length(0)
}

func TestSessionResume(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	manager := adapter.NewManager(adapter.WithPrimary("stub"))
	gen := &echoGenerator{resp: "reply"}
	manager.RegisterText("stub", gen)
	storage, err := adapter.NewLocalStorage(t.TempDir())
	gt.NoError(t, err)

	first, err := chat.New(ctx, chat.NewInput{
		Repo: repo, Provider: manager, Storage: storage,
	})
	gt.NoError(t, err)
	_, err = first.Send(ctx, "remember this conversation")
	gt.NoError(t, err)
	historyID := first.History().ID

	resumed, err := chat.New(ctx, chat.NewInput{
		Repo: repo, Provider: manager, Storage: storage,
		HistoryID: &historyID,
	})
	gt.NoError(t, err)
	gt.A(t, resumed.History().Messages).Length(2)
	gt.Equal(t, resumed.History().Messages[0].Content, "remember this conversation")
}
