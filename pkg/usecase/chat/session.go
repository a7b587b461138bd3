package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/aura-ai/aura/pkg/adapter"
	"github.com/aura-ai/aura/pkg/model"
	"github.com/aura-ai/aura/pkg/repository"
	"github.com/aura-ai/aura/pkg/usecase/memory"
	"github.com/aura-ai/aura/pkg/utils/logging"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

const (
	defaultPersona = "You are Aura, a helpful and concise assistant."

	// User messages longer than this are committed to long-term memory, so the
	// assistant can recall them in later sessions. Short messages ("yes",
	// "thanks") carry no recall value.
	autoCommitMinLen = 20
)

// Session manages an interactive chat conversation. Each Send builds a system
// prompt from the persona, target language, long-term memory context and any
// local context, generates a reply through the provider manager, and appends
// both turns to the history.
type Session struct {
	repo     repository.Repository
	provider *adapter.Manager
	mem      *memory.Service
	storage  adapter.Storage

	persona   string
	language  string
	localCtx  string
	useMemory bool
	provName  string

	history *model.History
}

// NewInput contains parameters for creating a chat session
type NewInput struct {
	Repo     repository.Repository
	Provider *adapter.Manager
	Memory   *memory.Service
	Storage  adapter.Storage

	Persona      string
	Language     string
	LocalContext string
	UseMemory    bool
	ProviderName string           // Optional: pin a provider instead of primary/fallback
	HistoryID    *model.HistoryID // Optional: specify to continue existing conversation
}

func New(ctx context.Context, input NewInput) (*Session, error) {
	s := &Session{
		repo:      input.Repo,
		provider:  input.Provider,
		mem:       input.Memory,
		storage:   input.Storage,
		persona:   input.Persona,
		language:  input.Language,
		localCtx:  input.LocalContext,
		useMemory: input.UseMemory,
		provName:  input.ProviderName,
		history:   &model.History{},
	}
	if s.persona == "" {
		s.persona = defaultPersona
	}

	if input.HistoryID != nil {
		history, err := loadHistory(ctx, input.Repo, input.Storage, *input.HistoryID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load history")
		}
		s.history = history
	}

	return s, nil
}

// systemPrompt assembles the instruction block sent ahead of the conversation
func (s *Session) systemPrompt(memoryContext string) string {
	var b strings.Builder
	b.WriteString(s.persona)
	if s.language != "" {
		fmt.Fprintf(&b, "\nAlways answer in %s.", s.language)
	}
	if memoryContext != "" {
		b.WriteString("\n\nRelevant long-term memory:\n")
		b.WriteString(memoryContext)
	}
	if s.localCtx != "" {
		b.WriteString("\n\nAdditional context:\n")
		b.WriteString(s.localCtx)
	}
	return b.String()
}

// transcript renders the conversation so far plus the new user message into a
// single prompt for providers without native multi-turn state.
func (s *Session) transcript(message string) string {
	var b strings.Builder
	for _, msg := range s.history.Messages {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
	}
	fmt.Fprintf(&b, "%s: %s\n%s:", model.RoleUser, message, model.RoleAssistant)
	return b.String()
}

// Send generates an assistant reply for the user message. Memory lookups and
// the auto-commit of the user message are best-effort and never fail the turn.
func (s *Session) Send(ctx context.Context, message string) (string, error) {
	var memoryContext string
	if s.useMemory && s.mem != nil {
		memoryContext = s.mem.Search(ctx, message)
	}

	prompt := s.systemPrompt(memoryContext) + "\n\n" + s.transcript(message)

	resp, provName, err := s.provider.GenerateText(ctx, s.provName, prompt)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate reply")
	}

	s.history.Messages = append(s.history.Messages,
		model.Message{Role: model.RoleUser, Content: message},
		model.Message{Role: model.RoleAssistant, Content: resp},
	)
	s.history.Provider = provName
	if s.history.Title == "" {
		s.history.Title = title(message)
	}

	if s.useMemory && s.mem != nil && len(message) > autoCommitMinLen {
		go func() {
			id := model.MemoryID("chat-" + uuid.New().String())
			s.mem.Commit(context.WithoutCancel(ctx), id, message, map[string]string{
				model.MetaSource: "chat",
				model.MetaRole:   string(model.RoleUser),
			})
		}()
	}

	if historySize(s.history.Messages) > maxHistoryBytes {
		compressed, err := compressHistory(ctx, s.provider, s.provName, s.history.Messages)
		if err != nil {
			logging.From(ctx).Warn("failed to compress chat history", "error", err)
		} else {
			s.history.Messages = compressed
		}
	}

	if err := saveHistory(ctx, s.repo, s.storage, s.language, s.history); err != nil {
		logging.From(ctx).Warn("failed to save chat history", "error", err)
	}

	return resp, nil
}

// History returns the conversation so far
func (s *Session) History() *model.History {
	return s.history
}

// title derives a history title from the first user message
func title(message string) string {
	const maxTitleLen = 60
	t := strings.TrimSpace(message)
	if len(t) > maxTitleLen {
		t = t[:maxTitleLen]
	}
	return t
}
