package memory

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aura-ai/aura/pkg/adapter"
	"github.com/aura-ai/aura/pkg/model"
	"github.com/aura-ai/aura/pkg/repository"
	"github.com/aura-ai/aura/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultTimeout bounds remote store calls so chat latency stays flat when
	// the backend is slow.
	DefaultTimeout = 5 * time.Second

	// DefaultMirrorCapacity is the size of the local mirror that answers
	// queries while the remote store is unavailable.
	DefaultMirrorCapacity = 100

	snapshotKey = "memory/snapshot.json"
)

// Service is the ingestion and query façade over the memory store. All of its
// operations on the chat path are best-effort: a dead or slow remote store
// degrades answers, it never breaks them. Every write is mirrored into a small
// bounded in-process store that serves as the fallback.
type Service struct {
	remote   repository.Repository
	mirror   *repository.Memory
	snapshot adapter.Storage
	timeout  time.Duration
	topK     int
}

type Option func(*Service)

// WithTimeout bounds each remote store call
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithTopK sets how many records a search folds into context. Values <= 0 keep
// the default.
func WithTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithSnapshot persists the local mirror through storage so it survives
// restarts.
func WithSnapshot(storage adapter.Storage) Option {
	return func(s *Service) {
		s.snapshot = storage
	}
}

// WithMirrorCapacity bounds the local mirror
func WithMirrorCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.mirror = repository.NewMemory(repository.WithCapacity(n))
		}
	}
}

// New creates a memory service backed by the given repository. When a snapshot
// storage is configured, a previously saved mirror is restored best-effort.
func New(ctx context.Context, remote repository.Repository, opts ...Option) *Service {
	s := &Service{
		remote:  remote,
		mirror:  repository.NewMemory(repository.WithCapacity(DefaultMirrorCapacity)),
		timeout: DefaultTimeout,
		topK:    DefaultTopK,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.snapshot != nil {
		if err := s.restoreMirror(ctx); err != nil {
			logging.From(ctx).Warn("failed to restore memory snapshot", "error", err)
		}
	}
	return s
}

// Commit stores a memory record. Failures of the remote store are logged and
// swallowed; the record always lands in the local mirror, so a later Search can
// still find it. Safe to call from fire-and-forget goroutines.
func (s *Service) Commit(ctx context.Context, id model.MemoryID, text string, metadata map[string]string) {
	if text == "" {
		return
	}

	record := &model.MemoryRecord{
		ID:        id,
		Text:      text,
		Metadata:  model.CloneMetadata(metadata),
		CreatedAt: time.Now(),
	}

	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.remote.PutMemory(tctx, record); err != nil {
		logging.From(ctx).Warn("memory store unavailable, record kept locally",
			"id", id, "error", err)
	}

	if err := s.mirror.PutMemory(ctx, record); err != nil {
		logging.From(ctx).Warn("failed to mirror memory record", "id", id, "error", err)
	}
	s.saveMirror(ctx)
}

// Search returns relevant memory context for the query, joined one record per
// line. It never fails: when the remote store does not answer within the
// timeout the local mirror is ranked instead, and with nothing relevant the
// result is empty.
func (s *Service) Search(ctx context.Context, query string) string {
	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	records, err := s.remote.ListMemories(tctx)
	if err != nil {
		logging.From(ctx).Warn("memory store unavailable, searching local mirror", "error", err)
		records, err = s.mirror.ListMemories(ctx)
		if err != nil {
			return ""
		}
	}
	return Rank(records, query, s.topK)
}

// Forget removes a record from both stores. Deleting an unknown ID is not an
// error.
func (s *Service) Forget(ctx context.Context, id model.MemoryID) error {
	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	remoteErr := s.remote.DeleteMemory(tctx, id)
	if err := s.mirror.DeleteMemory(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete mirrored record", goerr.V("id", id))
	}
	s.saveMirror(ctx)
	if remoteErr != nil {
		return goerr.Wrap(remoteErr, "failed to delete memory record", goerr.V("id", id))
	}
	return nil
}

// Records enumerates stored memory records, falling back to the local mirror
// when the remote store is unavailable.
func (s *Service) Records(ctx context.Context) ([]*model.MemoryRecord, error) {
	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	records, err := s.remote.ListMemories(tctx)
	if err != nil {
		logging.From(ctx).Warn("memory store unavailable, listing local mirror", "error", err)
		return s.mirror.ListMemories(ctx)
	}
	return records, nil
}

// Close releases the remote store client
func (s *Service) Close() error {
	return s.remote.Close()
}

type snapshotRecord struct {
	ID        model.MemoryID    `json:"id"`
	Text      string            `json:"text"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// saveMirror snapshots the mirror. Best-effort: a failed snapshot only costs
// fallback coverage after a restart.
func (s *Service) saveMirror(ctx context.Context) {
	if s.snapshot == nil {
		return
	}

	records, err := s.mirror.ListMemories(ctx)
	if err != nil {
		return
	}
	out := make([]snapshotRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, snapshotRecord{
			ID:        rec.ID,
			Text:      rec.Text,
			Metadata:  rec.Metadata,
			CreatedAt: rec.CreatedAt,
		})
	}

	w, err := s.snapshot.Put(ctx, snapshotKey)
	if err != nil {
		logging.From(ctx).Warn("failed to open memory snapshot", "error", err)
		return
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		logging.From(ctx).Warn("failed to write memory snapshot", "error", err)
		_ = w.Close()
		return
	}
	if err := w.Close(); err != nil {
		logging.From(ctx).Warn("failed to close memory snapshot", "error", err)
	}
}

func (s *Service) restoreMirror(ctx context.Context) error {
	r, err := s.snapshot.Get(ctx, snapshotKey)
	if err != nil {
		if errors.Is(err, adapter.ErrObjectNotFound) {
			return nil
		}
		return err
	}
	defer r.Close()

	var records []snapshotRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return goerr.Wrap(err, "failed to decode memory snapshot")
	}
	for _, rec := range records {
		record := &model.MemoryRecord{
			ID:        rec.ID,
			Text:      rec.Text,
			Metadata:  rec.Metadata,
			CreatedAt: rec.CreatedAt,
		}
		if err := s.mirror.PutMemory(ctx, record); err != nil {
			return err
		}
	}
	return nil
}
