package repository

import (
	"context"
	"sync"
	"time"

	"github.com/aura-ai/aura/pkg/model"
)

// Memory is an in-process Repository. With a capacity configured it retains only
// the most recent records: inserting beyond the cap evicts the single oldest
// record by CreatedAt. Each operation is atomic with respect to itself;
// concurrent puts to the same ID resolve last-write-wins.
type Memory struct {
	mu       sync.RWMutex
	capacity int

	records   map[model.MemoryID]*model.MemoryRecord
	order     []model.MemoryID
	histories []*model.History
}

type MemoryOption func(*Memory)

// WithCapacity bounds the store to the most recent n records. Zero or negative
// means unbounded.
func WithCapacity(n int) MemoryOption {
	return func(m *Memory) {
		m.capacity = n
	}
}

// NewMemory creates a new in-process repository
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		records: make(map[model.MemoryID]*model.MemoryRecord),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) PutMemory(_ context.Context, record *model.MemoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := &model.MemoryRecord{
		ID:        record.ID,
		Text:      record.Text,
		Metadata:  model.CloneMetadata(record.Metadata),
		CreatedAt: record.CreatedAt,
	}

	if prev, ok := m.records[record.ID]; ok {
		// Overwrite replaces text and metadata but keeps the original CreatedAt,
		// so the record does not jump the eviction queue.
		stored.CreatedAt = prev.CreatedAt
		m.records[record.ID] = stored
		return nil
	}

	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	m.records[record.ID] = stored
	m.order = append(m.order, record.ID)

	if m.capacity > 0 && len(m.order) > m.capacity {
		m.evictOldest()
	}
	return nil
}

// evictOldest drops the single record with the smallest CreatedAt. Callers hold
// the write lock.
func (m *Memory) evictOldest() {
	oldest := -1
	for i, id := range m.order {
		rec, ok := m.records[id]
		if !ok {
			continue
		}
		if oldest < 0 || rec.CreatedAt.Before(m.records[m.order[oldest]].CreatedAt) {
			oldest = i
		}
	}
	if oldest < 0 {
		return
	}
	delete(m.records, m.order[oldest])
	m.order = append(m.order[:oldest], m.order[oldest+1:]...)
}

func (m *Memory) GetMemory(_ context.Context, id model.MemoryID) (*model.MemoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, ErrMemoryNotFound
	}
	cp := *rec
	cp.Metadata = model.CloneMetadata(rec.Metadata)
	return &cp, nil
}

func (m *Memory) DeleteMemory(_ context.Context, id model.MemoryID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return nil
	}
	delete(m.records, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) ListMemories(_ context.Context) ([]*model.MemoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*model.MemoryRecord, 0, len(m.order))
	for _, id := range m.order {
		rec, ok := m.records[id]
		if !ok {
			continue
		}
		cp := *rec
		cp.Metadata = model.CloneMetadata(rec.Metadata)
		records = append(records, &cp)
	}
	return records, nil
}

func (m *Memory) PutHistory(_ context.Context, history *model.History) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *history
	for i, h := range m.histories {
		if h.ID == history.ID {
			m.histories[i] = &cp
			return nil
		}
	}
	m.histories = append(m.histories, &cp)
	return nil
}

func (m *Memory) GetHistory(_ context.Context, id model.HistoryID) (*model.History, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, h := range m.histories {
		if h.ID == id {
			cp := *h
			return &cp, nil
		}
	}
	return nil, ErrMemoryNotFound
}

func (m *Memory) ListHistories(_ context.Context, offset, limit int) ([]*model.History, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Newest first
	ordered := make([]*model.History, 0, len(m.histories))
	for i := len(m.histories) - 1; i >= 0; i-- {
		cp := *m.histories[i]
		ordered = append(ordered, &cp)
	}

	if offset < 0 {
		offset = 0
	}
	if offset >= len(ordered) {
		return nil, nil
	}
	ordered = ordered[offset:]
	if limit > 0 && limit < len(ordered) {
		ordered = ordered[:limit]
	}
	return ordered, nil
}

func (m *Memory) ClearHistories(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histories = nil
	return nil
}

func (m *Memory) Close() error {
	return nil
}

var _ Repository = (*Memory)(nil)
