package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/aura-ai/aura/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	memoryCollection  = "memories"
	historyCollection = "histories"
)

// Firestore implements Repository backed by Cloud Firestore. It is the remote
// variant of the memory store: transport failures surface as ErrUnavailable and
// callers (the memory façade) decide how to degrade.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}
	return &Firestore{client: client}, nil
}

type memoryDoc struct {
	Text      string            `firestore:"text"`
	Metadata  map[string]string `firestore:"metadata"`
	CreatedAt time.Time         `firestore:"created_at"`
}

type historyDoc struct {
	Title     string    `firestore:"title"`
	Provider  string    `firestore:"provider"`
	Language  string    `firestore:"language"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// unavailable folds any transport-level failure (timeout, connection refused,
// non-OK status) into ErrUnavailable.
func unavailable(err error, msg string) error {
	return goerr.Wrap(ErrUnavailable, msg, goerr.V("cause", err.Error()))
}

func (r *Firestore) PutMemory(ctx context.Context, record *model.MemoryRecord) error {
	doc := r.client.Collection(memoryCollection).Doc(string(record.ID))

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	// Overwrite preserves the original CreatedAt. Read-then-write, not a
	// transaction: concurrent puts to the same ID are last-write-wins anyway.
	snap, err := doc.Get(ctx)
	switch {
	case err == nil:
		var prev memoryDoc
		if derr := snap.DataTo(&prev); derr == nil && !prev.CreatedAt.IsZero() {
			createdAt = prev.CreatedAt
		}
	case !isNotFound(err):
		return unavailable(err, "failed to check existing memory")
	}

	if _, err := doc.Set(ctx, memoryDoc{
		Text:      record.Text,
		Metadata:  record.Metadata,
		CreatedAt: createdAt,
	}); err != nil {
		return unavailable(err, "failed to put memory")
	}
	return nil
}

func (r *Firestore) GetMemory(ctx context.Context, id model.MemoryID) (*model.MemoryRecord, error) {
	snap, err := r.client.Collection(memoryCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrMemoryNotFound, "no such memory", goerr.V("id", id))
		}
		return nil, unavailable(err, "failed to get memory")
	}

	var doc memoryDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode memory document", goerr.V("id", id))
	}
	return &model.MemoryRecord{
		ID:        id,
		Text:      doc.Text,
		Metadata:  doc.Metadata,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (r *Firestore) DeleteMemory(ctx context.Context, id model.MemoryID) error {
	// Firestore deletes are idempotent: removing a missing document succeeds.
	if _, err := r.client.Collection(memoryCollection).Doc(string(id)).Delete(ctx); err != nil {
		return unavailable(err, "failed to delete memory")
	}
	return nil
}

func (r *Firestore) ListMemories(ctx context.Context) ([]*model.MemoryRecord, error) {
	// CreatedAt is immutable after first insert, so ordering by it reproduces
	// insertion order.
	iter := r.client.Collection(memoryCollection).OrderBy("created_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var records []*model.MemoryRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, unavailable(err, "failed to list memories")
		}

		var doc memoryDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode memory document", goerr.V("id", snap.Ref.ID))
		}
		records = append(records, &model.MemoryRecord{
			ID:        model.MemoryID(snap.Ref.ID),
			Text:      doc.Text,
			Metadata:  doc.Metadata,
			CreatedAt: doc.CreatedAt,
		})
	}
	return records, nil
}

func (r *Firestore) PutHistory(ctx context.Context, history *model.History) error {
	doc := r.client.Collection(historyCollection).Doc(string(history.ID))
	if _, err := doc.Set(ctx, historyDoc{
		Title:     history.Title,
		Provider:  history.Provider,
		Language:  history.Language,
		CreatedAt: history.CreatedAt,
		UpdatedAt: history.UpdatedAt,
	}); err != nil {
		return unavailable(err, "failed to put history")
	}
	return nil
}

func (r *Firestore) GetHistory(ctx context.Context, id model.HistoryID) (*model.History, error) {
	snap, err := r.client.Collection(historyCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrMemoryNotFound, "no such history", goerr.V("id", id))
		}
		return nil, unavailable(err, "failed to get history")
	}

	var doc historyDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode history document", goerr.V("id", id))
	}
	return &model.History{
		ID:        id,
		Title:     doc.Title,
		Provider:  doc.Provider,
		Language:  doc.Language,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (r *Firestore) ListHistories(ctx context.Context, offset, limit int) ([]*model.History, error) {
	q := r.client.Collection(historyCollection).OrderBy("created_at", firestore.Desc)
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var histories []*model.History
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, unavailable(err, "failed to list histories")
		}

		var doc historyDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode history document", goerr.V("id", snap.Ref.ID))
		}
		histories = append(histories, &model.History{
			ID:        model.HistoryID(snap.Ref.ID),
			Title:     doc.Title,
			Provider:  doc.Provider,
			Language:  doc.Language,
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		})
	}
	return histories, nil
}

func (r *Firestore) ClearHistories(ctx context.Context) error {
	iter := r.client.Collection(historyCollection).Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return unavailable(err, "failed to enumerate histories")
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return unavailable(err, "failed to delete history")
		}
	}
	return nil
}

func (r *Firestore) Close() error {
	return r.client.Close()
}

var _ Repository = (*Firestore)(nil)
