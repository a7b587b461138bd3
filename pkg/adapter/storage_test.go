package adapter_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aura-ai/aura/pkg/adapter"
	"github.com/m-mizutani/gt"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := adapter.NewLocalStorage(t.TempDir())
	gt.NoError(t, err)

	w, err := s.Put(ctx, "histories/abc.json")
	gt.NoError(t, err)
	_, err = w.Write([]byte(`{"messages":[]}`))
	gt.NoError(t, err)
	gt.NoError(t, w.Close())

	r, err := s.Get(ctx, "histories/abc.json")
	gt.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	gt.NoError(t, err)
	gt.Equal(t, string(data), `{"messages":[]}`)
}

func TestLocalStorageNotFound(t *testing.T) {
	ctx := context.Background()
	s, err := adapter.NewLocalStorage(t.TempDir())
	gt.NoError(t, err)

	_, err = s.Get(ctx, "histories/missing.json")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, adapter.ErrObjectNotFound))
}

func TestLocalStoragePutReplacesAtomically(t *testing.T) {
	ctx := context.Background()
	s, err := adapter.NewLocalStorage(t.TempDir())
	gt.NoError(t, err)

	w, err := s.Put(ctx, "memory/snapshot.json")
	gt.NoError(t, err)
	_, err = w.Write([]byte(`{"version":1}`))
	gt.NoError(t, err)
	gt.NoError(t, w.Close())

	// An in-flight write must not be visible until it is closed.
	w2, err := s.Put(ctx, "memory/snapshot.json")
	gt.NoError(t, err)
	_, err = w2.Write([]byte(`{"ver`))
	gt.NoError(t, err)

	r, err := s.Get(ctx, "memory/snapshot.json")
	gt.NoError(t, err)
	data, err := io.ReadAll(r)
	gt.NoError(t, err)
	gt.NoError(t, r.Close())
	gt.Equal(t, string(data), `{"version":1}`)

	_, err = w2.Write([]byte(`sion":2}`))
	gt.NoError(t, err)
	gt.NoError(t, w2.Close())

	r, err = s.Get(ctx, "memory/snapshot.json")
	gt.NoError(t, err)
	data, err = io.ReadAll(r)
	gt.NoError(t, err)
	gt.NoError(t, r.Close())
	gt.Equal(t, string(data), `{"version":2}`)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s, err := adapter.NewLocalStorage(t.TempDir())
	gt.NoError(t, err)

	_, err = s.Get(ctx, "../outside")
	gt.Error(t, err)

	_, err = s.Put(ctx, "/etc/passwd")
	gt.Error(t, err)
}
