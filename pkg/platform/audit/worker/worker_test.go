package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "vaxtrack/pkg/platform/audit"
	"vaxtrack/pkg/platform/audit/store/memory"
)

type failingStore struct{ calls int }

func (f *failingStore) Append(context.Context, audit.Event) error {
	f.calls++
	return errors.New("db down")
}

func TestWorkerDrainsUntilClosed(t *testing.T) {
	store := memory.NewInMemoryStore()
	inbox := make(chan audit.Event, 3)
	inbox <- audit.Event{Action: audit.ActionChildRegistered, Facility: "KBTH"}
	inbox <- audit.Event{Action: audit.ActionVaccineAdministered, Facility: "KBTH"}
	close(inbox)

	err := NewWorker(store, inbox).Run(context.Background())
	require.NoError(t, err)

	events, err := store.ListByFacility(context.Background(), "KBTH", 10)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestWorkerKeepsGoingAfterStoreError(t *testing.T) {
	store := &failingStore{}
	inbox := make(chan audit.Event, 2)
	inbox <- audit.Event{Action: audit.ActionStockConsumed}
	inbox <- audit.Event{Action: audit.ActionStockConsumed}
	close(inbox)

	w := NewWorker(store, inbox, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, 2, store.calls)
}

func TestWorkerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- NewWorker(memory.NewInMemoryStore(), make(chan audit.Event)).Run(ctx) }()

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
