package workflow

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/specflow/internal/constants"
	"github.com/mrz1836/specflow/internal/domain"
	specerrors "github.com/mrz1836/specflow/internal/errors"
)

func newTestEventLog(t *testing.T) (*FileEventLog, *FileStore) {
	t.Helper()
	store := newTestStore(t)
	return NewFileEventLog(store, zerolog.Nop()), store
}

func testEvent(spec string, seq int) *domain.Event {
	return &domain.Event{
		ID:        fmt.Sprintf("event-%04d", seq),
		Timestamp: time.Date(2026, 8, 28, 10, 0, seq, 0, time.UTC),
		SpecName:  spec,
		Phase:     constants.PhaseInit,
		Action:    domain.ActionInitialized,
		Detail:    map[string]string{"seq": fmt.Sprintf("%d", seq)},
	}
}

func TestFileEventLogAppendAndTail(t *testing.T) {
	log, store := newTestEventLog(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTestRecord("checkout-flow")))

	for i := 0; i < 5; i++ {
		require.NoError(t, log.Append(ctx, testEvent("checkout-flow", i)))
	}

	events, err := log.Tail(ctx, "checkout-flow", 0)
	require.NoError(t, err)
	require.Len(t, events, 5)

	// Oldest first, most recent last.
	for i, ev := range events {
		assert.Equal(t, fmt.Sprintf("event-%04d", i), ev.ID)
		assert.Equal(t, "checkout-flow", ev.SpecName)
	}
}

func TestFileEventLogTailLimit(t *testing.T) {
	log, store := newTestEventLog(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTestRecord("checkout-flow")))

	for i := 0; i < 10; i++ {
		require.NoError(t, log.Append(ctx, testEvent("checkout-flow", i)))
	}

	events, err := log.Tail(ctx, "checkout-flow", 3)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// The last three entries, still oldest first.
	assert.Equal(t, "event-0007", events[0].ID)
	assert.Equal(t, "event-0008", events[1].ID)
	assert.Equal(t, "event-0009", events[2].ID)
}

func TestFileEventLogTailNoEvents(t *testing.T) {
	log, store := newTestEventLog(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTestRecord("quiet")))

	events, err := log.Tail(ctx, "quiet", 0)
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestFileEventLogAppendSpecNotFound(t *testing.T) {
	log, _ := newTestEventLog(t)

	err := log.Append(context.Background(), testEvent("missing", 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, specerrors.ErrSpecNotFound)
}

func TestFileEventLogAppendNilEvent(t *testing.T) {
	log, _ := newTestEventLog(t)

	err := log.Append(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, specerrors.ErrEmptyValue)
}

func TestFileEventLogTailSpecNotFound(t *testing.T) {
	log, _ := newTestEventLog(t)

	_, err := log.Tail(context.Background(), "missing", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, specerrors.ErrSpecNotFound)
}

func TestFileEventLogTailSkipsMalformedLines(t *testing.T) {
	log, store := newTestEventLog(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTestRecord("checkout-flow")))
	require.NoError(t, log.Append(ctx, testEvent("checkout-flow", 0)))

	// Corrupt the middle of the log by hand.
	f, err := os.OpenFile(store.eventLogPath("checkout-flow"), os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("this is not json\n\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, log.Append(ctx, testEvent("checkout-flow", 1)))

	events, err := log.Tail(ctx, "checkout-flow", 0)
	require.NoError(t, err)
	require.Len(t, events, 2, "malformed and blank lines are skipped, valid entries survive")
	assert.Equal(t, "event-0000", events[0].ID)
	assert.Equal(t, "event-0001", events[1].ID)
}

func TestFileEventLogAppendContextCanceled(t *testing.T) {
	log, store := newTestEventLog(t)
	require.NoError(t, store.Create(context.Background(), newTestRecord("checkout-flow")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, log.Append(ctx, testEvent("checkout-flow", 0)), context.Canceled)
}
