package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestInMemoryEventStore_AppendAndRead(t *testing.T) {
	store := NewInMemoryEventStore(nil)

	require.NoError(t, store.AppendEvent("job-1", NewEvent(PlanIssuedEvent, "job-1", PlanIssued{JobID: "job-1"})))
	require.NoError(t, store.AppendEvent("job-1", NewEvent(StageRecordedEvent, "job-1", StageRecorded{JobID: "job-1"})))
	require.NoError(t, store.AppendEvent("po-1", NewEvent(POGeneratedEvent, "po-1", POGenerated{OrderID: "po-1"})))

	events, err := store.ReadEvents("job-1", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].Version())
	assert.Equal(t, 2, events[1].Version())

	events, err = store.ReadEvents("job-1", 2)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, StageRecordedEvent, events[0].Type())

	all, err := store.ReadAllEvents(1)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 3, store.Position())

	missing, err := store.ReadEvents("nope", 1)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestInMemoryEventStore_NotifiesSynchronously(t *testing.T) {
	store := NewInMemoryEventStore(nil)

	var typed, wildcard []string
	typedHandler := HandlerFunc(func(e Event) error {
		typed = append(typed, e.Type())
		return nil
	})
	require.NoError(t, store.Subscribe([]string{POGeneratedEvent}, typedHandler))
	require.NoError(t, store.Subscribe([]string{AllEvents}, HandlerFunc(func(e Event) error {
		wildcard = append(wildcard, e.Type())
		return nil
	})))

	require.NoError(t, store.AppendEvent("po-1", NewEvent(POGeneratedEvent, "po-1", nil)))
	require.NoError(t, store.AppendEvent("po-1", NewEvent(OrderClosedEvent, "po-1", nil)))

	assert.Equal(t, []string{POGeneratedEvent}, typed)
	assert.Equal(t, []string{POGeneratedEvent, OrderClosedEvent}, wildcard)

	require.NoError(t, store.Unsubscribe(typedHandler))
	require.NoError(t, store.AppendEvent("po-2", NewEvent(POGeneratedEvent, "po-2", nil)))
	assert.Len(t, typed, 1)
}

func TestInMemoryEventStore_HandlerErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := NewInMemoryEventStore(zap.New(core))

	called := false
	require.NoError(t, store.Subscribe([]string{JobDeletedEvent}, HandlerFunc(func(Event) error {
		return errors.New("boom")
	})))
	require.NoError(t, store.Subscribe([]string{JobDeletedEvent}, HandlerFunc(func(Event) error {
		called = true
		return nil
	})))

	require.NoError(t, store.AppendEvent("job-1", NewEvent(JobDeletedEvent, "job-1", JobDeleted{JobID: "job-1"})))
	assert.True(t, called)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "event handler failed", logs.All()[0].Message)
}
