package sse

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, context.CancelFunc) {
	t.Helper()
	m := NewManager(slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(context.Background())
	go m.Start(ctx)
	t.Cleanup(cancel)
	return m, cancel
}

func waitEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case ev := <-c.EventChan:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestEmit_ReachesAllClients(t *testing.T) {
	m, _ := newTestManager(t)

	a, err := m.Connect()
	require.NoError(t, err)
	b, err := m.Connect()
	require.NoError(t, err)
	assert.Equal(t, 2, m.ClientCount())

	m.Emit(NewChangeEvent("Create", "x.txt", "/root/x.txt"))

	for _, c := range []*Client{a, b} {
		ev := waitEvent(t, c)
		assert.Equal(t, EventChange, ev.Type)
		data, ok := ev.Data.(ChangeData)
		require.True(t, ok)
		assert.Equal(t, "Create", data.Kind)
		assert.Equal(t, "x.txt", data.Name)
	}
}

func TestDisconnect_ClosesChannels(t *testing.T) {
	m, _ := newTestManager(t)

	c, err := m.Connect()
	require.NoError(t, err)
	m.Disconnect(c.ID)

	assert.Equal(t, 0, m.ClientCount())
	select {
	case <-c.Done:
	case <-time.After(time.Second):
		t.Fatal("done channel not closed")
	}

	// Repeated disconnects are harmless.
	m.Disconnect(c.ID)
}

func TestEmitAfterShutdown_IsDropped(t *testing.T) {
	m, _ := newTestManager(t)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(shutdownCtx))

	// Must not panic on the closed queue.
	m.Emit(NewChangeEvent("Modify", "y", "/root/y"))
}

func TestStop_DisconnectsClients(t *testing.T) {
	m, cancel := newTestManager(t)

	c, err := m.Connect()
	require.NoError(t, err)

	cancel()

	select {
	case <-c.Done:
	case <-time.After(2 * time.Second):
		t.Fatal("client not closed on stop")
	}
	assert.Equal(t, 0, m.ClientCount())
}
