package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/baophung020394/game-family-traditional/internal/room"
)

func create(t *testing.T, h *Hub, code string, game room.GameType) CreateResult {
	t.Helper()
	reply := make(chan CreateResult, 1)
	h.Inbox() <- CreateRoom{Code: code, Game: game, Reply: reply}
	select {
	case res := <-reply:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("timed out creating room")
		return CreateResult{}
	}
}

func get(t *testing.T, h *Hub, code string) *room.Room {
	t.Helper()
	reply := make(chan *room.Room, 1)
	h.Inbox() <- GetRoom{Code: code, Reply: reply}
	select {
	case rm := <-reply:
		return rm
	case <-time.After(2 * time.Second):
		t.Fatal("timed out getting room")
		return nil
	}
}

func newTestHub(t *testing.T, cfg Config) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, cfg, zaptest.NewLogger(t))
}

func TestHub_CreateAndLookup(t *testing.T) {
	h := newTestHub(t, Config{})

	res := create(t, h, "111", room.GameLoto)
	require.NoError(t, res.Err)
	require.NotNil(t, res.Room)
	require.Equal(t, room.GameLoto, res.Room.GameType())

	require.Same(t, res.Room, get(t, h, "111"))
	require.Nil(t, get(t, h, "222"))
}

func TestHub_CodeCollisionFails(t *testing.T) {
	h := newTestHub(t, Config{})

	first := create(t, h, "333", room.GameBaiCao)
	require.NoError(t, first.Err)

	second := create(t, h, "333", room.GameXiDach)
	require.ErrorIs(t, second.Err, ErrRoomExists)
	require.Nil(t, second.Room)

	// The original room is untouched.
	require.Equal(t, room.GameBaiCao, get(t, h, "333").GameType())
}

func TestHub_RemoveRoom(t *testing.T) {
	h := newTestHub(t, Config{})

	create(t, h, "444", room.GameLoto)
	h.Inbox() <- RemoveRoom{Code: "444"}
	require.Eventually(t, func() bool {
		return get(t, h, "444") == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_EmptiedRoomUnregistersItself(t *testing.T) {
	h := newTestHub(t, Config{})

	res := create(t, h, "555", room.GameLoto)
	require.NoError(t, res.Err)

	out := make(chan room.Event, 16)
	res.Room.Inbox() <- room.Join{ConnID: "c1", Name: "Z", Outbox: out}
	res.Room.Inbox() <- room.Leave{ConnID: "c1"}

	require.Eventually(t, func() bool {
		return get(t, h, "555") == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_IdleRoomsAreEvicted(t *testing.T) {
	h := newTestHub(t, Config{IdleTTL: 100 * time.Millisecond})

	res := create(t, h, "666", room.GameLoto)
	require.NoError(t, res.Err)
	out := make(chan room.Event, 64)
	res.Room.Inbox() <- room.Join{ConnID: "c1", Name: "Z", Outbox: out}

	// No actions arrive; the janitor reaps the room even though it still has
	// a player.
	require.Eventually(t, func() bool {
		return get(t, h, "666") == nil
	}, 2*time.Second, 20*time.Millisecond)

	// Eviction must terminate the room goroutine too, not just drop the
	// registry entry: the member's outbox closes and Done reports shutdown.
	deadline := time.After(2 * time.Second)
	for open := true; open; {
		select {
		case _, ok := <-out:
			open = ok
		case <-deadline:
			t.Fatal("evicted room never closed its outboxes")
		}
	}
	select {
	case <-res.Room.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("evicted room still running")
	}
}
