package room

import "encoding/json"

// Event is one server-to-client message: a named payload the transport layer
// wraps and writes as-is.
type Event struct {
	Type    string
	Payload any
}

// Event types emitted by a room.
const (
	EvtRoomJoined   = "room-joined"
	EvtRoomState    = "room-state"
	EvtPlayerJoined = "player-joined"
	EvtLotoUpdate   = "loto-update"
)

// Snapshot is the full room view broadcast after any membership or game
// change. GameState is pre-encoded on the room goroutine: outbox consumers
// marshal concurrently with later actions, so the payload must not alias the
// live state.
type Snapshot struct {
	RoomCode  string          `json:"roomCode"`
	GameType  GameType        `json:"gameType"`
	Players   []Player        `json:"players"`
	GameState json.RawMessage `json:"gameState"`
	HostID    string          `json:"hostId"`
}

// JoinedAck is the private acknowledgement sent to the joining connection.
// Player.ID doubles as the resume token.
type JoinedAck struct {
	RoomCode  string          `json:"roomCode"`
	GameType  GameType        `json:"gameType"`
	Player    Player          `json:"player"`
	GameState json.RawMessage `json:"gameState"`
	IsHost    bool            `json:"isHost"`
}

// PlayerJoined notifies existing members about a new seat.
type PlayerJoined struct {
	Player Player `json:"player"`
}

// LotoUpdate is the light per-draw broadcast. LastDrawn is zero on reset.
type LotoUpdate struct {
	DrawnNumbers []int    `json:"drawnNumbers"`
	LastDrawn    int      `json:"lastDrawn,omitempty"`
	KinhWinners  []string `json:"kinhWinners"`
	GameEnded    bool     `json:"gameEnded"`
}

// View is the test-only reflection of a room's internals.
type View struct {
	Code     string
	HostID   string
	Players  []Player
	NumConns int
	Game     any
}
