// Package types holds the wire shapes shared by the websocket layer and
// clients.
//
// Client -> Server (Type field, plus the payload fields each action reads):
//
//	create-room:           roomCode, gameType ("loto"|"baicao"|"xidach"), playerName
//	join-room:             roomCode, playerName, playerToken (optional resume)
//	loto-select-tickets:   selectedIndices
//	loto-clear-my-tickets: -
//	loto-draw:             -
//	loto-reset:            -
//	baicao-new-round:      -
//	xidach-hit:            -
//	xidach-stand:          -
//	xidach-new-round:      -
//
// Server -> Client (Type, payload):
//
//	room-joined:   private ack with the caller's player (id doubles as resume token)
//	room-state:    full room snapshot {roomCode, gameType, players, gameState, hostId}
//	player-joined: someone else took a seat
//	loto-update:   light per-draw update {drawnNumbers, lastDrawn, kinhWinners, gameEnded}
//	error:         {message}, sent only for room-code collisions and failed lookups
package types

// ClientMessage is the union of every client action's fields; unused fields
// stay empty.
type ClientMessage struct {
	Type            string `json:"type"`
	RoomCode        string `json:"roomCode,omitempty"`
	GameType        string `json:"gameType,omitempty"`
	PlayerName      string `json:"playerName,omitempty"`
	PlayerToken     string `json:"playerToken,omitempty"`
	SelectedIndices []int  `json:"selectedIndices,omitempty"`
}

// ServerMessage wraps one named event for the wire.
type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// ErrorPayload carries the human-readable message of an "error" event.
type ErrorPayload struct {
	Message string `json:"message"`
}
