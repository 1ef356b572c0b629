package room

// Msg is anything that can be sent to a room's inbox.
type Msg interface{ isRoomMsg() }

// Join seats a connection in the room. With a Token matching an offline seat
// (and a resume grace configured) the connection rebinds to that seat instead
// of taking a new one.
type Join struct {
	ConnID string
	Name   string
	Token  string
	Outbox chan Event
}

func (Join) isRoomMsg() {}

// Leave reports a transport disconnect for a connection.
type Leave struct{ ConnID string }

func (Leave) isRoomMsg() {}

// FromClient carries one named player action with its payload fields.
type FromClient struct {
	ConnID  string
	Action  string
	Indices []int
}

func (FromClient) isRoomMsg() {}

// GetState reflects internal state without data races. Test-only.
type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

// turnTimeout fires when the xidach turn holder sat too long. Stale fires
// carry an old generation and are dropped.
type turnTimeout struct{ gen int }

func (turnTimeout) isRoomMsg() {}

// evictSeat fires when an offline seat's resume grace runs out.
type evictSeat struct{ playerID string }

func (evictSeat) isRoomMsg() {}
