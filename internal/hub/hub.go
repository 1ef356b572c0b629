package hub

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/baophung020394/game-family-traditional/internal/room"
)

var ErrRoomExists = errors.New("room code already in use")

type HubMsg interface{ isHubMsg() }

// CreateRoom registers a new room under Code. Fails with ErrRoomExists when
// the code is taken; unlike other precondition failures, a collision is
// surfaced to the caller.
type CreateRoom struct {
	Code  string
	Game  room.GameType
	Reply chan CreateResult
}

type CreateResult struct {
	Room *room.Room
	Err  error
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

type RemoveRoom struct{ Code string }

func (CreateRoom) isHubMsg() {}
func (GetRoom) isHubMsg()    {}
func (RemoveRoom) isHubMsg() {}

// Config holds registry-wide knobs plus the per-room config handed to every
// room the hub creates.
type Config struct {
	Room room.Config
	// IdleTTL evicts rooms that saw no action for this long. Zero disables
	// the janitor; rooms then live only until their last player leaves.
	IdleTTL time.Duration
}

// Hub owns the code -> room registry. All registry access goes through the
// inbox, so distinct rooms stay independent while the mapping itself is
// never raced.
type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	cfg    Config
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, cfg Config, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		cfg:    cfg,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	var janitor <-chan time.Time
	if h.cfg.IdleTTL > 0 {
		t := time.NewTicker(h.cfg.IdleTTL / 4)
		defer t.Stop()
		janitor = t.C
	}

	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case <-janitor:
			h.evictIdle()

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				if h.rooms[msg.Code] != nil {
					msg.Reply <- CreateResult{Err: ErrRoomExists}
					break
				}
				code := msg.Code
				rm := room.New(h.ctx, code, msg.Game, h.cfg.Room, h.log, func() {
					// Runs on the room goroutine; never block it on us.
					select {
					case h.inbox <- RemoveRoom{Code: code}:
					default:
					}
				})
				h.rooms[code] = rm
				h.log.Info("room created", zap.String("code", code), zap.String("game", string(msg.Game)))
				msg.Reply <- CreateResult{Room: rm}

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // May be nil

			case RemoveRoom:
				delete(h.rooms, msg.Code)
			}
		}
	}
}

func (h *Hub) evictIdle() {
	cutoff := time.Now().Add(-h.cfg.IdleTTL)
	for code, rm := range h.rooms {
		if rm.LastActive().After(cutoff) {
			continue
		}
		h.log.Info("evicting idle room", zap.String("code", code))
		// Close cancels the room's context directly: an inbox send could be
		// dropped against a saturated room, leaving it running unregistered.
		rm.Close()
		delete(h.rooms, code)
	}
}

func (h *Hub) shutdown() {
	for code, rm := range h.rooms {
		rm.Close()
		delete(h.rooms, code)
	}
	h.cancel()
}
