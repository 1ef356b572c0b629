package room

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/baophung020394/game-family-traditional/internal/baicao"
	"github.com/baophung020394/game-family-traditional/internal/loto"
	"github.com/baophung020394/game-family-traditional/internal/xidach"
)

type GameType string

const (
	GameLoto   GameType = "loto"
	GameBaiCao GameType = "baicao"
	GameXiDach GameType = "xidach"
)

func ParseGameType(s string) (GameType, bool) {
	switch GameType(s) {
	case GameLoto, GameBaiCao, GameXiDach:
		return GameType(s), true
	default:
		return "", false
	}
}

// Player is a seat in the room. ID is a durable token issued at join, not the
// transport connection id, so a reconnecting client can resume its seat.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
	Online bool   `json:"online"`
}

// Config holds the per-room knobs.
type Config struct {
	// TurnTimeout auto-stands the xidach turn holder after this long without
	// a valid action. Zero disables the timer.
	TurnTimeout time.Duration
	// ResumeGrace keeps a disconnected player's seat this long for a token
	// rebind. Zero removes the player immediately on disconnect.
	ResumeGrace time.Duration
}

// Room is the authority for one game session: it owns the canonical state,
// serializes all actions through a single loop goroutine, and fans snapshots
// out to every member connection.
type Room struct {
	inbox chan Msg
	code  string
	game  GameType
	cfg   Config
	log   *zap.Logger
	rng   *rand.Rand

	players  []*Player
	hostID   string
	conns    map[string]string     // connID -> playerID
	outboxes map[string]chan Event // connID -> outbox

	loto   *loto.State
	baicao *baicao.State
	xidach *xidach.State

	timerGen   int
	lastActive atomic.Int64
	onEmpty    func()

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates the room with its game state initialized per game type and
// starts the loop. onEmpty runs (from the room goroutine) when the last
// player leaves, so the owner can unregister the code.
func New(parent context.Context, code string, game GameType, cfg Config, log *zap.Logger, onEmpty func()) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		inbox:    make(chan Msg, 64),
		code:     code,
		game:     game,
		cfg:      cfg,
		log:      log.With(zap.String("room", code), zap.String("game", string(game))),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		conns:    map[string]string{},
		outboxes: map[string]chan Event{},
		onEmpty:  onEmpty,
		ctx:      ctx,
		cancel:   cancel,
	}
	switch game {
	case GameLoto:
		r.loto = loto.NewState(r.rng)
	case GameBaiCao:
		r.baicao = baicao.NewState(nil, r.rng)
	case GameXiDach:
		r.xidach = xidach.NewState(r.rng)
	}
	r.touch()
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) Code() string { return r.code }

func (r *Room) GameType() GameType { return r.game }

// LastActive is safe to read from outside the room goroutine.
func (r *Room) LastActive() time.Time { return time.Unix(0, r.lastActive.Load()) }

// Done is closed once the room has shut down. Senders select on it so a dead
// room can never wedge them on a full inbox.
func (r *Room) Done() <-chan struct{} { return r.ctx.Done() }

// Close tears the room down from outside the loop. Idempotent.
func (r *Room) Close() { r.cancel() }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)

			case Leave:
				r.handleLeave(msg.ConnID)

			case FromClient:
				r.handleAction(msg)

			case turnTimeout:
				r.handleTurnTimeout(msg.gen)

			case evictSeat:
				r.handleEvict(msg.playerID)

			case GetState:
				msg.Reply <- View{
					Code:     r.code,
					HostID:   r.hostID,
					Players:  r.playerSnapshots(),
					NumConns: len(r.conns),
					Game:     r.gameState(),
				}
			}
		}
	}
}

func (r *Room) handleJoin(m Join) {
	r.touch()

	// Resume path: rebind an offline seat within the grace window.
	if m.Token != "" && r.cfg.ResumeGrace > 0 {
		if p := r.playerByID(m.Token); p != nil && !p.Online {
			p.Online = true
			r.conns[m.ConnID] = p.ID
			r.outboxes[m.ConnID] = m.Outbox
			r.sendTo(m.ConnID, Event{EvtRoomJoined, JoinedAck{
				RoomCode: r.code, GameType: r.game,
				Player: *p, GameState: r.gameStateJSON(), IsHost: p.IsHost,
			}})
			r.log.Info("player resumed", zap.String("player", p.ID))
			r.broadcastState()
			return
		}
	}

	name := m.Name
	if name == "" {
		if len(r.players) == 0 {
			name = "Chủ phòng"
		} else {
			name = fmt.Sprintf("Người chơi %d", len(r.players)+1)
		}
	}
	p := &Player{ID: uuid.NewString(), Name: name, IsHost: len(r.players) == 0, Online: true}
	if p.IsHost {
		r.hostID = p.ID
	}
	r.players = append(r.players, p)
	r.conns[m.ConnID] = p.ID
	r.outboxes[m.ConnID] = m.Outbox

	switch r.game {
	case GameBaiCao:
		r.baicao.DealIn(p.ID)
	case GameXiDach:
		if p.ID != r.hostID {
			r.xidach.Join(p.ID)
			r.armTurnTimer()
		}
	}

	r.sendTo(m.ConnID, Event{EvtRoomJoined, JoinedAck{
		RoomCode: r.code, GameType: r.game,
		Player: *p, GameState: r.gameStateJSON(), IsHost: p.IsHost,
	}})
	r.broadcastExcept(m.ConnID, Event{EvtPlayerJoined, PlayerJoined{Player: *p}})
	r.broadcastState()
}

func (r *Room) handleLeave(connID string) {
	pid, ok := r.conns[connID]
	if !ok {
		return
	}
	r.touch()
	delete(r.conns, connID)
	if ch, ok := r.outboxes[connID]; ok {
		close(ch)
		delete(r.outboxes, connID)
	}

	if r.cfg.ResumeGrace > 0 {
		p := r.playerByID(pid)
		if p == nil {
			return
		}
		p.Online = false
		time.AfterFunc(r.cfg.ResumeGrace, func() { r.trySend(evictSeat{playerID: pid}) })
		r.log.Info("player offline, holding seat", zap.String("player", pid))
		r.broadcastState()
		return
	}
	r.removePlayer(pid)
}

func (r *Room) handleEvict(playerID string) {
	p := r.playerByID(playerID)
	if p == nil || p.Online {
		return
	}
	r.log.Info("resume grace expired", zap.String("player", playerID))
	r.removePlayer(playerID)
}

func (r *Room) handleAction(m FromClient) {
	pid, ok := r.conns[m.ConnID]
	if !ok {
		return
	}
	r.touch()
	isHost := pid == r.hostID

	// Precondition violations fall through silently: no mutation, no
	// broadcast. The client learns the truth from the next snapshot.
	switch m.Action {
	case "loto-select-tickets":
		if r.game != GameLoto {
			return
		}
		if err := r.loto.SelectTickets(pid, m.Indices); err != nil {
			r.log.Debug("select-tickets rejected", zap.String("player", pid), zap.Error(err))
			return
		}
		r.broadcastState()

	case "loto-clear-my-tickets":
		if r.game != GameLoto {
			return
		}
		if err := r.loto.ClearTickets(pid); err != nil {
			return
		}
		r.broadcastState()

	case "loto-draw":
		if r.game != GameLoto || !isHost {
			return
		}
		num, err := r.loto.Draw(r.rng, r.playerOrder())
		if err != nil {
			return
		}
		// Copied so later draws don't mutate an update already in flight.
		drawn := make([]int, len(r.loto.DrawnNumbers))
		copy(drawn, r.loto.DrawnNumbers)
		winners := make([]string, len(r.loto.KinhWinners))
		copy(winners, r.loto.KinhWinners)
		r.broadcast(Event{EvtLotoUpdate, LotoUpdate{
			DrawnNumbers: drawn,
			LastDrawn:    num,
			KinhWinners:  winners,
			GameEnded:    r.loto.GameEnded,
		}})

	case "loto-reset":
		if r.game != GameLoto || !isHost {
			return
		}
		r.loto.Reset()
		r.broadcast(Event{EvtLotoUpdate, LotoUpdate{
			DrawnNumbers: []int{},
			KinhWinners:  []string{},
		}})

	case "baicao-new-round":
		if r.game != GameBaiCao || !isHost {
			return
		}
		r.baicao = baicao.NewRound(r.playerOrder(), r.rng)
		r.broadcastState()

	case "xidach-hit":
		if r.game != GameXiDach {
			return
		}
		if err := r.xidach.Hit(pid, r.turnOrder()); err != nil {
			return
		}
		r.armTurnTimer()
		r.broadcastState()

	case "xidach-stand":
		if r.game != GameXiDach {
			return
		}
		if err := r.xidach.Stand(pid, r.turnOrder()); err != nil {
			return
		}
		r.armTurnTimer()
		r.broadcastState()

	case "xidach-new-round":
		if r.game != GameXiDach || !isHost {
			return
		}
		r.xidach = xidach.NewRound(r.turnOrder(), r.rng)
		r.armTurnTimer()
		r.broadcastState()

	default:
		r.log.Debug("unknown action", zap.String("action", m.Action))
	}
}

func (r *Room) handleTurnTimeout(gen int) {
	if gen != r.timerGen {
		return
	}
	if r.game != GameXiDach || r.xidach.RoundComplete || r.xidach.CurrentTurn == "" {
		return
	}
	pid := r.xidach.CurrentTurn
	if err := r.xidach.Stand(pid, r.turnOrder()); err != nil {
		return
	}
	r.log.Info("turn timed out, auto-stand", zap.String("player", pid))
	r.armTurnTimer()
	r.broadcastState()
}

// armTurnTimer invalidates any pending fire and, if a player holds the turn,
// schedules a fresh one under the new generation.
func (r *Room) armTurnTimer() {
	if r.cfg.TurnTimeout <= 0 || r.game != GameXiDach {
		return
	}
	r.timerGen++
	if r.xidach.RoundComplete || r.xidach.CurrentTurn == "" {
		return
	}
	gen := r.timerGen
	time.AfterFunc(r.cfg.TurnTimeout, func() { r.trySend(turnTimeout{gen: gen}) })
}

func (r *Room) removePlayer(pid string) {
	idx := -1
	for i, p := range r.players {
		if p.ID == pid {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	wasHost := r.players[idx].IsHost
	r.players = append(r.players[:idx], r.players[idx+1:]...)

	if len(r.players) == 0 {
		r.log.Info("room emptied")
		if r.onEmpty != nil {
			r.onEmpty()
		}
		r.shutdown()
		return
	}
	if wasHost {
		r.players[0].IsHost = true
		r.hostID = r.players[0].ID
		r.log.Info("host migrated", zap.String("host", r.hostID))
	}

	switch r.game {
	case GameLoto:
		r.loto.RemovePlayer(pid)
	case GameBaiCao:
		r.baicao.RemovePlayer(pid)
	case GameXiDach:
		r.xidach.RemovePlayer(pid, r.turnOrder())
		r.armTurnTimer()
	}
	r.broadcastState()
}

func (r *Room) shutdown() {
	for connID, ch := range r.outboxes {
		close(ch)
		delete(r.outboxes, connID)
	}
	clear(r.conns)
	r.cancel()
	// Joins that raced the shutdown still own outboxes with a writer parked
	// on them; close those too so the writers exit.
	for {
		select {
		case m := <-r.inbox:
			if j, ok := m.(Join); ok {
				close(j.Outbox)
			}
		default:
			return
		}
	}
}

// playerOrder is every player id in join order.
func (r *Room) playerOrder() []string {
	order := make([]string, 0, len(r.players))
	for _, p := range r.players {
		order = append(order, p.ID)
	}
	return order
}

// turnOrder is playerOrder without the host, who deals instead of playing.
func (r *Room) turnOrder() []string {
	order := make([]string, 0, len(r.players))
	for _, p := range r.players {
		if p.ID != r.hostID {
			order = append(order, p.ID)
		}
	}
	return order
}

func (r *Room) playerByID(pid string) *Player {
	for _, p := range r.players {
		if p.ID == pid {
			return p
		}
	}
	return nil
}

func (r *Room) playerSnapshots() []Player {
	out := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, *p)
	}
	return out
}

func (r *Room) gameState() any {
	switch r.game {
	case GameLoto:
		return r.loto
	case GameBaiCao:
		return r.baicao
	default:
		return r.xidach
	}
}

// gameStateJSON encodes the live game state on the room goroutine. Outboxes
// are marshaled by writer goroutines while this loop keeps mutating the same
// maps and slices, so payloads must never alias them.
func (r *Room) gameStateJSON() json.RawMessage {
	data, err := json.Marshal(r.gameState())
	if err != nil {
		r.log.Error("encode game state", zap.Error(err))
		return json.RawMessage("null")
	}
	return data
}

func (r *Room) snapshot() Snapshot {
	return Snapshot{
		RoomCode:  r.code,
		GameType:  r.game,
		Players:   r.playerSnapshots(),
		GameState: r.gameStateJSON(),
		HostID:    r.hostID,
	}
}

func (r *Room) broadcastState() {
	r.broadcast(Event{EvtRoomState, r.snapshot()})
}

func (r *Room) broadcast(ev Event) {
	var dropped []string
	for connID, ch := range r.outboxes {
		select {
		case ch <- ev:
		default:
			dropped = append(dropped, connID)
		}
	}
	for _, connID := range dropped {
		r.log.Warn("dropping slow client", zap.String("conn", connID))
		r.handleLeave(connID)
	}
}

func (r *Room) broadcastExcept(exceptConnID string, ev Event) {
	for connID, ch := range r.outboxes {
		if connID == exceptConnID {
			continue
		}
		select {
		case ch <- ev:
		default:
			// Slow clients are reaped on the next full broadcast.
		}
	}
}

func (r *Room) sendTo(connID string, ev Event) {
	ch, ok := r.outboxes[connID]
	if !ok {
		return
	}
	select {
	case ch <- ev:
	default:
	}
}

// trySend is for timer callbacks running off the room goroutine. A full inbox
// means the room is saturated or gone; the fire is safe to drop.
func (r *Room) trySend(m Msg) {
	select {
	case r.inbox <- m:
	default:
	}
}

func (r *Room) touch() {
	r.lastActive.Store(time.Now().UnixNano())
}
