package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/baophung020394/game-family-traditional/internal/hub"
	"github.com/baophung020394/game-family-traditional/internal/room"
	"github.com/baophung020394/game-family-traditional/internal/types"
)

const writeTimeout = 3 * time.Second

// Handler upgrades the connection and relays the client's named actions into
// rooms. A connection starts roomless; create-room/join-room bind it, and any
// other action is forwarded to the bound room tagged with the connection id.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := randID(8)
		log := log.With(zap.String("conn", connID))
		log.Info("client connected")

		var current *room.Room
		// Every room send selects on Done: a shut-down room stops draining
		// its inbox, and blocking on it would wedge this connection.
		leave := func() {
			if current == nil {
				return
			}
			select {
			case current.Inbox() <- room.Leave{ConnID: connID}:
			case <-current.Done():
			}
			current = nil
		}
		defer leave()
		defer log.Info("client disconnected")

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				log.Debug("bad payload", zap.Error(err))
				writeEvent(r.Context(), conn, "error", types.ErrorPayload{Message: "Dữ liệu không hợp lệ"})
				continue
			}

			switch cm.Type {
			case "create-room":
				code, ok := normalizeCode(cm.RoomCode)
				if !ok {
					log.Debug("invalid room code", zap.String("code", cm.RoomCode))
					continue
				}
				game, ok := room.ParseGameType(cm.GameType)
				if !ok {
					log.Debug("invalid game type", zap.String("gameType", cm.GameType))
					continue
				}
				reply := make(chan hub.CreateResult, 1)
				h.Inbox() <- hub.CreateRoom{Code: code, Game: game, Reply: reply}
				res := <-reply
				if res.Err != nil {
					writeEvent(r.Context(), conn, "error", types.ErrorPayload{Message: "Mã phòng đã tồn tại"})
					continue
				}
				leave()
				out := make(chan room.Event, 16)
				select {
				case res.Room.Inbox() <- room.Join{ConnID: connID, Name: cm.PlayerName, Outbox: out}:
					current = res.Room
					go writeLoop(r.Context(), conn, out, log)
				case <-res.Room.Done():
					writeEvent(r.Context(), conn, "error", types.ErrorPayload{Message: "Không tìm thấy phòng"})
				}

			case "join-room":
				code, ok := normalizeCode(cm.RoomCode)
				if !ok {
					writeEvent(r.Context(), conn, "error", types.ErrorPayload{Message: "Không tìm thấy phòng"})
					continue
				}
				reply := make(chan *room.Room, 1)
				h.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
				rm := <-reply
				if rm == nil {
					writeEvent(r.Context(), conn, "error", types.ErrorPayload{Message: "Không tìm thấy phòng"})
					continue
				}
				leave()
				out := make(chan room.Event, 16)
				select {
				case rm.Inbox() <- room.Join{ConnID: connID, Name: cm.PlayerName, Token: cm.PlayerToken, Outbox: out}:
					current = rm
					go writeLoop(r.Context(), conn, out, log)
				case <-rm.Done():
					writeEvent(r.Context(), conn, "error", types.ErrorPayload{Message: "Không tìm thấy phòng"})
				}

			default:
				if current == nil {
					continue
				}
				select {
				case current.Inbox() <- room.FromClient{ConnID: connID, Action: cm.Type, Indices: cm.SelectedIndices}:
				case <-current.Done():
					current = nil
				}
			}
		}
	}
}

// writeLoop drains one room membership's outbox onto the socket. It ends when
// the room closes the channel (leave, slow-client drop, or room shutdown).
func writeLoop(ctx context.Context, conn *websocket.Conn, out <-chan room.Event, log *zap.Logger) {
	for ev := range out {
		payload, err := json.Marshal(types.ServerMessage{Type: ev.Type, Payload: ev.Payload})
		if err != nil {
			log.Error("marshal event", zap.String("event", ev.Type), zap.Error(err))
			continue
		}
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		_ = conn.Write(wctx, websocket.MessageText, payload)
		cancel()
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, evType string, payload any) {
	data, err := json.Marshal(types.ServerMessage{Type: evType, Payload: payload})
	if err != nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, data)
}

// normalizeCode trims the client-supplied room code and requires it to be
// short and all digits.
func normalizeCode(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if len(code) == 0 || len(code) > 8 {
		return "", false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return "", false
		}
	}
	return code, true
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
