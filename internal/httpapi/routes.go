package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/baophung020394/game-family-traditional/internal/hub"
	"github.com/baophung020394/game-family-traditional/internal/ws"
)

func SetupRoutes(h *hub.Hub, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Post("/rooms/code", SuggestCode(h))
	r.Get("/rooms/{code}", RoomInfo(h))
	r.Get("/ws", ws.Handler(h, log))
	return r
}
