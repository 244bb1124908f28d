package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/Praveenkumar76/skypad-backend/internal/handlers"
	"github.com/Praveenkumar76/skypad-backend/internal/metrics"
)

func RoomRoutes(r *chi.Mux, h *handlers.RoomHandlers) {
	r.Route("/api/v1/rooms", func(r chi.Router) {
		r.Post("/", h.CreateRoom)
		r.Post("/{roomId}/join", h.JoinRoom)
		r.Post("/{roomId}/ready", h.Ready)
		r.Post("/{roomId}/submit", h.Submit)
		r.Get("/{roomId}", h.GetRoom)
		r.HandleFunc("/{roomId}/ws", h.WS)
	})

	r.Get("/healthz", h.Health)
	r.Get("/metrics", metrics.Handler().ServeHTTP)
}
