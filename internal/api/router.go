package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", apiHandler.HealthHandler)

		r.Get("/history", apiHandler.GetHistoryHandler)
		r.Delete("/history", apiHandler.ClearHistoryHandler)

		r.Post("/messages", apiHandler.PostMessageHandler)
		r.Post("/transcribe", apiHandler.TranscribeHandler)
		r.Post("/turns/{turnID}/speech", apiHandler.SpeechHandler)

		r.Get("/ws", apiHandler.WebSocketHandler)
	})

	return r
}
