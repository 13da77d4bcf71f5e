package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/apihunt/internal/hunt"
)

type StartResponse struct {
	Token string            `json:"token"`
	State HuntStateResponse `json:"state"`
}

func handleStart(p *player) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, sess, err := p.start(r.Context())
		if err != nil {
			p.logger.Error("starting hunt", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, StartResponse{
			Token: token,
			State: huntState(p.engine, sess),
		})
	}
}

func handleState(engine *hunt.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, huntState(engine, sessionFrom(r)))
	}
}

func handleEnd(logger *slog.Logger, store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		err := store.DeleteSession(r.Context(), sess.ID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		streams := broker.CloseSession(sess.ID)
		logger.Info("hunt session ended",
			"session_id", sess.ID,
			"completed", sess.Progress.Complete(),
			"streams_closed", streams,
		)
		w.WriteHeader(http.StatusNoContent)
	}
}
