package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/apihunt/internal/hunt"
)

func handleListClues(engine *hunt.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clues := engine.ListClues()
		out := make([]ClueInfo, 0, len(clues))
		for _, c := range clues {
			out = append(out, clueInfo(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleGetClue(engine *hunt.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := engine.LookupClue(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, clueInfo(c))
	}
}
