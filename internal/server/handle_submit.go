package server

import (
	"net/http"
	"strings"
)

func handleSubmit(p *player) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Endpoint) == "" || req.Method == "" {
			writeError(w, http.StatusBadRequest, "endpoint and method are required")
			return
		}

		resp, err := p.submit(r.Context(), sessionFrom(r).ID, req)
		if err != nil {
			status, msg := submitStatus(err)
			if status == http.StatusInternalServerError {
				p.logger.Error("submitting request", "error", err)
			}
			writeError(w, status, msg)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
