package server

import (
	"fmt"
	"net/http"
	"time"
)

const eventsPingInterval = 30 * time.Second

// handleEvents streams the session's hunt events as SSE frames named "hunt".
func handleEvents(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		// Subscribe before the headers go out so a client that has seen the
		// response cannot miss the next event.
		sub := broker.Subscribe(sessionFrom(r).ID)
		defer sub.Close()

		h := w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		ping := time.NewTicker(eventsPingInterval)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-sub.Done():
				return
			case data := <-sub.C:
				fmt.Fprintf(w, "event: hunt\ndata: %s\n\n", data)
			case <-ping.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			flusher.Flush()
		}
	}
}
