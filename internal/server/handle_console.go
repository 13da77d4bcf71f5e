package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

// ConsoleReply is the frame written back for every console submission.
type ConsoleReply struct {
	Status int             `json:"status"`
	Result *SubmitResponse `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// handleConsole upgrades to a websocket where every text frame is a
// SubmitRequest. Frames are handled one at a time.
func handleConsole(p *player) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			p.logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Minute)
		defer cancel()

		// Ending the session ends the console.
		sub := p.broker.Subscribe(sess.ID)
		defer sub.Close()
		go func() {
			select {
			case <-sub.Done():
				conn.Close(websocket.StatusNormalClosure, "session ended")
				cancel()
			case <-ctx.Done():
			}
		}()

		for {
			typ, msg, err := conn.Read(ctx)
			if err != nil {
				p.logger.Debug("console read ended", "session_id", sess.ID, "error", err)
				return
			}

			reply := consoleReply(ctx, p, sess.ID, typ, msg)
			data, _ := json.Marshal(reply)
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				p.logger.Debug("console write failed", "session_id", sess.ID, "error", err)
				return
			}
		}
	}
}

func consoleReply(ctx context.Context, p *player, sessionID string, typ websocket.MessageType, msg []byte) ConsoleReply {
	if typ != websocket.MessageText {
		return ConsoleReply{Status: http.StatusBadRequest, Error: "text frames only"}
	}

	var req SubmitRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		return ConsoleReply{Status: http.StatusBadRequest, Error: "invalid request body"}
	}

	resp, err := p.submit(ctx, sessionID, req)
	if err != nil {
		status, text := submitStatus(err)
		return ConsoleReply{Status: status, Error: text}
	}
	return ConsoleReply{Status: http.StatusOK, Result: &resp}
}
