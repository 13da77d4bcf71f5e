package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/playperu/apihunt/internal/hunt"
)

var errRequestPending = errors.New("a request is already pending for this session")

// SubmitRequest is a simulated request typed into the console.
type SubmitRequest struct {
	Endpoint string      `json:"endpoint"`
	Method   string      `json:"method"`
	Body     RequestBody `json:"body,omitempty" description:"Request body: either a JSON value or a string holding its raw text."`
}

// RequestBody is the raw text of a simulated request body. On the wire it is
// either a JSON string holding that text, so malformed bodies can be sent
// and reported, or any other JSON value, which is kept as written.
type RequestBody string

func (b *RequestBody) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(raw, []byte("null")):
		*b = ""
	case len(raw) > 0 && raw[0] == '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return err
		}
		*b = RequestBody(text)
	default:
		*b = RequestBody(raw)
	}
	return nil
}

type SubmitResponse struct {
	Response hunt.Response     `json:"response"`
	State    HuntStateResponse `json:"state"`
}

// player runs submissions for all sessions. At most one submission per
// session is in flight; a second one fails with errRequestPending.
type player struct {
	engine  *hunt.Engine
	store   Store
	broker  *Broker
	metrics *Metrics
	logger  *slog.Logger
	timeout time.Duration

	mu       sync.Mutex
	inflight map[string]struct{}
}

func newPlayer(engine *hunt.Engine, store Store, broker *Broker, metrics *Metrics, logger *slog.Logger, timeout time.Duration) *player {
	return &player{
		engine:   engine,
		store:    store,
		broker:   broker,
		metrics:  metrics,
		logger:   logger,
		timeout:  timeout,
		inflight: make(map[string]struct{}),
	}
}

func (p *player) acquire(sessionID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inflight[sessionID]; busy {
		return false
	}
	p.inflight[sessionID] = struct{}{}
	return true
}

func (p *player) release(sessionID string) {
	p.mu.Lock()
	delete(p.inflight, sessionID)
	p.mu.Unlock()
}

func (p *player) start(ctx context.Context) (token string, sess Session, err error) {
	token = newToken()
	sess = Session{
		ID:        newSessionID(),
		Progress:  p.engine.Initialize(),
		CreatedAt: time.Now().UTC(),
	}
	if err := p.store.CreateSession(ctx, hashToken(token), sess); err != nil {
		return "", Session{}, err
	}
	p.metrics.started.Inc()
	p.logger.Info("hunt started", "session_id", sess.ID)
	return token, sess, nil
}

// submit validates in against the session's current clue, waits for the
// simulated response and persists the advanced progress.
func (p *player) submit(ctx context.Context, sessionID string, in SubmitRequest) (SubmitResponse, error) {
	method, err := hunt.ParseMethod(in.Method)
	if err != nil {
		p.metrics.submissions.WithLabelValues(outcome(err)).Inc()
		return SubmitResponse{}, err
	}

	if !p.acquire(sessionID) {
		p.metrics.submissions.WithLabelValues(outcome(errRequestPending)).Inc()
		return SubmitResponse{}, errRequestPending
	}
	defer p.release(sessionID)

	// Reload under the guard so progress saved by an earlier submission
	// is never overwritten.
	sess, err := p.store.SessionByID(ctx, sessionID)
	if err != nil {
		return SubmitResponse{}, err
	}

	req := hunt.Request{Endpoint: in.Endpoint, Method: method, Body: string(in.Body)}
	simCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, next, err := p.engine.Submit(simCtx, sess.Progress, req)
	if err != nil {
		p.metrics.submissions.WithLabelValues(outcome(err)).Inc()
		p.logger.Debug("submission rejected",
			"session_id", sess.ID,
			"clue_id", sess.Progress.CurrentClueID,
			"error", err,
		)
		if !errors.Is(err, context.Canceled) {
			p.broker.Publish(sess.ID, HuntEvent{
				Type:   EventRequestFailed,
				ClueID: sess.Progress.CurrentClueID,
				Error:  err.Error(),
			})
		}
		return SubmitResponse{}, err
	}

	solved := sess.Progress.CurrentClueID
	sess.Progress = next
	if err := p.store.SaveSession(context.WithoutCancel(ctx), sess); err != nil {
		return SubmitResponse{}, err
	}
	p.metrics.submissions.WithLabelValues(outcome(nil)).Inc()

	state := huntState(p.engine, sess)
	if next.Complete() {
		p.metrics.completed.Inc()
		p.metrics.duration.Observe(next.EndTime.Sub(next.StartTime).Seconds())
		p.logger.Info("hunt completed", "session_id", sess.ID, "elapsed", state.ElapsedTime)
		p.broker.Publish(sess.ID, HuntEvent{
			Type:        EventHuntCompleted,
			ClueID:      solved,
			ElapsedTime: state.ElapsedTime,
		})
	} else {
		p.logger.Info("clue completed", "session_id", sess.ID, "clue_id", solved, "next_clue_id", next.CurrentClueID)
		p.broker.Publish(sess.ID, HuntEvent{
			Type:       EventClueCompleted,
			ClueID:     solved,
			NextClueID: next.CurrentClueID,
		})
	}

	return SubmitResponse{Response: resp, State: state}, nil
}

// outcome is the metrics label for a submission result.
func outcome(err error) string {
	switch {
	case err == nil:
		return "solved"
	case errors.Is(err, hunt.ErrEndpointMismatch):
		return "endpoint_mismatch"
	case errors.Is(err, hunt.ErrMethodMismatch):
		return "method_mismatch"
	case errors.Is(err, hunt.ErrMalformedBody):
		return "malformed_body"
	case errors.Is(err, hunt.ErrBodyMismatch):
		return "body_mismatch"
	case errors.Is(err, hunt.ErrUnknownMethod):
		return "unknown_method"
	case errors.Is(err, hunt.ErrUnknownEndpoint):
		return "unknown_endpoint"
	case errors.Is(err, hunt.ErrHuntComplete):
		return "hunt_complete"
	case errors.Is(err, errRequestPending):
		return "pending"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "error"
	}
}

// submitStatus maps a submission error to an HTTP status and the message
// shown to the player.
func submitStatus(err error) (int, string) {
	switch {
	case errors.Is(err, hunt.ErrUnknownMethod):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, hunt.ErrEndpointMismatch),
		errors.Is(err, hunt.ErrMethodMismatch),
		errors.Is(err, hunt.ErrMalformedBody),
		errors.Is(err, hunt.ErrBodyMismatch):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, hunt.ErrUnknownEndpoint):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, hunt.ErrHuntComplete), errors.Is(err, errRequestPending):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ErrNotFound):
		return http.StatusUnauthorized, "invalid or missing session token"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
