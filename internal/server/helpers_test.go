package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/playperu/apihunt/internal/database"
	"github.com/playperu/apihunt/internal/handler/health"
	"github.com/playperu/apihunt/internal/hunt"
	"github.com/playperu/apihunt/internal/migrations"
)

// solutions are the literal requests that solve each default clue.
var solutions = []SubmitRequest{
	{Endpoint: "/api/clue/first", Method: "GET"},
	{Endpoint: "/api/clue/decode", Method: "POST", Body: `{"key":"treasure"}`},
	{Endpoint: "/api/clue/map?x=42&y=18", Method: "GET"},
	{Endpoint: "/api/clue/forge", Method: "POST", Body: `{"pattern":"1-3-5-7-9"}`},
	{Endpoint: "/api/clue/treasure", Method: "GET"},
}

func setupStore(t *testing.T) *DocStore {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Memory)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := migrations.Run(db, nil); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return NewDocStore(db)
}

type testServer struct {
	handler http.Handler
	store   *DocStore
}

func newTestServer(t *testing.T, latency, timeout time.Duration) *testServer {
	t.Helper()
	store := setupStore(t)

	srv := New(":0", slog.New(slog.NewTextHandler(io.Discard, nil)), Deps{
		Engine: hunt.NewEngine(hunt.WithLatency(latency)),
		Store:  store,
		Checks: map[string]health.Checker{
			"sessions": health.CheckerFunc(store.db.PingContext),
		},
		RequestTimeout: timeout,
	})
	return &testServer{handler: srv.Handler(), store: store}
}

func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func (ts *testServer) start(t *testing.T) StartResponse {
	t.Helper()
	w := ts.do(http.MethodPost, "/api/hunt", "", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("start: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp StartResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("start: decoding: %v", err)
	}
	return resp
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var e ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&e); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return e.Error
}
