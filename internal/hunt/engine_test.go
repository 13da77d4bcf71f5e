package hunt_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/playperu/apihunt/internal/hunt"
)

// solutions are the literal requests that solve each default clue.
var solutions = []hunt.Request{
	{Endpoint: "/api/clue/first", Method: hunt.MethodGet},
	{Endpoint: "/api/clue/decode", Method: hunt.MethodPost, Body: `{"key":"treasure"}`},
	{Endpoint: "/api/clue/map?x=42&y=18", Method: hunt.MethodGet},
	{Endpoint: "/api/clue/forge", Method: hunt.MethodPost, Body: `{"pattern":"1-3-5-7-9"}`},
	{Endpoint: "/api/clue/treasure", Method: hunt.MethodGet},
}

func TestValidateAndSimulate(t *testing.T) {
	e := hunt.NewEngine(hunt.WithLatency(0))
	cipher, err := e.LookupClue("cipher")
	if err != nil {
		t.Fatalf("LookupClue: %v", err)
	}

	resp, err := e.ValidateAndSimulate(context.Background(), solutions[1], cipher)
	if err != nil {
		t.Fatalf("ValidateAndSimulate: %v", err)
	}
	want, _ := hunt.Default().Responses.Lookup("/api/clue/decode")
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}

	bad := solutions[1]
	bad.Body = `{"key":"wrong"}`
	if _, err := e.ValidateAndSimulate(context.Background(), bad, cipher); !errors.Is(err, hunt.ErrBodyMismatch) {
		t.Errorf("err = %v, want %v", err, hunt.ErrBodyMismatch)
	}
}

func TestLookupClueUnknown(t *testing.T) {
	e := hunt.NewEngine()
	if _, err := e.LookupClue("ghost"); !errors.Is(err, hunt.ErrUnknownClue) {
		t.Errorf("err = %v, want %v", err, hunt.ErrUnknownClue)
	}
}

func TestSubmitEndToEnd(t *testing.T) {
	clock := newClock()
	e := hunt.NewEngine(hunt.WithLatency(0), hunt.WithClock(clock.Now))
	ctx := context.Background()

	p := e.Initialize()
	for i, req := range solutions {
		clock.Add(13 * time.Second)

		resp, next, err := e.Submit(ctx, p, req)
		if err != nil {
			t.Fatalf("step %d: Submit: %v", i, err)
		}
		if resp.Message == "" {
			t.Errorf("step %d: empty response message", i)
		}
		if last := i == len(solutions)-1; resp.FinalTime != last {
			t.Errorf("step %d: finalTime = %v, want %v", i, resp.FinalTime, last)
		}
		p = next
	}

	want := []string{"start", "cipher", "coordinate", "key", "final"}
	if diff := cmp.Diff(want, p.CompletedClues); diff != "" {
		t.Errorf("completed mismatch (-want +got):\n%s", diff)
	}
	if !p.Complete() {
		t.Fatal("hunt should be complete")
	}
	if got := e.Format(p.StartTime, p.EndTime); got != "01:05" {
		t.Errorf("Format = %q, want %q", got, "01:05")
	}

	_, again, err := e.Submit(ctx, p, solutions[len(solutions)-1])
	if !errors.Is(err, hunt.ErrHuntComplete) {
		t.Errorf("resubmit err = %v, want %v", err, hunt.ErrHuntComplete)
	}
	if diff := cmp.Diff(p, again); diff != "" {
		t.Errorf("progress changed on resubmit:\n%s", diff)
	}
}

func TestSubmitFailureLeavesProgress(t *testing.T) {
	e := hunt.NewEngine(hunt.WithLatency(0))
	ctx := context.Background()

	p := e.Initialize()
	_, p, _ = e.Submit(ctx, p, solutions[0])

	tests := []struct {
		name    string
		req     hunt.Request
		wantErr error
	}{
		{name: "endpoint", req: hunt.Request{Endpoint: "/api/clue/first", Method: hunt.MethodGet}, wantErr: hunt.ErrEndpointMismatch},
		{name: "method", req: hunt.Request{Endpoint: "/api/clue/decode", Method: hunt.MethodGet}, wantErr: hunt.ErrMethodMismatch},
		{name: "malformed", req: hunt.Request{Endpoint: "/api/clue/decode", Method: hunt.MethodPost, Body: "{"}, wantErr: hunt.ErrMalformedBody},
		{name: "body", req: hunt.Request{Endpoint: "/api/clue/decode", Method: hunt.MethodPost, Body: `{"key":"wrong"}`}, wantErr: hunt.ErrBodyMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got, err := e.Submit(ctx, p, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(p, got); diff != "" {
				t.Errorf("progress changed on failure:\n%s", diff)
			}
		})
	}
}

func TestSubmitCancelled(t *testing.T) {
	e := hunt.NewEngine(hunt.WithLatency(time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	p := e.Initialize()
	_, got, err := e.Submit(ctx, p, solutions[0])
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want %v", err, context.DeadlineExceeded)
	}
	if len(got.CompletedClues) != 0 {
		t.Errorf("completed = %v, want none", got.CompletedClues)
	}
}

func TestSubmitCustomCatalog(t *testing.T) {
	c, err := hunt.Load([]byte(`
start: only
clues:
  - {id: only, endpoint: /solo, method: DELETE}
responses:
  /solo: {message: gone, clue: nothing left, finalTime: true}
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e := hunt.NewEngine(hunt.WithCatalog(c), hunt.WithLatency(0))

	resp, p, err := e.Submit(context.Background(), e.Initialize(), hunt.Request{Endpoint: "/solo", Method: hunt.MethodDelete})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if resp.Message != "gone" || !p.Complete() {
		t.Errorf("resp = %+v, complete = %v", resp, p.Complete())
	}
}
