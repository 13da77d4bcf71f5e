package hunt

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrHuntComplete = errors.New("hunt already complete")

// Engine ties the catalog, the simulator and a clock together. It holds no
// per-player state and is safe for concurrent use.
type Engine struct {
	catalog *Catalog
	sim     *Simulator
	now     func() time.Time
}

type Option func(*Engine)

// WithCatalog replaces the built-in catalog.
func WithCatalog(c *Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithLatency sets the simulated round-trip. Zero disables the delay.
func WithLatency(d time.Duration) Option {
	return func(e *Engine) { e.sim.Latency = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		sim: &Simulator{Latency: DefaultLatency},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalog == nil {
		e.catalog = Default()
	}
	e.sim.Responses = e.catalog.Responses
	return e
}

func (e *Engine) Clues() *Registry { return e.catalog.Clues }

func (e *Engine) Initialize() Progress {
	return NewProgress(e.catalog.Clues, e.now())
}

func (e *Engine) LookupClue(id string) (Clue, error) {
	c, ok := e.catalog.Clues.Lookup(id)
	if !ok {
		return Clue{}, ErrUnknownClue
	}
	return c, nil
}

func (e *Engine) ListClues() []Clue { return e.catalog.Clues.All() }

// ValidateAndSimulate checks req against clue and, on success, resolves the
// clue's endpoint through the simulator.
func (e *Engine) ValidateAndSimulate(ctx context.Context, req Request, clue Clue) (Response, error) {
	if err := Validate(req, clue); err != nil {
		return Response{}, err
	}
	return e.sim.Resolve(ctx, clue.Endpoint)
}

func (e *Engine) Advance(p Progress, clueID string) (Progress, error) {
	return Advance(e.catalog.Clues, p, clueID, e.now())
}

func (e *Engine) Format(start time.Time, end *time.Time) string {
	return FormatElapsed(start, end, e.now())
}

func (e *Engine) Status(p Progress, id string) ClueStatus { return Status(p, id) }

func (e *Engine) Step(p Progress) int { return Step(e.catalog.Clues, p) }

// Submit runs one full turn: validate req against the current clue, wait for
// the simulated response and advance. On any error p is returned unchanged.
// Submissions after the terminal clue are rejected with ErrHuntComplete.
func (e *Engine) Submit(ctx context.Context, p Progress, req Request) (Response, Progress, error) {
	if p.Complete() {
		return Response{}, p, ErrHuntComplete
	}
	clue, err := e.LookupClue(p.CurrentClueID)
	if err != nil {
		return Response{}, p, fmt.Errorf("current clue %q: %w", p.CurrentClueID, err)
	}

	resp, err := e.ValidateAndSimulate(ctx, req, clue)
	if err != nil {
		return Response{}, p, err
	}

	next, err := e.Advance(p, clue.ID)
	if err != nil {
		return Response{}, p, err
	}
	return resp, next, nil
}
