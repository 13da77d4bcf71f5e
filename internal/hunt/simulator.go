package hunt

import (
	"context"
	"errors"
	"time"
)

var ErrUnknownEndpoint = errors.New("invalid endpoint or parameters")

// DefaultLatency is the simulated network round-trip.
const DefaultLatency = 800 * time.Millisecond

// Simulator stands in for a real network call: it waits for Latency and
// then answers from the response table.
type Simulator struct {
	Responses *ResponseTable
	Latency   time.Duration
}

// Resolve waits for the simulated latency and returns the response for
// endpoint. If ctx ends first, Resolve returns ctx.Err().
func (s *Simulator) Resolve(ctx context.Context, endpoint string) (Response, error) {
	if s.Latency > 0 {
		t := time.NewTimer(s.Latency)
		defer t.Stop()

		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	resp, ok := s.Responses.Lookup(endpoint)
	if !ok {
		return Response{}, ErrUnknownEndpoint
	}
	return resp, nil
}
