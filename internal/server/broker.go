package server

import (
	"encoding/json"
	"sync"
)

// Event types published on a session's stream.
const (
	EventClueCompleted = "clue_completed"
	EventRequestFailed = "request_failed"
	EventHuntCompleted = "hunt_completed"
)

// HuntEvent is what a session's SSE stream carries.
type HuntEvent struct {
	Type        string `json:"type"`
	ClueID      string `json:"clueId,omitempty"`
	NextClueID  string `json:"nextClueId,omitempty"`
	Error       string `json:"error,omitempty"`
	ElapsedTime string `json:"elapsedTime,omitempty"`
}

// subscriberBuffer is how many encoded events a slow stream may lag behind
// before further events are dropped for it.
const subscriberBuffer = 16

// Broker fans hunt events out to the open streams of a session.
type Broker struct {
	mu       sync.RWMutex
	sessions map[string]map[*Subscription]struct{}
}

// Subscription is one open stream. Receive encoded events from C, stop when
// Done is closed, and call Close when finished.
type Subscription struct {
	C <-chan []byte

	ch        chan []byte
	done      chan struct{}
	broker    *Broker
	sessionID string
	once      sync.Once
	end       sync.Once
}

// Done is closed when the session the subscription belongs to is ended.
func (s *Subscription) Done() <-chan struct{} { return s.done }

func NewBroker() *Broker {
	return &Broker{sessions: make(map[string]map[*Subscription]struct{})}
}

func (b *Broker) Subscribe(sessionID string) *Subscription {
	ch := make(chan []byte, subscriberBuffer)
	sub := &Subscription{C: ch, ch: ch, done: make(chan struct{}), broker: b, sessionID: sessionID}

	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.sessions[sessionID]
	if !ok {
		set = make(map[*Subscription]struct{})
		b.sessions[sessionID] = set
	}
	set[sub] = struct{}{}
	return sub
}

// Close detaches the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		b := s.broker
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.sessions[s.sessionID], s)
		if len(b.sessions[s.sessionID]) == 0 {
			delete(b.sessions, s.sessionID)
		}
	})
}

// CloseSession ends every open stream of the session and detaches them. It
// returns how many were ended.
func (b *Broker) CloseSession(sessionID string) int {
	b.mu.Lock()
	subs := b.sessions[sessionID]
	delete(b.sessions, sessionID)
	b.mu.Unlock()

	for sub := range subs {
		sub.end.Do(func() { close(sub.done) })
	}
	return len(subs)
}

// Publish encodes ev once and offers it to every stream of the session
// without blocking. It returns how many streams accepted it.
func (b *Broker) Publish(sessionID string, ev HuntEvent) int {
	data, err := json.Marshal(ev)
	if err != nil {
		return 0
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	delivered := 0
	for sub := range b.sessions[sessionID] {
		select {
		case sub.ch <- data:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers reports how many streams are open for a session.
func (b *Broker) Subscribers(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sessions[sessionID])
}
