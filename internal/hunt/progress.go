package hunt

import (
	"encoding/json"
	"slices"
	"time"
)

// Progress is one player's position in the clue chain. Treat it as a value:
// Advance returns an updated copy and never modifies its input.
type Progress struct {
	CurrentClueID  string     `json:"currentClueId"`
	CompletedClues []string   `json:"completedClues"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime,omitempty"`
}

// Complete reports whether the terminal clue has been solved.
func (p Progress) Complete() bool { return p.EndTime != nil }

// Solved reports whether id is in the completed list.
func (p Progress) Solved(id string) bool { return slices.Contains(p.CompletedClues, id) }

// NewProgress starts a hunt at the registry's start clue.
func NewProgress(reg *Registry, now time.Time) Progress {
	return Progress{
		CurrentClueID:  reg.Start(),
		CompletedClues: []string{},
		StartTime:      now,
	}
}

// Advance records clueID as completed and moves to its successor. The
// terminal clue keeps current unchanged and stamps EndTime once.
func Advance(reg *Registry, p Progress, clueID string, now time.Time) (Progress, error) {
	clue, ok := reg.Lookup(clueID)
	if !ok {
		return p, ErrUnknownClue
	}

	next := p
	next.CompletedClues = append(slices.Clone(p.CompletedClues), clueID)
	if !clue.Terminal() {
		next.CurrentClueID = clue.NextClueID
	}
	if clueID == reg.Terminal() && p.EndTime == nil {
		end := now
		next.EndTime = &end
	}
	return next, nil
}

// ClueStatus is how a clue appears in the progress tracker.
type ClueStatus string

const (
	ClueCompleted ClueStatus = "completed"
	ClueCurrent   ClueStatus = "current"
	ClueLocked    ClueStatus = "locked"
)

// Status derives the tracker status of id from p. A completed clue stays
// completed even while it is still current.
func Status(p Progress, id string) ClueStatus {
	switch {
	case p.Solved(id):
		return ClueCompleted
	case p.CurrentClueID == id:
		return ClueCurrent
	default:
		return ClueLocked
	}
}

// Step is the 1-based "clue N of total" position, capped at the registered
// clue count.
func Step(reg *Registry, p Progress) int {
	return min(len(p.CompletedClues)+1, reg.Len())
}

// Draft is the request shown pre-filled in the player's console for a clue.
type Draft struct {
	Endpoint string `json:"endpoint"`
	Method   Method `json:"method"`
	Body     string `json:"body"`
}

// DraftFor derives the console template for clue. Clues without a body get
// an empty JSON object.
func DraftFor(clue Clue) Draft {
	body := "{}"
	if clue.Body != nil {
		if raw, err := json.MarshalIndent(clue.Body, "", "  "); err == nil {
			body = string(raw)
		}
	}
	return Draft{Endpoint: clue.Endpoint, Method: clue.Method, Body: body}
}
