package server

import (
	"time"

	"github.com/playperu/apihunt/internal/hunt"
)

// ClueInfo is the public view of a clue.
type ClueInfo struct {
	ID         string         `json:"id"`
	Hint       string         `json:"hint"`
	Endpoint   string         `json:"endpoint"`
	Method     hunt.Method    `json:"method"`
	Body       map[string]any `json:"body,omitempty"`
	NextClueID string         `json:"nextClueId,omitempty"`
}

// ClueProgress is one row of the progress tracker.
type ClueProgress struct {
	Position int             `json:"position"`
	ID       string          `json:"id"`
	Status   hunt.ClueStatus `json:"status"`
}

type HuntStateResponse struct {
	SessionID      string         `json:"sessionId"`
	CurrentClue    *ClueInfo      `json:"currentClue"`
	CompletedClues []string       `json:"completedClues"`
	Clues          []ClueProgress `json:"clues"`
	Step           int            `json:"step"`
	TotalClues     int            `json:"totalClues"`
	Complete       bool           `json:"complete"`
	StartedAt      string         `json:"startedAt"`
	EndedAt        *string        `json:"endedAt"`
	ElapsedTime    string         `json:"elapsedTime"`
	Draft          *hunt.Draft    `json:"draft,omitempty"`
}

func clueInfo(c hunt.Clue) ClueInfo {
	return ClueInfo{
		ID:         c.ID,
		Hint:       c.Hint,
		Endpoint:   c.Endpoint,
		Method:     c.Method,
		Body:       c.Body,
		NextClueID: c.NextClueID,
	}
}

// huntState derives everything the client renders from the session's
// progress. Nothing here is stored.
func huntState(engine *hunt.Engine, sess Session) HuntStateResponse {
	p := sess.Progress
	clues := engine.ListClues()

	resp := HuntStateResponse{
		SessionID:      sess.ID,
		CompletedClues: p.CompletedClues,
		Clues:          make([]ClueProgress, 0, len(clues)),
		Step:           engine.Step(p),
		TotalClues:     len(clues),
		Complete:       p.Complete(),
		StartedAt:      p.StartTime.UTC().Format(time.RFC3339Nano),
		ElapsedTime:    engine.Format(p.StartTime, p.EndTime),
	}
	if resp.CompletedClues == nil {
		resp.CompletedClues = []string{}
	}
	if p.EndTime != nil {
		ended := p.EndTime.UTC().Format(time.RFC3339Nano)
		resp.EndedAt = &ended
	}

	for i, c := range clues {
		resp.Clues = append(resp.Clues, ClueProgress{
			Position: i + 1,
			ID:       c.ID,
			Status:   engine.Status(p, c.ID),
		})
	}

	if current, err := engine.LookupClue(p.CurrentClueID); err == nil {
		info := clueInfo(current)
		resp.CurrentClue = &info
		if !resp.Complete {
			draft := hunt.DraftFor(current)
			resp.Draft = &draft
		}
	}
	return resp
}
