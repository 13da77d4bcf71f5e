// Package hunt implements the treasure hunt progression engine: the clue
// chain, canned responses, request validation and progress tracking.
// It has no transport or storage dependencies.
package hunt

import "errors"

var (
	ErrUnknownClue   = errors.New("clue not found")
	ErrUnknownMethod = errors.New("unsupported HTTP method")
)

// Method is the HTTP verb a clue expects.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// Methods lists every supported method in display order.
var Methods = []Method{MethodGet, MethodPost, MethodPut, MethodDelete}

// ParseMethod accepts exactly one of the supported verbs, upper case and
// without surrounding space.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if !m.Valid() {
		return "", ErrUnknownMethod
	}
	return m, nil
}

func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return true
	}
	return false
}

// AcceptsBody reports whether clues using m may declare an expected body.
func (m Method) AcceptsBody() bool {
	return m == MethodPost || m == MethodPut
}

// Clue is one node of the hunt chain. An empty NextClueID marks the
// terminal clue.
type Clue struct {
	ID         string
	Hint       string
	Endpoint   string
	Method     Method
	Body       map[string]any
	NextClueID string
}

func (c Clue) Terminal() bool { return c.NextClueID == "" }

// Registry is the immutable clue chain. The zero value is empty; build one
// with Load.
type Registry struct {
	clues    map[string]Clue
	order    []string
	start    string
	terminal string
}

// Lookup returns the clue with the given id.
func (r *Registry) Lookup(id string) (Clue, bool) {
	c, ok := r.clues[id]
	return c, ok
}

// All returns clues in catalog definition order.
func (r *Registry) All() []Clue {
	out := make([]Clue, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.clues[id])
	}
	return out
}

// Index returns the zero-based definition position of id, or -1.
func (r *Registry) Index(id string) int {
	for i, cid := range r.order {
		if cid == id {
			return i
		}
	}
	return -1
}

func (r *Registry) Start() string    { return r.start }
func (r *Registry) Terminal() string { return r.terminal }
func (r *Registry) Len() int         { return len(r.order) }
