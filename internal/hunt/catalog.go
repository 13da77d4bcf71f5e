package hunt

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog bundles the clue chain with the responses its endpoints return.
type Catalog struct {
	Clues     *Registry
	Responses *ResponseTable
}

type catalogFile struct {
	Start     string              `yaml:"start"`
	Clues     []clueFile          `yaml:"clues"`
	Responses map[string]Response `yaml:"responses"`
}

type clueFile struct {
	ID       string         `yaml:"id"`
	Hint     string         `yaml:"hint"`
	Endpoint string         `yaml:"endpoint"`
	Method   string         `yaml:"method"`
	Body     map[string]any `yaml:"body"`
	Next     string         `yaml:"next"`
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Load(defaultCatalog)
})

// Default returns the built-in catalog. It is parsed once per process.
func Default() *Catalog {
	c, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("hunt: built-in catalog is invalid: %v", err))
	}
	return c
}

// LoadFile reads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Load(data)
}

// Load parses and validates a YAML catalog.
func Load(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	reg := &Registry{
		clues: make(map[string]Clue, len(f.Clues)),
		start: f.Start,
	}
	for _, cf := range f.Clues {
		if cf.ID == "" {
			return nil, fmt.Errorf("clue without id (endpoint %q)", cf.Endpoint)
		}
		if _, dup := reg.clues[cf.ID]; dup {
			return nil, fmt.Errorf("duplicate clue id %q", cf.ID)
		}
		m, err := ParseMethod(cf.Method)
		if err != nil {
			return nil, fmt.Errorf("clue %q: %w: %q", cf.ID, err, cf.Method)
		}
		if cf.Body != nil && !m.AcceptsBody() {
			return nil, fmt.Errorf("clue %q: %s clues cannot declare a body", cf.ID, m)
		}
		body, err := normalizeBody(cf.Body)
		if err != nil {
			return nil, fmt.Errorf("clue %q: %w", cf.ID, err)
		}
		reg.clues[cf.ID] = Clue{
			ID:         cf.ID,
			Hint:       cf.Hint,
			Endpoint:   cf.Endpoint,
			Method:     m,
			Body:       body,
			NextClueID: cf.Next,
		}
		reg.order = append(reg.order, cf.ID)
	}

	terminal, err := walkChain(reg)
	if err != nil {
		return nil, err
	}
	reg.terminal = terminal

	responses := &ResponseTable{byEndpoint: make(map[string]Response, len(f.Responses))}
	for endpoint, resp := range f.Responses {
		responses.byEndpoint[endpoint] = resp
	}
	for _, id := range reg.order {
		c := reg.clues[id]
		if _, ok := responses.Lookup(c.Endpoint); !ok {
			return nil, fmt.Errorf("clue %q: no response for endpoint %q", id, c.Endpoint)
		}
	}

	return &Catalog{Clues: reg, Responses: responses}, nil
}

// walkChain follows successors from the start clue and returns the terminal
// id. Every clue must be visited exactly once.
func walkChain(reg *Registry) (string, error) {
	if _, ok := reg.clues[reg.start]; !ok {
		return "", fmt.Errorf("start clue %q is not defined", reg.start)
	}

	seen := make(map[string]bool, len(reg.clues))
	id := reg.start
	for {
		if seen[id] {
			return "", fmt.Errorf("clue chain has a cycle at %q", id)
		}
		seen[id] = true

		c := reg.clues[id]
		if c.Terminal() {
			break
		}
		if _, ok := reg.clues[c.NextClueID]; !ok {
			return "", fmt.Errorf("clue %q: successor %q is not defined", id, c.NextClueID)
		}
		id = c.NextClueID
	}

	if len(seen) != len(reg.clues) {
		for _, cid := range reg.order {
			if !seen[cid] {
				return "", fmt.Errorf("clue %q is not reachable from %q", cid, reg.start)
			}
		}
	}
	return id, nil
}

// normalizeBody converts YAML-decoded values to the types encoding/json
// produces, so expected bodies compare equal to parsed request bodies.
func normalizeBody(body map[string]any) (map[string]any, error) {
	if body == nil {
		return nil, nil
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding body: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}
	return out, nil
}
