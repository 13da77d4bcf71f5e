package hunt

// Response is the canned payload returned for a solved clue endpoint.
type Response struct {
	Message      string `json:"message" yaml:"message"`
	Clue         string `json:"clue" yaml:"clue"`
	NextEndpoint string `json:"nextEndpoint,omitempty" yaml:"nextEndpoint"`
	FinalTime    bool   `json:"finalTime,omitempty" yaml:"finalTime"`
}

// ResponseTable maps endpoint strings to responses. It is read-only after
// Load.
type ResponseTable struct {
	byEndpoint map[string]Response
}

func (t *ResponseTable) Lookup(endpoint string) (Response, bool) {
	resp, ok := t.byEndpoint[endpoint]
	return resp, ok
}

func (t *ResponseTable) Len() int { return len(t.byEndpoint) }
