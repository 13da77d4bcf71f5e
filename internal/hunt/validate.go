package hunt

import (
	"encoding/json"
	"errors"
	"reflect"
)

var (
	ErrEndpointMismatch = errors.New("endpoint doesn't match the current clue")
	ErrMethodMismatch   = errors.New("HTTP method doesn't match the current clue")
	ErrMalformedBody    = errors.New("invalid JSON in request body")
	ErrBodyMismatch     = errors.New("request body doesn't match the expected pattern")
)

// Request is a simulated HTTP request typed by the player. Body holds the
// raw text of the request body.
type Request struct {
	Endpoint string
	Method   Method
	Body     string
}

// Validate checks req against the clue's expected request. Checks run in
// order (endpoint, method, body) and the first failure is returned.
func Validate(req Request, clue Clue) error {
	if req.Endpoint != clue.Endpoint {
		return ErrEndpointMismatch
	}
	if req.Method != clue.Method {
		return ErrMethodMismatch
	}
	if clue.Body == nil {
		return nil
	}

	var got any
	if err := json.Unmarshal([]byte(req.Body), &got); err != nil {
		return ErrMalformedBody
	}
	if !reflect.DeepEqual(got, any(clue.Body)) {
		return ErrBodyMismatch
	}
	return nil
}
