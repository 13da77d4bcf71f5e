package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

var errNoSession = errors.New("no valid session")

// newToken returns a random bearer token for a new hunt session.
func newToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func newSessionID() string { return uuid.NewString() }

// hashToken is the form a token is stored in. Raw tokens never reach the
// database.
func hashToken(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// tokenFromRequest reads the bearer token from the Authorization header,
// falling back to the token query parameter for EventSource and websocket
// clients that cannot set headers.
func tokenFromRequest(r *http.Request) (string, error) {
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found && token != "" {
		return token, nil
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	return "", errNoSession
}
