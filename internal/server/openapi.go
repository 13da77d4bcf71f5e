package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/swaggest/swgui/v5emb"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps each dependency name to its check result.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

// clueIDParam is the path parameter of /api/clues/{id}.
type clueIDParam struct {
	ID string `path:"id" description:"Clue id, e.g. cipher."`
}

// docBuilder collects operations and remembers every error swaggest reports,
// so a route that fails to document is caught instead of silently missing.
type docBuilder struct {
	r    *openapi3.Reflector
	errs []error
}

func (b *docBuilder) op(method, path string) openapi.OperationContext {
	oc, err := b.r.NewOperationContext(method, path)
	if err != nil {
		panic(fmt.Sprintf("openapi: %s %s: %v", method, path, err))
	}
	return oc
}

func (b *docBuilder) add(oc openapi.OperationContext) {
	if err := b.r.AddOperation(oc); err != nil {
		b.errs = append(b.errs, err)
	}
}

func newOpenAPISpec() (*openapi3.Spec, error) {
	r := openapi3.NewReflector()
	b := &docBuilder{r: r}
	r.Spec.Info.Title = "API Treasure Hunt"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Solve a chain of clues by sending simulated HTTP requests.")

	// GET /healthz
	getHealthz := b.op(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of the session database.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	b.add(getHealthz)

	// GET /api/clues
	listClues := b.op(http.MethodGet, "/api/clues")
	listClues.SetSummary("List clues")
	listClues.SetDescription("Returns every clue in catalog order.")
	listClues.AddRespStructure([]ClueInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	b.add(listClues)

	// GET /api/clues/{id}
	getClue := b.op(http.MethodGet, "/api/clues/{id}")
	getClue.SetSummary("Get clue")
	getClue.SetDescription("Returns one clue by id.")
	getClue.AddReqStructure(clueIDParam{})
	getClue.AddRespStructure(ClueInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	getClue.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	b.add(getClue)

	// POST /api/hunt
	startHunt := b.op(http.MethodPost, "/api/hunt")
	startHunt.SetSummary("Start a hunt")
	startHunt.SetDescription("Creates a hunt session at the start clue. Returns the bearer token for the session.")
	startHunt.AddRespStructure(StartResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	b.add(startHunt)

	// GET /api/hunt
	getHunt := b.op(http.MethodGet, "/api/hunt")
	getHunt.SetSummary("Get hunt state")
	getHunt.SetDescription("Returns current clue, tracker, elapsed time and console draft. Requires Bearer token.")
	getHunt.AddRespStructure(HuntStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHunt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	b.add(getHunt)

	// DELETE /api/hunt
	endHunt := b.op(http.MethodDelete, "/api/hunt")
	endHunt.SetSummary("End hunt")
	endHunt.SetDescription("Discards the hunt session. Requires Bearer token.")
	endHunt.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	endHunt.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	b.add(endHunt)

	// POST /api/hunt/requests
	submit := b.op(http.MethodPost, "/api/hunt/requests")
	submit.SetSummary("Submit request")
	submit.SetDescription("Validates a simulated request against the current clue and returns the revealed response. Requires Bearer token.")
	submit.AddReqStructure(SubmitRequest{})
	submit.AddRespStructure(SubmitResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	submit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	submit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	submit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	submit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	submit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	submit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusGatewayTimeout))
	b.add(submit)

	// GET /api/hunt/events
	getEvents := b.op(http.MethodGet, "/api/hunt/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of hunt events. Pass token as query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	b.add(getEvents)

	// GET /api/hunt/console
	getConsole := b.op(http.MethodGet, "/api/hunt/console")
	getConsole.SetSummary("WebSocket console")
	getConsole.SetDescription("Upgrades to a WebSocket. Each text frame is a submit request; each reply is a ConsoleReply. Pass token as query parameter.")
	getConsole.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	b.add(getConsole)

	return r.Spec, errors.Join(b.errs...)
}

// handleOpenAPI renders the document once. A document that fails to build
// is a programming error and stops the server from starting.
func handleOpenAPI() http.HandlerFunc {
	spec, err := newOpenAPISpec()
	if err != nil {
		panic(fmt.Sprintf("building openapi document: %v", err))
	}
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("encoding openapi document: %v", err))
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func handleSwaggerUI() http.HandlerFunc {
	return v5emb.New("API Treasure Hunt", "/openapi.json", "/docs").ServeHTTP
}
