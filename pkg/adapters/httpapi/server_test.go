package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	concierge "github.com/aretw0/concierge"
	"github.com/aretw0/concierge/internal/orchestrator"
	"github.com/aretw0/concierge/pkg/adapters/memory"
	"github.com/aretw0/concierge/pkg/ports"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	travel := memory.NewTravelStore()
	flightID := travel.AddFlight(ports.Flight{
		FlightNo:           "LX0112",
		DepartureAirport:   "CDG",
		ArrivalAirport:     "BSL",
		ScheduledDeparture: time.Now().Add(48 * time.Hour),
		ScheduledArrival:   time.Now().Add(50 * time.Hour),
	})
	travel.AddTicket("7240005432906569", "C46E9F", "passenger-42", flightID)

	eng, err := concierge.New(
		concierge.WithTravelStore(travel),
		concierge.WithMetrics(concierge.NewMetrics()),
	)
	require.NoError(t, err)

	srv := httptest.NewServer(New(eng, "127.0.0.1:0").Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, caller string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set("X-Caller-ID", caller)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServer_SubmitMessage(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/sessions/s1/messages", "passenger-42",
		submitMessageRequest{Text: "what bookings do I have?"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decode[orchestrator.TurnResult](t, resp)
	assert.Equal(t, "s1", result.SessionID)
	assert.False(t, result.RequiresDecision)
	assert.NotEmpty(t, result.Reply)
}

func TestServer_MissingCaller(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/sessions/s1/messages", "",
		submitMessageRequest{Text: "hello"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "missing_caller", decode[errorResponse](t, resp).Code)
}

func TestServer_EmptyText(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/sessions/s1/messages", "passenger-42",
		submitMessageRequest{Text: "   "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_request", decode[errorResponse](t, resp).Code)
}

func TestServer_WrongCallerForbidden(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/sessions/s1/messages", "passenger-42",
		submitMessageRequest{Text: "hello"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/sessions/s1/messages", "someone-else",
		submitMessageRequest{Text: "hello"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "not_owner", decode[errorResponse](t, resp).Code)
}

func TestServer_DecisionFlow(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/sessions/s1/messages", "passenger-42",
		submitMessageRequest{Text: "cancel ticket 7240005432906569"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[orchestrator.TurnResult](t, resp)
	require.True(t, result.RequiresDecision)

	// A follow-up message while the gate is open conflicts.
	resp = doJSON(t, http.MethodPost, srv.URL+"/sessions/s1/messages", "passenger-42",
		submitMessageRequest{Text: "anything"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "decision_pending", decode[errorResponse](t, resp).Code)

	resp = doJSON(t, http.MethodPost, srv.URL+"/sessions/s1/decision", "passenger-42",
		submitDecisionRequest{Approved: true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result = decode[orchestrator.TurnResult](t, resp)
	assert.False(t, result.RequiresDecision)
	assert.Contains(t, result.Reply, "successfully cancelled")
}

func TestServer_SessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/sessions/missing", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "session_not_found", decode[errorResponse](t, resp).Code)

	resp = doJSON(t, http.MethodPost, srv.URL+"/sessions/s1/messages", "passenger-42",
		submitMessageRequest{Text: "hello"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/sessions", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"s1"}, decode[listSessionsResponse](t, resp).Sessions)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/sessions/s1", "", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/sessions/s1", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_OversizedBody(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/sessions/s1/messages", "passenger-42",
		submitMessageRequest{Text: fmt.Sprintf("%01048577d", 1)})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_request", decode[errorResponse](t, resp).Code)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/healthz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
