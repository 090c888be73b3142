package endpoint_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/ariebrainware/coffee-brokerage/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordActivity(t *testing.T) {
	env := setupEndpointTest(t)

	w, resp := doRequest(t, env.router, requestParams{method: http.MethodPost, path: "/activity", body: map[string]string{"type": "keydown"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, string(resp.Data))
	assert.Zero(t, env.trail.Logs.Len())

	env.clock.Advance(7 * time.Minute)
	w, resp = doRequest(t, env.router, requestParams{method: http.MethodPost, path: "/activity", body: map[string]string{"type": "scroll"}})
	require.Equal(t, http.StatusOK, w.Code)

	var entry audit.SystemLog
	decodeData(t, resp, &entry)
	assert.Equal(t, audit.ActionInactivity, entry.Action)
	assert.Equal(t, "User inactive for 7 minutes", entry.Details)
	assert.Contains(t, entry.Origin.Browser, "Chrome")
	assert.Equal(t, 1, env.trail.Logs.Len())
	assert.Equal(t, 7*time.Minute, env.trail.Session.Snapshot().InactivityTime)
}

func TestRecordActivity_UnknownSignal(t *testing.T) {
	env := setupEndpointTest(t)
	env.clock.Advance(10 * time.Minute)

	w, _ := doRequest(t, env.router, requestParams{method: http.MethodPost, path: "/activity", body: map[string]string{"type": "mousemove"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, env.trail.Logs.Len())
}

func TestRecordClick(t *testing.T) {
	env := setupEndpointTest(t)

	w, resp := doRequest(t, env.router, requestParams{method: http.MethodPost, path: "/interaction/click", body: audit.ClickTarget{
		TagName: "BUTTON",
		ID:      "export",
		Text:    "Export",
		Type:    "button",
	}})
	require.Equal(t, http.StatusOK, w.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &entry))
	assert.Equal(t, "click", entry["interactionType"])
	assert.Equal(t, "Interaction with element: button", entry["details"])
	assert.Equal(t, map[string]interface{}{"id": "export", "text": "Export", "type": "button"}, entry["elementInfo"])
}
