package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/session"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/utils/response"
	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/require"
)

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()

	body, err := json.Marshal(v)
	require.NoError(t, err)

	return bytes.NewReader(body)
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))

	return resp
}

// decodeData re-decodes the envelope's data field into dest.
func decodeData(t *testing.T, resp response.APIResponse, dest any) {
	t.Helper()

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dest))
}

func newStaging() (*scs.SessionManager, *session.StagingCart) {
	sm := scs.New()
	return sm, session.NewStagingCart(sm)
}

// withSession loads a fresh session into the request the way LoadAndSave would.
func withSession(t *testing.T, sm *scs.SessionManager, req *http.Request) *http.Request {
	t.Helper()

	ctx, err := sm.Load(req.Context(), "")
	require.NoError(t, err)

	return req.WithContext(ctx)
}
