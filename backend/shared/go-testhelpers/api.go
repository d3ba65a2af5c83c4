package testhelpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/stretchr/testify/require"
)

// BuildAuthRequest builds a request carrying jwtString as a bearer token.
// body is JSON-encoded unless it is nil or already []byte.
func (h *TestHelper) BuildAuthRequest(method, target, jwtString string, body any) *http.Request {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(h.T, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if jwtString != "" {
		req.Header.Set("Authorization", "Bearer "+jwtString)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// DoRequest serves req on handler and returns the recorded response.
func (h *TestHelper) DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// DecodeJSON fails the test unless the response has the given status, then
// decodes its body into out.
func (h *TestHelper) DecodeJSON(rec *httptest.ResponseRecorder, status int, out any) {
	h.T.Helper()
	require.Equal(h.T, status, rec.Code, "unexpected status, body: %s", rec.Body.String())
	if out != nil {
		require.NoError(h.T, json.Unmarshal(rec.Body.Bytes(), out), "Failed to decode body")
	}
}
