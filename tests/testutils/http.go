package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type TestServer struct {
	*httptest.Server
	t *testing.T
}

func NewTestServer(t *testing.T, handler http.Handler) *TestServer {
	server := httptest.NewServer(handler)
	return &TestServer{
		Server: server,
		t:      t,
	}
}

func (ts *TestServer) GET(path string) *http.Response {
	resp, err := http.Get(ts.URL + path)
	require.NoError(ts.t, err)
	return resp
}

func (ts *TestServer) POST(path string, body interface{}) *http.Response {
	resp, err := http.Post(ts.URL+path, "application/json", ts.jsonBody(body))
	require.NoError(ts.t, err)
	return resp
}

func (ts *TestServer) PUT(path string, body interface{}) *http.Response {
	return ts.do("PUT", path, body)
}

func (ts *TestServer) PATCH(path string, body interface{}) *http.Response {
	return ts.do("PATCH", path, body)
}

func (ts *TestServer) DELETE(path string) *http.Response {
	return ts.do("DELETE", path, nil)
}

func (ts *TestServer) do(method, path string, body interface{}) *http.Response {
	req, err := http.NewRequest(method, ts.URL+path, ts.jsonBody(body))
	require.NoError(ts.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	require.NoError(ts.t, err)
	return resp
}

func (ts *TestServer) jsonBody(body interface{}) io.Reader {
	if body == nil {
		return nil
	}
	jsonBody, err := json.Marshal(body)
	require.NoError(ts.t, err)
	return bytes.NewReader(jsonBody)
}

func AssertJSONResponse(t *testing.T, resp *http.Response, expectedStatus int, target interface{}) {
	require.Equal(t, expectedStatus, resp.StatusCode)

	if target != nil {
		defer resp.Body.Close()
		err := json.NewDecoder(resp.Body).Decode(target)
		require.NoError(t, err)
	}
}

// AssertDetailResponse checks an error envelope of the form {"detail": …}.
func AssertDetailResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	require.Equal(t, expectedStatus, resp.StatusCode)

	defer resp.Body.Close()
	var errorResp map[string]string
	err := json.NewDecoder(resp.Body).Decode(&errorResp)
	require.NoError(t, err)

	if expectedMessage != "" {
		require.Contains(t, errorResp["detail"], expectedMessage)
	}
}

// AssertFieldErrorResponse checks a 400 body carrying per-field messages.
func AssertFieldErrorResponse(t *testing.T, resp *http.Response, field, expectedMessage string) {
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	defer resp.Body.Close()
	var errorResp map[string][]string
	err := json.NewDecoder(resp.Body).Decode(&errorResp)
	require.NoError(t, err)

	require.NotEmpty(t, errorResp[field])
	require.Contains(t, errorResp[field][0], expectedMessage)
}
