package ask

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(resp *http.Response, v any) error {
	return json.NewDecoder(resp.Body).Decode(v)
}

func newTestServer(t *testing.T, gen *stubGenerator) *httptest.Server {
	t.Helper()
	st := newAskStore(t)
	seedGitaVerse(t, st, "gita_BhagavadGita_2_47", "Act without attachment.")

	server := httptest.NewServer(NewServer(NewService(gen, st)).Handler())
	t.Cleanup(server.Close)
	return server
}

func TestServer_AskScripture(t *testing.T) {
	t.Run("answers a question", func(t *testing.T) {
		gen := &stubGenerator{responses: []string{
			`{"verses": ["gita_BhagavadGita_2_47"]}`,
			"\"Karma Yoga\"\n\n1. \"Duty\": act.",
		}}
		server := newTestServer(t, gen)

		resp, err := http.Post(server.URL+"/ask/gita", "application/json",
			strings.NewReader(`{"question": "What is karma yoga?"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var answer Answer
		require.NoError(t, decodeBody(resp, &answer))
		assert.Equal(t, "Bhagavad Gita", answer.Scripture)
		assert.Contains(t, answer.Summary, "Karma Yoga")
	})

	t.Run("missing question is a bad request", func(t *testing.T) {
		server := newTestServer(t, &stubGenerator{})

		resp, err := http.Post(server.URL+"/ask/gita", "application/json",
			strings.NewReader(`{}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		server := newTestServer(t, &stubGenerator{})

		resp, err := http.Post(server.URL+"/ask/quran", "application/json",
			strings.NewReader(`not json`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("model failure is an internal error", func(t *testing.T) {
		gen := &stubGenerator{responses: []string{""}}
		server := newTestServer(t, gen)

		resp, err := http.Post(server.URL+"/ask/bible", "application/json",
			strings.NewReader(`{"question": "What is grace?"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestServer_AskAll(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		`{"verses": []}`,
		`{"verses": []}`,
		`{"verses": []}`,
		`{"topic": "Grace", "commonGround": ["mercy"]}`,
	}}
	server := newTestServer(t, gen)

	resp, err := http.Post(server.URL+"/ask/all", "application/json",
		strings.NewReader(`{"question": "What is grace?"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, decodeBody(resp, &body))
	assert.Equal(t, "Grace", body["topic"])
}

func TestServer_Health(t *testing.T) {
	server := newTestServer(t, &stubGenerator{})

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
