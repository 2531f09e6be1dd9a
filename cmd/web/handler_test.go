package main

import (
	"bytes"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/asteroidfield/internal/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Field.Population = 20
	cfg.Web.DisplayHost = "field.example"
	cfg.Web.MaxWidth = 320
	cfg.Web.MaxHeight = 200
	cfg.Web.MaxFrames = 30

	srv := httptest.NewServer(newHandler(cfg, log.New(io.Discard)))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestIndexShowsSSHHost(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ssh field.example")
	assert.NotContains(t, string(body), "{{.SSHHost}}")

	resp, _ = get(t, srv.URL+"/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFrameReturnsPNGOfRequestedSize(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/frame.png?w=160&h=90&frames=10&scroll=0.5&seed=3&px=80&py=45")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx())
	assert.Equal(t, 90, img.Bounds().Dy())
}

func TestFrameIsDeterministicForSeed(t *testing.T) {
	srv := newTestServer(t)

	_, a := get(t, srv.URL+"/frame.png?w=64&h=64&frames=5&seed=9")
	_, b := get(t, srv.URL+"/frame.png?w=64&h=64&frames=5&seed=9")
	assert.Equal(t, a, b)
}

func TestFrameRejectsBadParameters(t *testing.T) {
	srv := newTestServer(t)

	for _, query := range []string{
		"w=0",
		"w=1000",
		"h=abc",
		"frames=31",
		"scroll=1.5",
		"scroll=NaN",
		"seed=x",
		"px=1",
	} {
		t.Run(query, func(t *testing.T) {
			resp, _ := get(t, srv.URL+"/frame.png?"+query)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}
