package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestClient(server *httptest.Server) *Client {
	return &Client{
		apiKey:     "test-key",
		baseURL:    server.URL,
		httpClient: &http.Client{Timeout: 2 * time.Second},
	}
}

func TestFetchGameDetails_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games/440", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 440,
			"name": "Team Fortress 2",
			"description_raw": "Nine classes.",
			"released": "2007-10-10",
			"background_image": "https://img.example.com/tf2.jpg"
		}`))
	}))
	defer server.Close()

	game, err := newTestClient(server).FetchGameDetails(context.Background(), 440)

	assert.NoError(t, err)
	assert.Equal(t, 440, game.ID)
	assert.Equal(t, "Team Fortress 2", game.Name)
	assert.Equal(t, "Nine classes.", game.Description)
	assert.Equal(t, "2007-10-10", game.ReleaseDate)
	assert.Equal(t, "https://img.example.com/tf2.jpg", game.ImageURL)
}

func TestFetchGameDetails_ImagePlaceholder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 440, "name": "Team Fortress 2"}`))
	}))
	defer server.Close()

	game, err := newTestClient(server).FetchGameDetails(context.Background(), 440)

	assert.NoError(t, err)
	assert.Equal(t, PlaceholderImage, game.ImageURL)
}

func TestFetchGameDetails_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server).FetchGameDetails(context.Background(), 999999)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchGameDetails_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server).FetchGameDetails(context.Background(), 440)

	var uerr *UpstreamError
	assert.ErrorAs(t, err, &uerr)
	assert.Equal(t, http.StatusBadGateway, uerr.StatusCode)
}

func TestFetchGameDetails_ParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	_, err := newTestClient(server).FetchGameDetails(context.Background(), 440)

	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestFetchUpcoming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("page_size"))
		assert.Equal(t, "released", r.URL.Query().Get("ordering"))
		assert.NotEmpty(t, r.URL.Query().Get("dates"))

		w.Write([]byte(`{"results": [
			{"id": 1, "name": "Game One", "released": "2026-09-01", "background_image": "https://img.example.com/1.jpg"},
			{"id": 2, "name": "Game Two", "released": "2026-10-01"}
		]}`))
	}))
	defer server.Close()

	games, err := newTestClient(server).FetchUpcoming(context.Background(), 5)

	assert.NoError(t, err)
	assert.Len(t, games, 2)
	assert.Equal(t, "Game One", games[0].Name)
	assert.Equal(t, PlaceholderImage, games[1].ImageURL)
}

func TestFetchUpcoming_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server).FetchUpcoming(context.Background(), 5)

	var uerr *UpstreamError
	assert.ErrorAs(t, err, &uerr)
}

func TestSearchGames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "half life & friends", r.URL.Query().Get("search"))
		assert.Equal(t, "10", r.URL.Query().Get("page_size"))

		w.Write([]byte(`{"results": [{"id": 70, "name": "Half-Life", "background_image": "https://img.example.com/hl.jpg"}]}`))
	}))
	defer server.Close()

	games, err := newTestClient(server).SearchGames(context.Background(), "half life & friends", 10)

	assert.NoError(t, err)
	assert.Len(t, games, 1)
	assert.Equal(t, "Half-Life", games[0].Name)
}
