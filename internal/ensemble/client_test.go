package ensemble

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splax/userscout/internal/platform"
)

func TestSearchUsersTikTok(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for key, values := range r.URL.Query() {
			gotQuery[key] = values[0]
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"users":[{"user_info":{"unique_id":"someone","follower_count":42}}]}}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	records, err := client.SearchUsers(context.Background(), platform.TikTok, "some one", "tok-123")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "someone", records[0][platform.FieldUsername])
	assert.Equal(t, int64(42), records[0][platform.FieldFollowers])

	assert.Equal(t, "/tt/user/search", gotPath)
	assert.Equal(t, "some one", gotQuery["keyword"])
	assert.Equal(t, "0", gotQuery["cursor"])
	assert.Equal(t, "tok-123", gotQuery["token"])
}

func TestSearchUsersThreadsOmitsCursor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/threads/user/search", r.URL.Path)
		assert.Equal(t, "zuck", r.URL.Query().Get("name"))
		assert.False(t, r.URL.Query().Has("cursor"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	records, err := client.SearchUsers(context.Background(), platform.Threads, "zuck", "tok")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearchUsersStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no user search results", http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	records, err := client.SearchUsers(context.Background(), platform.Instagram, "whoever", "tok")
	assert.Nil(t, records)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "no user search results")
	assert.Contains(t, statusErr.Error(), "404")
}

func TestSearchUsersDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>definitely not json</html>`))
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	_, err = client.SearchUsers(context.Background(), platform.TikTok, "q", "tok")
	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestSearchUsersTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	_, err = client.SearchUsers(context.Background(), platform.TikTok, "q", "tok")
	require.Error(t, err)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr), "transport failures are not status errors")
}

func TestNewDefaultsBaseURL(t *testing.T) {
	client, err := New("  ")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}
