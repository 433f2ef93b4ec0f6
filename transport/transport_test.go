package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultTransportPostsBodyAndHeaders(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	tr := NewDefaultTransport(srv.URL, time.Second)
	defer tr.Close()

	resp, err := tr.Do(context.Background(), Request{
		Path:          "/V2/nosql/data/Get",
		Body:          []byte("payload"),
		Authorization: "Bearer tok",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []byte("ok"), resp.Body)

	require.Equal(t, "/V2/nosql/data/Get", gotPath)
	require.Equal(t, "Bearer tok", gotAuth)
	require.Equal(t, "application/octet-stream", gotContentType)
	require.Equal(t, []byte("payload"), gotBody)
}

func TestDefaultTransportOmitsEmptyAuthorization(t *testing.T) {
	var sawAuthHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuthHeader = r.Header.Get("Authorization") != ""
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr := NewDefaultTransport(srv.URL, time.Second)
	defer tr.Close()

	_, err := tr.Do(context.Background(), Request{Path: "/x"})
	require.NoError(t, err)
	require.False(t, sawAuthHeader)
}

func TestDefaultTransportPropagatesContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr := NewDefaultTransport(srv.URL, time.Second)
	defer tr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := tr.Do(ctx, Request{Path: "/x"})
	require.Error(t, err)
}
