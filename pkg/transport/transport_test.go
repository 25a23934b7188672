package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransport_Send(t *testing.T) {
	var gotHeader http.Header
	var gotBody []byte
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST","message":"Invalid JSON payload"}}`))
	}))
	defer srv.Close()

	header := http.Header{}
	header.Set("Client-Id", "836")
	header.Set("Api-Key", "secret")

	status, body, err := NewHTTPTransport(nil).Send(context.Background(), http.MethodPost, srv.URL+"/v1/product/import", header, []byte(`{"items":[]}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error":{"code":"BAD_REQUEST","message":"Invalid JSON payload"}}`, string(body))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/v1/product/import", gotPath)
	assert.Equal(t, "836", gotHeader.Get("Client-Id"))
	assert.Equal(t, "secret", gotHeader.Get("Api-Key"))
	assert.Equal(t, `{"items":[]}`, string(gotBody))
}

func TestHTTPTransport_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	status, body, err := NewHTTPTransport(nil).Send(context.Background(), http.MethodPost, url, nil, nil)
	require.Error(t, err)
	assert.Zero(t, status)
	assert.Nil(t, body)
}

func TestHTTPTransport_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewHTTPTransport(nil).Send(ctx, http.MethodPost, srv.URL, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFunc(t *testing.T) {
	calls := 0
	var tr Transport = Func(func(ctx context.Context, method, url string, header http.Header, body []byte) (int, []byte, error) {
		calls++
		return http.StatusOK, body, nil
	})
	status, body, err := tr.Send(context.Background(), http.MethodPost, "http://x", nil, []byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "{}", string(body))
	assert.Equal(t, 1, calls)
}
