package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvad-hq/picnic-web/internal/storage"
	"github.com/samvad-hq/picnic-web/pkg/httpclient"
)

const usersJSON = `[
  {"name":"Leanne Graham","email":"Sincere@april.biz",
   "address":{"street":"Kulas Light","suite":"Apt. 556","city":"Gwenborough","zipcode":"92998-3874"}}
]`

func TestListDecodesUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(usersJSON))
	}))
	defer srv.Close()

	svc := NewService(httpclient.New(httpclient.Options{BaseURL: srv.URL}), 0, nil)
	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Leanne Graham", got[0].Name)
	assert.Equal(t, "Gwenborough", got[0].Address.City)
	assert.Equal(t, "92998-3874", got[0].Address.Zipcode)
}

func TestListPreservesUpstreamMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance window"))
	}))
	defer srv.Close()

	svc := NewService(httpclient.New(httpclient.Options{BaseURL: srv.URL}), 0, nil)
	_, err := svc.List(context.Background())
	require.Error(t, err)
	assert.Equal(t, "maintenance window", err.Error())
	assert.True(t, httpclient.IsStatus(err, http.StatusServiceUnavailable))
}

func TestListServesRevalidatedCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(usersJSON))
	}))
	defer srv.Close()

	store, err := storage.NewStore(storage.TypeMemory, "", storage.Options{})
	require.NoError(t, err)

	client := httpclient.New(httpclient.Options{BaseURL: srv.URL, Cache: store})
	svc := NewService(client, time.Minute, nil)

	for i := 0; i < 3; i++ {
		got, err := svc.List(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 1)
	}
	assert.Equal(t, int32(1), hits.Load())
}
