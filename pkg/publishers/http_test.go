package publishers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samvad-hq/picnic-web/pkg/httpclient"
)

func newTestHook(t *testing.T, url, method string, headers map[string]string) Publisher {
	t.Helper()
	cfg := PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{URL: url, Method: method, Headers: headers, TimeoutSeconds: 1},
	}.normalized()
	pub, err := newHTTPPublisher(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}
	return pub
}

func TestHTTPPublisherSendsEventJSON(t *testing.T) {
	var (
		got    Event
		method string
		header string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		header = r.Header.Get("X-Source")
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	pub := newTestHook(t, srv.URL, "", map[string]string{"X-Source": "picnic"})
	if err := pub.Publish(context.Background(), NewEvent(EventLogout, "picnic", "s-1")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if method != http.MethodPost || header != "picnic" {
		t.Fatalf("unexpected request %s with X-Source=%q", method, header)
	}
	if got.Type != EventLogout || got.Username != "picnic" || got.SessionID != "s-1" {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestHTTPPublisherReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	pub := newTestHook(t, srv.URL, http.MethodPut, nil)
	err := pub.Publish(context.Background(), Event{Type: EventLoginFailed})
	if !httpclient.IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("expected wrapped 400 status error, got %v", err)
	}
}
