package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLoadIssuesCookieAndReusesSession(t *testing.T) {
	m := NewManager("sid", time.Minute)

	rec := httptest.NewRecorder()
	first := m.Load(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	first.Set("is-login", "true")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "sid" || cookies[0].Value != first.ID {
		t.Fatalf("unexpected cookies %#v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("session cookie must be http only")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	again := m.Load(httptest.NewRecorder(), req)
	if again != first {
		t.Fatalf("expected same session")
	}
	if again.GetString("is-login") != "true" {
		t.Fatalf("value lost between requests")
	}
}

func TestIdleSessionsExpire(t *testing.T) {
	m := NewManager("sid", time.Minute)
	now := time.Now()
	m.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	s := m.Load(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := rec.Result().Cookies()[0]

	now = now.Add(2 * time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	fresh := m.Load(httptest.NewRecorder(), req)
	if fresh.ID == s.ID {
		t.Fatalf("expected a new session after idle timeout")
	}

	now = now.Add(2 * time.Minute)
	if removed := m.Sweep(); removed != 1 {
		t.Fatalf("expected 1 swept session, got %d", removed)
	}
	if m.Len() != 0 {
		t.Fatalf("expected no live sessions, got %d", m.Len())
	}
}

func TestDestroyExpiresCookie(t *testing.T) {
	m := NewManager("sid", time.Minute)
	s := m.Load(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec := httptest.NewRecorder()
	m.Destroy(rec, s)
	if m.Len() != 0 {
		t.Fatalf("session should be gone")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %#v", cookies)
	}
}

func TestMiddlewareStoresSessionInContext(t *testing.T) {
	m := NewManager("sid", time.Minute)
	var got *Session
	h := m.Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got == nil {
		t.Fatalf("middleware did not attach a session")
	}
}
