package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/samvad-hq/picnic-web/internal/auth"
	"github.com/samvad-hq/picnic-web/internal/domain"
	"github.com/samvad-hq/picnic-web/internal/session"
	"github.com/samvad-hq/picnic-web/internal/slider"
	"github.com/samvad-hq/picnic-web/internal/toast"
)

const (
	toastsKey = "toasts"
	sliderKey = "slider"

	loginPath = "/auth/login"
	homePath  = "/"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if !s.auth.IsLoggedIn(sess) {
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	list, err := s.users.List(r.Context())
	if err != nil {
		s.toasts(sess).Push(toast.KindError, err.Error())
	}

	sl := s.slider(sess)
	sl.SetCount(len(list))

	data := s.page(sess, "Beranda")
	data.Username = sess.GetString(auth.UsernameKey)
	data.Users = list
	data.Slider = sl.Snapshot()
	s.render(w, http.StatusOK, pageHome, data)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.EnsureRegistered(r.Context()); err != nil {
		s.log.ErrorObj("seed registered user failed", "auth_seed", map[string]any{"error": err.Error()})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sess := s.session(w, r)
	if s.auth.IsLoggedIn(sess) {
		http.Redirect(w, r, homePath, http.StatusFound)
		return
	}
	s.render(w, http.StatusOK, pageLogin, s.page(sess, "Masuk"))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := s.session(w, r)
	creds := domain.Credentials{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}

	// Incomplete forms are ignored without feedback.
	if creds.Username == "" || creds.Password == "" {
		data := s.page(sess, "Masuk")
		data.Form.Username = creds.Username
		s.render(w, http.StatusOK, pageLogin, data)
		return
	}

	err := s.auth.Login(r.Context(), sess, creds)
	switch {
	case err == nil:
		s.metrics.logins.WithLabelValues("success").Inc()
		http.Redirect(w, r, homePath, http.StatusSeeOther)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.metrics.logins.WithLabelValues("aborted").Inc()
	default:
		s.metrics.logins.WithLabelValues("failure").Inc()
		s.toasts(sess).Push(toast.KindError, err.Error())
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	s.auth.Logout(r.Context(), sess)
	s.sessions.Destroy(w, sess)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

func (s *Server) handleSlide(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if !s.auth.IsLoggedIn(sess) {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}

	action := chi.URLParam(r, "action")
	sl := s.slider(sess)
	switch action {
	case "next":
		sl.Next()
	case "back":
		sl.Back()
	case "swipe":
		g, err := parseGesture(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if g.width > 0 {
			sl.Resize(g.width)
		}
		sl.Start(g.from)
		sl.Move(g.to, g.mobile)
		sl.End(g.to)
	default:
		s.handleNotFound(w, r)
		return
	}
	s.metrics.slides.WithLabelValues(action).Inc()

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, sl.Snapshot())
		return
	}
	http.Redirect(w, r, homePath, http.StatusSeeOther)
}

func (s *Server) handleManifest(w http.ResponseWriter, _ *http.Request) {
	raw, err := s.cfg.Site.Manifest()
	if err != nil {
		s.log.ErrorObj("render manifest failed", "manifest", map[string]any{"error": err.Error()})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/manifest+json")
	_, _ = w.Write(raw)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	data := s.page(sess, "Halaman tidak ditemukan")
	data.Illustration = notFoundIllustration
	s.render(w, http.StatusNotFound, pageNotFound, data)
}

type gesture struct {
	from   int
	to     int
	width  int
	mobile bool
}

func parseGesture(r *http.Request) (gesture, error) {
	if err := r.ParseForm(); err != nil {
		return gesture{}, errors.New("invalid form")
	}
	var g gesture
	var err error
	if g.from, err = strconv.Atoi(r.PostForm.Get("from")); err != nil {
		return gesture{}, errors.New("from must be an integer")
	}
	if g.to, err = strconv.Atoi(r.PostForm.Get("to")); err != nil {
		return gesture{}, errors.New("to must be an integer")
	}
	if raw := r.PostForm.Get("width"); raw != "" {
		if g.width, err = strconv.Atoi(raw); err != nil {
			return gesture{}, errors.New("width must be an integer")
		}
	}
	if raw := r.PostForm.Get("mobile"); raw != "" {
		if g.mobile, err = strconv.ParseBool(raw); err != nil {
			return gesture{}, errors.New("mobile must be a boolean")
		}
	}
	return g, nil
}

// session returns the request session, loading it directly when the
// middleware did not run.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	if sess, ok := session.FromContext(r.Context()); ok {
		return sess
	}
	return s.sessions.Load(w, r)
}

func (s *Server) toasts(sess *session.Session) *toast.Queue {
	if v, ok := sess.Get(toastsKey); ok {
		if q, ok := v.(*toast.Queue); ok {
			return q
		}
	}
	q := toast.NewQueue(s.cfg.ToastDismiss)
	sess.Set(toastsKey, q)
	return q
}

func (s *Server) slider(sess *session.Session) *slider.Slider {
	if v, ok := sess.Get(sliderKey); ok {
		if sl, ok := v.(*slider.Slider); ok {
			return sl
		}
	}
	sl := slider.New(0, slider.Options{MobileOnly: true, Infinite: true})
	sess.Set(sliderKey, sl)
	return sl
}

// page returns the common view data and drains pending toasts.
func (s *Server) page(sess *session.Session, title string) pageData {
	now := s.now()
	return pageData{
		Title:  title,
		Site:   s.cfg.Site,
		Toasts: toastViews(s.toasts(sess).Drain(now), now),
	}
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data pageData) {
	t, ok := s.pages[page]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.ErrorObj("render page failed", "render_error", map[string]any{
			"page":  page,
			"error": err.Error(),
		})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
