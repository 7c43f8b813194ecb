// Package auth implements the mocked credential check behind the login page.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/picnic-web/internal/domain"
	"github.com/samvad-hq/picnic-web/internal/logger"
	"github.com/samvad-hq/picnic-web/internal/session"
	"github.com/samvad-hq/picnic-web/pkg/publishers"
)

const (
	// RegisteredUserKey holds the JSON encoded mock account in the item store.
	RegisteredUserKey = "registered-user"
	// IsLoginKey marks an authenticated session.
	IsLoginKey = "is-login"
	// UsernameKey records who logged in on the session.
	UsernameKey = "username"
)

var (
	ErrUnregisteredUser   = errors.New("user not registered")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrMissingCredentials = errors.New("username and password are required")
)

// ItemStore is the persistent item surface auth needs.
type ItemStore interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
}

// EventPublisher receives login outcomes.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Options configures a Service.
type Options struct {
	// Delay is the artificial wait applied to every login attempt.
	Delay     time.Duration
	Seed      domain.Credentials
	Publisher EventPublisher
	Logger    logger.Logger
}

// Service checks credentials against the registered record.
type Service struct {
	store ItemStore
	delay time.Duration
	seed  domain.Credentials
	pub   EventPublisher
	log   logger.Logger
}

// NewService builds a Service backed by store.
func NewService(store ItemStore, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		store: store,
		delay: opts.Delay,
		seed:  opts.Seed,
		pub:   opts.Publisher,
		log:   log,
	}
}

// EnsureRegistered seeds the mock account when no record exists yet.
func (s *Service) EnsureRegistered(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, ok, err := s.store.GetItem(RegisteredUserKey)
	if err != nil {
		return fmt.Errorf("read registered user: %w", err)
	}
	if ok {
		return nil
	}
	raw, err := json.Marshal(s.seed)
	if err != nil {
		return fmt.Errorf("encode registered user: %w", err)
	}
	if err := s.store.SetItem(RegisteredUserKey, string(raw)); err != nil {
		return fmt.Errorf("seed registered user: %w", err)
	}
	s.log.InfoObj("registered mock user", "auth_seed", map[string]any{
		"username": s.seed.Username,
	})
	return nil
}

// Login waits the configured delay, then compares creds with the registered
// record. On success the session is flagged as logged in.
func (s *Service) Login(ctx context.Context, sess *session.Session, creds domain.Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return ErrMissingCredentials
	}
	if err := s.wait(ctx); err != nil {
		return err
	}

	err := s.check(creds)
	if err != nil {
		s.publish(ctx, publishers.NewEvent(publishers.EventLoginFailed, creds.Username, sessionID(sess)).WithReason(err.Error()))
		s.log.WarnObj("login rejected", "auth_login", map[string]any{
			"username": creds.Username,
			"reason":   err.Error(),
		})
		return err
	}

	if sess != nil {
		sess.Set(IsLoginKey, "true")
		sess.Set(UsernameKey, creds.Username)
	}
	s.publish(ctx, publishers.NewEvent(publishers.EventLoginSucceeded, creds.Username, sessionID(sess)))
	s.log.InfoObj("login succeeded", "auth_login", map[string]any{
		"username": creds.Username,
	})
	return nil
}

// IsLoggedIn reports whether sess carries the login flag.
func (s *Service) IsLoggedIn(sess *session.Session) bool {
	return sess != nil && sess.GetString(IsLoginKey) == "true"
}

// Logout clears the login flag from sess.
func (s *Service) Logout(ctx context.Context, sess *session.Session) {
	if !s.IsLoggedIn(sess) {
		return
	}
	username := sess.GetString(UsernameKey)
	sess.Delete(IsLoginKey)
	sess.Delete(UsernameKey)
	s.publish(ctx, publishers.NewEvent(publishers.EventLogout, username, sess.ID))
}

func (s *Service) check(creds domain.Credentials) error {
	raw, ok, err := s.store.GetItem(RegisteredUserKey)
	if err != nil {
		return fmt.Errorf("read registered user: %w", err)
	}
	if !ok {
		return ErrUnregisteredUser
	}
	var registered domain.Credentials
	if err := json.NewDecoder(strings.NewReader(raw)).Decode(&registered); err != nil {
		return fmt.Errorf("decode registered user: %w", err)
	}
	if creds.Username != registered.Username {
		return ErrUnregisteredUser
	}
	if creds.Password != registered.Password {
		return ErrInvalidPassword
	}
	return nil
}

func (s *Service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) publish(ctx context.Context, evt publishers.Event) {
	if s.pub == nil {
		return
	}
	if _, err := s.pub.Publish(ctx, evt); err != nil {
		s.log.WarnObj("auth event publish failed", "auth_publish", map[string]any{
			"event_type": evt.Type,
			"error":      err.Error(),
		})
	}
}

func sessionID(sess *session.Session) string {
	if sess == nil {
		return ""
	}
	return sess.ID
}
