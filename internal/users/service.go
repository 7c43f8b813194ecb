// Package users fetches the demo user listing from the upstream API.
package users

import (
	"context"
	"time"

	"github.com/samvad-hq/picnic-web/internal/domain"
	"github.com/samvad-hq/picnic-web/internal/logger"
	"github.com/samvad-hq/picnic-web/pkg/httpclient"
)

// Path is the upstream resource listing users.
const Path = "/users"

// Lister is the read surface pages depend on.
type Lister interface {
	List(ctx context.Context) ([]domain.User, error)
}

// Service reads users through the shared API client.
type Service struct {
	client     *httpclient.Client
	revalidate time.Duration
	log        logger.Logger
}

// NewService returns a Service. A positive revalidate caches the listing for that long.
func NewService(client *httpclient.Client, revalidate time.Duration, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{client: client, revalidate: revalidate, log: log}
}

// List returns every user. Upstream errors are returned unchanged so their
// message can be shown to the visitor.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	cfg := httpclient.HTTPConfig{}
	if s.revalidate > 0 {
		cfg.Cache = httpclient.CacheForce
		cfg.Revalidate = s.revalidate
	}

	users, err := httpclient.Get[[]domain.User](ctx, s.client, Path, cfg)
	if err != nil {
		s.log.ErrorObj("list users failed", "users_list", map[string]any{
			"error": err.Error(),
		})
		return nil, err
	}
	s.log.DebugObj("listed users", "users_list", map[string]any{
		"count": len(users),
	})
	return users, nil
}
