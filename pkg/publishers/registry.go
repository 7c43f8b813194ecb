package publishers

import (
	"context"
	"fmt"
	"strings"
)

// Builder creates a Publisher from a config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Registry maps lower-cased publisher types to their builders. It is built
// once at startup and read-only afterwards.
type Registry map[string]Builder

// Register adds or replaces the builder for typ. Blank types and nil builders are ignored.
func (r Registry) Register(typ string, builder Builder) {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ == "" || builder == nil {
		return
	}
	r[typ] = builder
}

// PublisherFor builds the publisher described by cfg.
func (r Registry) PublisherFor(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	typ := strings.ToLower(strings.TrimSpace(cfg.Type))
	if typ == "" {
		return nil, fmt.Errorf("publisher %q has no type configured", cfg.ID)
	}
	build, ok := r[typ]
	if !ok {
		return nil, fmt.Errorf("publisher %q: no builder for type %q", cfg.ID, cfg.Type)
	}
	return build(ctx, cfg, log)
}

// DefaultRegistry knows every built-in sink.
func DefaultRegistry() Registry {
	return Registry{
		TypeHTTP:   newHTTPPublisher,
		TypeSQS:    newSQSPublisher,
		TypeSNS:    newSNSPublisher,
		TypePubSub: newPubSubPublisher,
	}
}

// BuildAll builds one publisher per config. On the first failure every
// publisher already built is closed and the error is returned.
func BuildAll(ctx context.Context, reg Registry, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		pub, err := reg.PublisherFor(ctx, cfg, log)
		if err != nil {
			_ = NewFanout(pubs).Close()
			return nil, err
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}
