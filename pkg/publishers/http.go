package publishers

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/picnic-web/pkg/httpclient"
)

// httpPublisher posts each event as a JSON webhook through the shared client,
// so non-2xx replies surface as *httpclient.StatusError.
type httpPublisher struct {
	id     string
	method string
	url    string
	client *httpclient.Client
	log    Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	return &httpPublisher{
		id:     cfg.ID,
		method: cfg.HTTP.Method,
		url:    cfg.HTTP.URL,
		client: httpclient.New(httpclient.Options{
			Headers: cfg.HTTP.Headers,
			Timeout: time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
		}),
		log: ensureLogger(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	err := h.client.Request(ctx, httpclient.RequestConfig{
		Method: h.method,
		URL:    h.url,
		Body:   evt,
		Cache:  httpclient.CacheNoStore,
	}, nil)
	return reportDelivery(h.log, TypeHTTP, h.id, evt, "deliver webhook", err)
}
