package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"
)

const (
	contentTypeJSON  = "application/json"
	defaultTimeout   = 15 * time.Second
	cacheKeyPrefix   = "GET "
	cachedStatusText = "200 OK"
)

// RequestInterceptor rewrites the outgoing request configuration.
type RequestInterceptor func(ctx context.Context, cfg RequestConfig) (RequestConfig, error)

// ResponseInterceptor rewrites the received response before status handling.
type ResponseInterceptor func(ctx context.Context, resp *Response) (*Response, error)

// ErrorInterceptor handles a failed request. A nil error makes the returned value the
// result of the call.
type ErrorInterceptor func(ctx context.Context, err error) (any, error)

// Interceptors is the optional hook set applied to every request of a Client.
type Interceptors struct {
	Request  RequestInterceptor
	Response ResponseInterceptor
	Error    ErrorInterceptor
}

// ResponseCache stores GET response bodies for force-cache requests.
type ResponseCache interface {
	Lookup(key string) ([]byte, bool, error)
	Save(key string, value []byte, ttl time.Duration) error
}

// Logger is the logging surface the client relies on.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}

// Options configures a Client instance.
type Options struct {
	BaseURL   string
	Headers   map[string]string
	Timeout   time.Duration
	Transport Transport
	Cache     ResponseCache
	Logger    Logger
}

// Client issues requests against a shared base URL with default headers.
type Client struct {
	baseURL   string
	headers   map[string]string
	transport Transport
	cache     ResponseCache
	log       Logger

	mu           sync.RWMutex
	interceptors Interceptors
}

// New builds a Client from opts.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := opts.Transport
	if transport == nil {
		transport = NewRestyTransport(timeout)
	}
	var log Logger = noopLogger{}
	if opts.Logger != nil {
		log = opts.Logger
	}
	return &Client{
		baseURL:   strings.TrimSpace(opts.BaseURL),
		headers:   mergeHeaders(opts.Headers),
		transport: transport,
		cache:     opts.Cache,
		log:       log,
	}
}

var (
	defaultOnce   sync.Once
	defaultClient *Client
)

// Default returns the shared client with no base URL.
func Default() *Client {
	defaultOnce.Do(func() {
		defaultClient = New(Options{})
	})
	return defaultClient
}

// SetInterceptors replaces the interceptor set.
func (c *Client) SetInterceptors(in Interceptors) {
	c.mu.Lock()
	c.interceptors = in
	c.mu.Unlock()
}

func (c *Client) currentInterceptors() Interceptors {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.interceptors
}

// Request executes cfg and decodes the JSON response into out (a pointer, may be nil).
func (c *Client) Request(ctx context.Context, cfg RequestConfig, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	in := c.currentInterceptors()

	err := c.exchange(ctx, in, cfg, out)
	if err == nil {
		return nil
	}
	if in.Error == nil {
		return err
	}

	val, herr := in.Error(ctx, err)
	if herr != nil {
		return herr
	}
	return assign(out, val)
}

func (c *Client) exchange(ctx context.Context, in Interceptors, cfg RequestConfig, out any) error {
	if in.Request != nil {
		next, err := in.Request(ctx, cfg)
		if err != nil {
			return fmt.Errorf("request interceptor: %w", err)
		}
		cfg = next
	}

	prep, err := c.prepare(cfg)
	if err != nil {
		return err
	}

	resp, cacheKey, err := c.send(ctx, cfg, prep)
	if err != nil {
		return err
	}

	if in.Response != nil {
		resp, err = in.Response(ctx, resp)
		if err != nil {
			return fmt.Errorf("response interceptor: %w", err)
		}
		if resp == nil {
			return errors.New("response interceptor returned no response")
		}
	}

	if !resp.OK() {
		return newStatusError(resp)
	}

	if cacheKey != "" {
		if err := c.cache.Save(cacheKey, resp.Body, cfg.Revalidate); err != nil {
			c.log.WarnObj("response cache save failed", "cache_error", map[string]any{
				"url":   prep.URL,
				"error": err.Error(),
			})
		}
	}

	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", prep.URL, err)
	}
	return nil
}

// send serves force-cache GETs from the cache when possible. The returned key is
// non-empty when a fresh response should be written back.
func (c *Client) send(ctx context.Context, cfg RequestConfig, prep PreparedRequest) (*Response, string, error) {
	cacheable := c.cache != nil && prep.Method == http.MethodGet &&
		cfg.Cache == CacheForce && cfg.Revalidate > 0
	key := ""
	if cacheable {
		key = cacheKeyPrefix + prep.URL
		body, ok, err := c.cache.Lookup(key)
		if err != nil {
			c.log.WarnObj("response cache lookup failed", "cache_error", map[string]any{
				"url":   prep.URL,
				"error": err.Error(),
			})
		} else if ok {
			c.log.DebugObj("response served from cache", "url", prep.URL)
			return &Response{
				StatusCode: http.StatusOK,
				Status:     cachedStatusText,
				Header:     http.Header{"Content-Type": []string{contentTypeJSON}},
				Body:       body,
			}, "", nil
		}
	}

	start := time.Now()
	resp, err := c.transport.Execute(ctx, prep)
	if err != nil {
		return nil, "", err
	}
	c.log.DebugObj("http exchange completed", "http_exchange", map[string]any{
		"method":     prep.Method,
		"url":        prep.URL,
		"status":     resp.StatusCode,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return resp, key, nil
}

func (c *Client) prepare(cfg RequestConfig) (PreparedRequest, error) {
	method, err := normalizeMethod(cfg.Method)
	if err != nil {
		return PreparedRequest{}, err
	}

	base := c.baseURL
	if strings.TrimSpace(cfg.BaseURL) != "" {
		base = strings.TrimSpace(cfg.BaseURL)
	}
	target := cfg.URL
	if base != "" {
		target = base + cfg.URL
	}
	if strings.TrimSpace(target) == "" {
		return PreparedRequest{}, errors.New("request url is empty")
	}

	prep := PreparedRequest{
		Method: method,
		URL:    BuildURL(target, cfg.Params),
	}

	defaults := map[string]string{"Content-Type": contentTypeJSON}
	switch body := cfg.Body.(type) {
	case nil:
	case *FormData:
		prep.Form = body
		defaults = nil
	default:
		raw, err := json.Marshal(body)
		if err != nil {
			return PreparedRequest{}, fmt.Errorf("encode request body: %w", err)
		}
		prep.JSON = raw
	}

	prep.Headers = mergeHeaders(defaults, c.headers, cacheHeaders(cfg.Cache), cfg.Headers)
	return prep, nil
}

func cacheHeaders(mode CacheMode) map[string]string {
	switch mode {
	case CacheNoStore:
		return map[string]string{"Cache-Control": "no-store"}
	case CacheNoCache, CacheReload:
		return map[string]string{"Cache-Control": "no-cache"}
	case CacheOnlyIfCached:
		return map[string]string{"Cache-Control": "only-if-cached"}
	default:
		return nil
	}
}

// assign stores an error interceptor's value into out, converting through JSON when
// the types differ.
func assign(out, val any) error {
	if out == nil || val == nil {
		return nil
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("result target must be a non-nil pointer")
	}
	vv := reflect.ValueOf(val)
	if vv.Type().AssignableTo(rv.Elem().Type()) {
		rv.Elem().Set(vv)
		return nil
	}
	if vv.Kind() == reflect.Pointer && !vv.IsNil() && vv.Elem().Type().AssignableTo(rv.Elem().Type()) {
		rv.Elem().Set(vv.Elem())
		return nil
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("encode interceptor result: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode interceptor result: %w", err)
	}
	return nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, url string, cfg HTTPConfig, out any) error {
	return c.Request(ctx, cfg.request(http.MethodGet, url, nil), out)
}

// Post issues a POST request with body.
func (c *Client) Post(ctx context.Context, url string, body any, cfg HTTPConfig, out any) error {
	return c.Request(ctx, cfg.request(http.MethodPost, url, body), out)
}

// Put issues a PUT request with body.
func (c *Client) Put(ctx context.Context, url string, body any, cfg HTTPConfig, out any) error {
	return c.Request(ctx, cfg.request(http.MethodPut, url, body), out)
}

// Patch issues a PATCH request with body.
func (c *Client) Patch(ctx context.Context, url string, body any, cfg HTTPConfig, out any) error {
	return c.Request(ctx, cfg.request(http.MethodPatch, url, body), out)
}

// Delete issues a DELETE request with body.
func (c *Client) Delete(ctx context.Context, url string, body any, cfg HTTPConfig, out any) error {
	return c.Request(ctx, cfg.request(http.MethodDelete, url, body), out)
}

// Do executes cfg on c and returns the decoded result.
func Do[T any](ctx context.Context, c *Client, cfg RequestConfig) (T, error) {
	var out T
	err := c.Request(ctx, cfg, &out)
	return out, err
}

// Get issues a GET on c and returns the decoded result.
func Get[T any](ctx context.Context, c *Client, url string, cfg HTTPConfig) (T, error) {
	return Do[T](ctx, c, cfg.request(http.MethodGet, url, nil))
}
