package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Transport executes a fully prepared request. Callers can inject fakes in tests.
type Transport interface {
	Execute(ctx context.Context, req PreparedRequest) (*Response, error)
}

// PreparedRequest is the request after interceptors, URL building and body encoding.
type PreparedRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	// JSON holds the encoded JSON body; nil means no body.
	JSON []byte
	// Form is sent as multipart/form-data when non-nil.
	Form *FormData
}

// restyMultipartVerbs are the methods resty accepts multipart bodies on. Other
// verbs get the form encoded up front and sent as a plain body.
var restyMultipartVerbs = map[string]bool{
	http.MethodPost:  true,
	http.MethodPut:   true,
	http.MethodPatch: true,
}

// restyTransport adapts resty.Client to the Transport interface.
type restyTransport struct {
	client *resty.Client
}

// NewRestyTransport creates a resty-backed Transport with the specified timeout.
func NewRestyTransport(timeout time.Duration) Transport {
	return &restyTransport{client: newRestyBaseClient(timeout)}
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// Execute performs the prepared request and buffers the whole response body.
func (r *restyTransport) Execute(ctx context.Context, prep PreparedRequest) (*Response, error) {
	req := r.client.R().SetContext(ctx)

	switch {
	case prep.Form != nil && restyMultipartVerbs[prep.Method]:
		// resty writes the Content-Type with its generated boundary
		setHeadersExcept(req, prep.Headers, "Content-Type")
		for _, f := range prep.Form.fields {
			req.SetMultipartField(f.name, "", "", stringReader(f.value))
		}
		for _, f := range prep.Form.files {
			req.SetFileReader(f.field, f.fileName, f.reader)
		}
	case prep.Form != nil:
		body, contentType, err := prep.Form.encode()
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", prep.Method, prep.URL, err)
		}
		setHeadersExcept(req, prep.Headers, "Content-Type")
		req.SetHeader("Content-Type", contentType)
		req.SetBody(body)
	default:
		if len(prep.Headers) > 0 {
			req.SetHeaders(prep.Headers)
		}
		if prep.JSON != nil {
			req.SetBody(prep.JSON)
		}
	}

	resp, err := req.Execute(prep.Method, prep.URL)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", prep.Method, prep.URL, err)
	}
	return &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

func setHeadersExcept(req *resty.Request, headers map[string]string, skip string) {
	for k, v := range headers {
		if http.CanonicalHeaderKey(k) != skip {
			req.SetHeader(k, v)
		}
	}
}
