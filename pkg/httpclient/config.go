package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// CacheMode mirrors the fetch cache directive of a request.
type CacheMode string

const (
	CacheDefault      CacheMode = ""
	CacheNoStore      CacheMode = "no-store"
	CacheReload       CacheMode = "reload"
	CacheNoCache      CacheMode = "no-cache"
	CacheForce        CacheMode = "force-cache"
	CacheOnlyIfCached CacheMode = "only-if-cached"
)

// HTTPConfig carries the per-call options accepted by the convenience methods.
type HTTPConfig struct {
	Headers map[string]string
	Params  map[string]any
	Cache   CacheMode
	// Revalidate keeps a force-cache GET response fresh for this long.
	Revalidate time.Duration
}

// RequestConfig describes a single request. Zero values fall back to the client defaults.
type RequestConfig struct {
	BaseURL    string
	URL        string
	Method     string
	Headers    map[string]string
	Params     map[string]any
	Body       any
	Cache      CacheMode
	Revalidate time.Duration
	Mode       string
}

func (c HTTPConfig) request(method, url string, body any) RequestConfig {
	return RequestConfig{
		URL:        url,
		Method:     method,
		Headers:    c.Headers,
		Params:     c.Params,
		Body:       body,
		Cache:      c.Cache,
		Revalidate: c.Revalidate,
	}
}

var allowedMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodHead:    {},
	http.MethodOptions: {},
}

func normalizeMethod(m string) (string, error) {
	m = strings.ToUpper(strings.TrimSpace(m))
	if m == "" {
		return http.MethodGet, nil
	}
	if _, ok := allowedMethods[m]; !ok {
		return "", fmt.Errorf("unsupported http method %q", m)
	}
	return m, nil
}

// mergeHeaders layers header sets left to right; later sets win on canonical key collisions.
func mergeHeaders(sets ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, set := range sets {
		for k, v := range set {
			key := http.CanonicalHeaderKey(strings.TrimSpace(k))
			if key == "" {
				continue
			}
			out[key] = v
		}
	}
	return out
}

// FormData is a structured multipart payload. Passing it as a body switches the
// request to multipart/form-data.
type FormData struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	field    string
	fileName string
	reader   io.Reader
}

// NewFormData returns an empty multipart payload.
func NewFormData() *FormData { return &FormData{} }

// Set replaces every value of key with value.
func (f *FormData) Set(key, value string) *FormData {
	kept := f.fields[:0]
	for _, fld := range f.fields {
		if fld.name != key {
			kept = append(kept, fld)
		}
	}
	f.fields = append(kept, formField{name: key, value: value})
	return f
}

// Append adds value under key, keeping existing values.
func (f *FormData) Append(key, value string) *FormData {
	f.fields = append(f.fields, formField{name: key, value: value})
	return f
}

// AppendFile attaches a file part.
func (f *FormData) AppendFile(field, fileName string, r io.Reader) *FormData {
	f.files = append(f.files, formFile{field: field, fileName: fileName, reader: r})
	return f
}

// Get returns the first value stored under key.
func (f *FormData) Get(key string) string {
	for _, fld := range f.fields {
		if fld.name == key {
			return fld.value
		}
	}
	return ""
}

// Entries returns the field values keyed by name, first value wins.
func (f *FormData) Entries() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, fld := range f.fields {
		if _, ok := out[fld.name]; !ok {
			out[fld.name] = fld.value
		}
	}
	return out
}

// encode renders the payload as multipart/form-data and returns the body with
// its boundary-carrying Content-Type.
func (f *FormData) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", fld.name, err)
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.fileName)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", file.field, err)
		}
		if _, err := io.Copy(part, file.reader); err != nil {
			return nil, "", fmt.Errorf("copy form file %s: %w", file.field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func stringReader(s string) io.Reader { return strings.NewReader(s) }
