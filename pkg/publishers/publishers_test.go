package publishers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestLoadRegistryParsesAWSAndPubSubBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.json")
	raw := `{"publishers":[
  {"id":"q","type":"sqs","sqs":{"uri":" https://sqs.local/q ","region":"us-east-1","endpoint":"http://localhost:4566"}},
  {"id":"t","type":"SNS","sns":{"topic_arn":"arn:aws:sns:us-east-1:1:auth","region":"us-east-1"}},
  {"id":"g","type":"pubsub","pubsub":{"project_id":"p","topic":"auth"}}
]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	q, ok := reg.ByID("q")
	if !ok || q.SQS.QueueURL != "https://sqs.local/q" || q.SQS.Region != "us-east-1" || q.SQS.Endpoint != "http://localhost:4566" {
		t.Fatalf("unexpected sqs config %+v", q.SQS)
	}
	sn, ok := reg.ByID("t")
	if !ok || sn.Type != TypeSNS {
		t.Fatalf("expected lower-cased sns type, got %+v", sn)
	}
	if len(reg.Enabled()) != 3 {
		t.Fatalf("expected all publishers enabled by default")
	}
}

func TestLoadRegistryRejectsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - id: a
    type: http
    http: {url: "https://example.com"}
  - id: a
    type: http
    http: {url: "https://example.com/2"}
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidateNamesMissingField(t *testing.T) {
	cases := []struct {
		name string
		cfg  PublisherConfig
		want string
	}{
		{"no id", PublisherConfig{Type: TypeHTTP}, "id is required"},
		{"http block", PublisherConfig{ID: "h", Type: TypeHTTP}, "http is required"},
		{"http url", PublisherConfig{ID: "h", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{}}, "http.url is required"},
		{"sns region", PublisherConfig{ID: "t", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "arn"}}, "sns.region is required"},
		{"sqs uri", PublisherConfig{ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{}}, "sqs.uri is required"},
		{"pubsub topic", PublisherConfig{ID: "g", Type: TypePubSub, PubSub: &PubSubPublisherConfig{ProjectID: "p"}}, "pubsub.topic is required"},
		{"unknown", PublisherConfig{ID: "k", Type: "kafka"}, "unsupported type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.normalized().validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestNormalizedAppliesHTTPDefaults(t *testing.T) {
	cfg := PublisherConfig{
		ID:   " hook ",
		Type: " HTTP ",
		HTTP: &HTTPPublisherConfig{URL: " https://example.com ", Headers: map[string]string{" X-A ": " 1 ", "X-B": " "}},
	}.normalized()

	if cfg.ID != "hook" || cfg.Type != TypeHTTP || !cfg.EnabledValue() {
		t.Fatalf("unexpected identity %+v", cfg)
	}
	if cfg.HTTP.Method != "POST" || cfg.HTTP.TimeoutSeconds != 5 || cfg.HTTP.URL != "https://example.com" {
		t.Fatalf("unexpected http defaults %+v", cfg.HTTP)
	}
	if len(cfg.HTTP.Headers) != 1 || cfg.HTTP.Headers["X-A"] != "1" {
		t.Fatalf("unexpected headers %v", cfg.HTTP.Headers)
	}
}

func TestLoadRegistryDetectsFormatWithoutExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers")
	raw := "publishers:\n  - id: hook\n    type: http\n    http:\n      url: https://example.com\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if _, ok := reg.ByID(" hook "); !ok {
		t.Fatalf("expected hook to be registered")
	}
	if len(reg.All()) != 1 {
		t.Fatalf("expected one entry")
	}
}
