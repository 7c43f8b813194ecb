package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported publisher types.
const (
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypePubSub = "pubsub"
	TypeHTTP   = "http"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

type configFile struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// PublisherConfig is one sink declared in the publishers file. Exactly the
// block matching Type is read.
type PublisherConfig struct {
	ID      string                 `json:"id" yaml:"id"`
	Type    string                 `json:"type" yaml:"type"`
	Enabled *bool                  `json:"enabled" yaml:"enabled"`
	SQS     *SQSPublisherConfig    `json:"sqs" yaml:"sqs"`
	SNS     *SNSPublisherConfig    `json:"sns" yaml:"sns"`
	PubSub  *PubSubPublisherConfig `json:"pubsub" yaml:"pubsub"`
	HTTP    *HTTPPublisherConfig   `json:"http" yaml:"http"`
}

// AWSConfig carries the region, optional static keys and endpoint override
// shared by the AWS backed publishers.
type AWSConfig struct {
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
}

type SQSPublisherConfig struct {
	AWSConfig `json:",inline" yaml:",inline"`
	QueueURL  string `json:"uri" yaml:"uri"`
}

type SNSPublisherConfig struct {
	AWSConfig `json:",inline" yaml:",inline"`
	TopicARN  string `json:"topic_arn" yaml:"topic_arn"`
}

type PubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// HTTPPublisherConfig describes a webhook. Method defaults to POST and the
// timeout to five seconds.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// EnabledValue reports the enabled flag, true when unset.
func (cfg PublisherConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

func (cfg PublisherConfig) normalized() PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.Enabled == nil {
		on := true
		cfg.Enabled = &on
	}
	if cfg.SQS != nil {
		c := *cfg.SQS
		c.AWSConfig = c.AWSConfig.trimmed()
		c.QueueURL = strings.TrimSpace(c.QueueURL)
		cfg.SQS = &c
	}
	if cfg.SNS != nil {
		c := *cfg.SNS
		c.AWSConfig = c.AWSConfig.trimmed()
		c.TopicARN = strings.TrimSpace(c.TopicARN)
		cfg.SNS = &c
	}
	if cfg.PubSub != nil {
		c := *cfg.PubSub
		c.ProjectID = strings.TrimSpace(c.ProjectID)
		c.Topic = strings.TrimSpace(c.Topic)
		c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
		cfg.PubSub = &c
	}
	if cfg.HTTP != nil {
		c := *cfg.HTTP
		c.URL = strings.TrimSpace(c.URL)
		c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
		if c.Method == "" {
			c.Method = httpDefaultMethod
		}
		if c.TimeoutSeconds <= 0 {
			c.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		c.Headers = trimHeaders(c.Headers)
		cfg.HTTP = &c
	}
	return cfg
}

func (c AWSConfig) trimmed() AWSConfig {
	c.Region = strings.TrimSpace(c.Region)
	c.AccessKeyID = strings.TrimSpace(c.AccessKeyID)
	c.SecretAccessKey = strings.TrimSpace(c.SecretAccessKey)
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	return c
}

// trimHeaders drops headers whose name or value is blank.
func trimHeaders(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// validate reports the first missing field, named by its path in the file.
func (cfg PublisherConfig) validate() error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	var missing string
	switch cfg.Type {
	case "":
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	case TypeSQS:
		switch {
		case cfg.SQS == nil:
			missing = "sqs"
		case cfg.SQS.QueueURL == "":
			missing = "sqs.uri"
		case cfg.SQS.Region == "":
			missing = "sqs.region"
		}
	case TypeSNS:
		switch {
		case cfg.SNS == nil:
			missing = "sns"
		case cfg.SNS.TopicARN == "":
			missing = "sns.topic_arn"
		case cfg.SNS.Region == "":
			missing = "sns.region"
		}
	case TypePubSub:
		switch {
		case cfg.PubSub == nil:
			missing = "pubsub"
		case cfg.PubSub.ProjectID == "":
			missing = "pubsub.project_id"
		case cfg.PubSub.Topic == "":
			missing = "pubsub.topic"
		}
	case TypeHTTP:
		switch {
		case cfg.HTTP == nil:
			missing = "http"
		case cfg.HTTP.URL == "":
			missing = "http.url"
		}
	default:
		return fmt.Errorf("unsupported type %q for publisher %q", cfg.Type, cfg.ID)
	}
	if missing != "" {
		return fmt.Errorf("%s is required for publisher %q", missing, cfg.ID)
	}
	return nil
}

// ConfigRegistry is the validated, read-only content of a publishers file.
type ConfigRegistry struct {
	publishers []PublisherConfig
	idx        map[string]int
}

// LoadRegistry reads a YAML or JSON publishers file. Entries are normalized and
// validated, and ids must be unique.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	file, err := decodeConfigFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(file.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	reg := &ConfigRegistry{idx: make(map[string]int, len(file.Publishers))}
	for i, entry := range file.Publishers {
		cfg := entry.normalized()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := reg.idx[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		reg.idx[cfg.ID] = len(reg.publishers)
		reg.publishers = append(reg.publishers, cfg)
	}
	return reg, nil
}

var fileDecoders = map[string]func([]byte, any) error{
	".yaml": yaml.Unmarshal,
	".yml":  yaml.Unmarshal,
	".json": json.Unmarshal,
}

// decodeConfigFile picks the decoder by extension. Unknown extensions try
// JSON and then YAML.
func decodeConfigFile(data []byte, ext string) (configFile, error) {
	var file configFile
	if fn, ok := fileDecoders[strings.ToLower(ext)]; ok {
		if err := fn(data, &file); err != nil {
			return configFile{}, fmt.Errorf("decode publishers file: %w", err)
		}
		return file, nil
	}
	for _, fn := range []func([]byte, any) error{json.Unmarshal, yaml.Unmarshal} {
		file = configFile{}
		if fn(data, &file) == nil {
			return file, nil
		}
	}
	return configFile{}, errors.New("publishers file format not recognized (expected YAML or JSON)")
}

// ByID returns the entry with the given id.
func (r *ConfigRegistry) ByID(id string) (PublisherConfig, bool) {
	if r == nil {
		return PublisherConfig{}, false
	}
	i, ok := r.idx[strings.TrimSpace(id)]
	if !ok {
		return PublisherConfig{}, false
	}
	return r.publishers[i], true
}

// All returns a copy of every entry in file order.
func (r *ConfigRegistry) All() []PublisherConfig {
	if r == nil {
		return nil
	}
	return append([]PublisherConfig(nil), r.publishers...)
}

// Enabled returns the entries whose enabled flag is on, in file order.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	if r == nil {
		return nil
	}
	var out []PublisherConfig
	for _, cfg := range r.publishers {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}
