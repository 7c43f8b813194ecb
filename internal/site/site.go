// Package site loads the branding metadata rendered into pages and the web
// app manifest.
package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Icon is one manifest icon entry.
type Icon struct {
	Src     string `json:"src" yaml:"src"`
	Sizes   string `json:"sizes" yaml:"sizes"`
	Type    string `json:"type" yaml:"type"`
	Purpose string `json:"purpose,omitempty" yaml:"purpose"`
}

// Metadata describes the site.
type Metadata struct {
	Name            string `json:"name" yaml:"name"`
	ShortName       string `json:"short_name" yaml:"short_name"`
	Description     string `json:"description" yaml:"description"`
	StartURL        string `json:"start_url" yaml:"start_url"`
	Display         string `json:"display" yaml:"display"`
	BackgroundColor string `json:"background_color" yaml:"background_color"`
	ThemeColor      string `json:"theme_color" yaml:"theme_color"`
	Icons           []Icon `json:"icons" yaml:"icons"`
	// Tagline is shown under the brand in the auth layout.
	Tagline string `json:"-" yaml:"tagline"`
}

// Default returns the built-in metadata.
func Default() Metadata {
	return Metadata{
		Name:      "Picnic - Liburan Lebih Menyenangkan",
		ShortName: "Picnic",
		Description: "Picnic by Kappa merupakan platform untuk pembelian tiket wisata secara online " +
			"dengan tampilan yang user friendly yang telah bekerja sama dengan Kemendikdasmen dan Kemenpar",
		StartURL:        "/",
		Display:         "standalone",
		BackgroundColor: "#FFFFFF",
		ThemeColor:      "#FFFFFF",
		Tagline:         "By Kappa",
		Icons: []Icon{
			{Src: "/icon-192x192.png", Sizes: "192x192", Type: "image/png"},
			{Src: "/icon-512x512.png", Sizes: "512x512", Type: "image/png"},
			{Src: "/icon-512x512.png", Sizes: "512x512", Type: "image/png", Purpose: "any"},
			{Src: "/icon-512x512.png", Sizes: "512x512", Type: "image/png", Purpose: "maskable"},
		},
	}
}

// Load reads metadata from a YAML or JSON file. Missing fields keep their
// defaults. A missing file yields Default.
func Load(path string) (Metadata, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Metadata{}, fmt.Errorf("read site file: %w", err)
	}

	meta, err := parse(raw, filepath.Ext(path))
	if err != nil {
		return Metadata{}, err
	}
	if err := meta.validate(); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

// parse decodes data over the defaults using the decoder matching ext, or
// every decoder in turn when ext is unknown.
func parse(data []byte, ext string) (Metadata, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	known := false
	for _, d := range decoders {
		if ext == d.ext {
			known = true
		}
	}

	var lastErr error
	for _, d := range decoders {
		if known && ext != d.ext {
			continue
		}
		meta := Default()
		if err := d.fn(data, &meta); err != nil {
			lastErr = fmt.Errorf("decode %s site metadata: %w", d.name, err)
			continue
		}
		return meta, nil
	}
	if lastErr == nil {
		lastErr = errors.New("site file format not recognized (expected YAML or JSON)")
	}
	return Metadata{}, lastErr
}

func (m Metadata) validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("site name is required")
	}
	if strings.TrimSpace(m.StartURL) == "" {
		return errors.New("site start_url is required")
	}
	for i, icon := range m.Icons {
		if strings.TrimSpace(icon.Src) == "" {
			return fmt.Errorf("icons[%d]: src is required", i)
		}
	}
	return nil
}

// Manifest renders the web app manifest document.
func (m Metadata) Manifest() ([]byte, error) {
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return raw, nil
}
