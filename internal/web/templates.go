package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageLogin    = "login"
	pageHome     = "home"
	pageNotFound = "not_found"
)

var pageFiles = map[string]string{
	pageLogin:    "templates/login.html",
	pageHome:     "templates/home.html",
	pageNotFound: "templates/not_found.html",
}

var templateFuncs = template.FuncMap{
	"upper": strings.ToUpper,
	"input": func(id, name, typ, placeholder, value string) inputView {
		return inputView{ID: id, Name: name, Type: typ, Placeholder: placeholder, Value: value}
	},
	"inputWithSuffix": func(id, name, typ, placeholder, suffix, suffixFor string) inputView {
		return inputView{ID: id, Name: name, Type: typ, Placeholder: placeholder, Suffix: suffix, SuffixFor: suffixFor}
	},
	"modal": func(id, title, body, action, submit string) modalView {
		return modalView{ID: id, Title: title, Body: body, Action: action, Submit: submit}
	},
	"lazy": func(url, class string) lazyView {
		return lazyView{URL: url, Class: class}
	},
}

// parseTemplates builds one template set per page on top of the shared layout
// and partials.
func parseTemplates() (map[string]*template.Template, error) {
	base, err := template.New("layout").Funcs(templateFuncs).
		ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	out := make(map[string]*template.Template, len(pageFiles))
	for name, file := range pageFiles {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		out[name] = t
	}
	return out, nil
}
