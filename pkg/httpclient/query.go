package httpclient

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
)

// componentReplacer turns url.QueryEscape output into encodeURIComponent output.
var componentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s the way browsers encode a URI component.
func EncodeComponent(s string) string {
	return componentReplacer.Replace(url.QueryEscape(s))
}

// BuildURL appends params to rawURL as a query string. Slice values are joined with
// commas before encoding, so {"a": []int{1, 2}} becomes a=1%2C2. Keys are sorted; nil
// values are skipped.
func BuildURL(rawURL string, params map[string]any) string {
	if len(params) == 0 {
		return rawURL
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := params[k]
		if v == nil {
			continue
		}
		parts = append(parts, EncodeComponent(k)+"="+EncodeComponent(paramValue(v)))
	}
	if len(parts) == 0 {
		return rawURL
	}

	query := strings.Join(parts, "&")
	if strings.Contains(rawURL, "?") {
		return rawURL + "&" + query
	}
	return rawURL + "?" + query
}

func paramValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = fmt.Sprint(rv.Index(i).Interface())
		}
		return strings.Join(items, ",")
	}
	return fmt.Sprint(v)
}
