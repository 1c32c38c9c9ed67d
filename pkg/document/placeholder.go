package document

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"sync"
)

var (
	patternsMu sync.Mutex
	patterns   = map[string]*regexp.Regexp{}

	markerPattern = regexp.MustCompile(`\{\{\s*([^{}]*?)\s*\}\}`)
)

func placeholderPattern(key string) *regexp.Regexp {
	patternsMu.Lock()
	defer patternsMu.Unlock()

	re, ok := patterns[key]
	if !ok {
		re = regexp.MustCompile(`\{\{\s*` + regexp.QuoteMeta(key) + `\s*\}\}`)
		patterns[key] = re
	}
	return re
}

// Replace substitutes every {{ key }} marker in doc with the HTML-escaped
// value.
func Replace(key, value, doc string) string {
	return ReplaceHTML(key, html.EscapeString(value), doc)
}

// ReplaceHTML substitutes every {{ key }} marker in doc with markup as is.
func ReplaceHTML(key, markup, doc string) string {
	return placeholderPattern(key).ReplaceAllLiteralString(doc, markup)
}

// ReplaceResource substitutes a {{ resource-key }} marker.
func ReplaceResource(key, value, doc string) string {
	return Replace("resource-"+key, value, doc)
}

// ReplaceComponent substitutes a {{ component-key }} marker with markup.
func ReplaceComponent(key, markup, doc string) string {
	return ReplaceHTML("component-"+key, markup, doc)
}

// Unresolved returns the first marker left in doc. A document holding both
// "{{" and "}}" is never complete.
func Unresolved(doc string) (string, bool) {
	if !strings.Contains(doc, "{{") || !strings.Contains(doc, "}}") {
		return "", false
	}
	if m := markerPattern.FindStringSubmatch(doc); m != nil {
		return m[1], true
	}
	return "{{", true
}

// encodeComponent escapes s for use inside a URL path segment.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
