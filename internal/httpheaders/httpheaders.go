// Package httpheaders holds the fixed headers sent with every IDE request.
package httpheaders

import (
	"net/http"
	"sort"
	"strings"
)

// Headers is an immutable header set built once from configuration. Names
// are canonicalized, so entries differing only in case are one header.
type Headers struct {
	h http.Header
}

// New builds a set from configured name/value pairs. Blank names are
// skipped. When names collide after canonicalization, the one that sorts
// last wins.
func New(configured map[string]string) Headers {
	names := make([]string, 0, len(configured))
	for name := range configured {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	h := make(http.Header, len(names))
	for _, name := range names {
		h.Set(strings.TrimSpace(name), configured[name])
	}
	return Headers{h: h}
}

// With returns a copy of the set with name set to value.
func (s Headers) With(name, value string) Headers {
	h := s.h.Clone()
	if h == nil {
		h = make(http.Header, 1)
	}
	h.Set(name, value)
	return Headers{h: h}
}

// Get returns the value of name.
func (s Headers) Get(name string) string {
	return s.h.Get(name)
}

// Len reports how many headers the set holds.
func (s Headers) Len() int {
	return len(s.h)
}

// Apply sets every header of the set on req, replacing values req already
// carries under the same name.
func (s Headers) Apply(req *http.Request) {
	for name, values := range s.h {
		req.Header[name] = append([]string(nil), values...)
	}
}
