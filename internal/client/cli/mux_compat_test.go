package cli

import (
	"net/http"
	"strings"
)

// methodMux serves Go 1.22-style "METHOD /path" patterns on toolchains whose
// http.ServeMux does not understand method-qualified patterns.
type methodMux struct {
	routes map[string]http.HandlerFunc
}

func newMethodMux() *methodMux {
	return &methodMux{routes: map[string]http.HandlerFunc{}}
}

func (m *methodMux) HandleFunc(pattern string, h func(http.ResponseWriter, *http.Request)) {
	m.routes[pattern] = h
}

func (m *methodMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := m.routes[r.Method+" "+r.URL.Path]; ok {
		h(w, r)
		return
	}
	for pattern := range m.routes {
		if strings.HasSuffix(pattern, " "+r.URL.Path) {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
	}
	http.NotFound(w, r)
}
