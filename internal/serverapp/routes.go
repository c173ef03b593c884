package serverapp

import (
	"net/http"
	"sort"
	"strings"
)

type RouteDoc struct {
	Methods     []string `json:"methods"`
	Pattern     string   `json:"pattern"`
	Summary     string   `json:"summary,omitempty"`
	ExampleBody string   `json:"example_body,omitempty"`
}

type RouteRegistry struct {
	routes []RouteDoc
}

func (rr *RouteRegistry) Add(doc RouteDoc) {
	rr.routes = append(rr.routes, doc)
}

// List returns the documented routes sorted by pattern.
func (rr *RouteRegistry) List() []RouteDoc {
	out := make([]RouteDoc, len(rr.routes))
	copy(out, rr.routes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Pattern < out[j].Pattern })
	return out
}

// Handle registers h on mux and documents it. methods is a space separated
// list such as "GET POST".
func Handle(mux *http.ServeMux, rr *RouteRegistry, methods, pattern, summary, exampleBody string, h http.HandlerFunc) {
	rr.Add(RouteDoc{Methods: strings.Fields(methods), Pattern: pattern, Summary: summary, ExampleBody: exampleBody})
	mux.HandleFunc(pattern, h)
}
