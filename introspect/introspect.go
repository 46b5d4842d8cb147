// Package introspect serves a read-only HTTP view of a cascade engine. It
// reads only snapshots published by the owning goroutine (see
// cascade.SnapshotCache), never the engine itself, so it is safe to serve
// from any number of server goroutines.
package introspect

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GoCodeAlone/cascade"
)

// Handler builds the introspection router over cache:
//
//	GET /events        every event view
//	GET /events/{name} one event view (404 when unknown)
//	GET /queues        dispatcher/inbound/tracker depths
//	GET /snapshot      the full snapshot
//
// Before the first snapshot is published every route answers 503.
func Handler(cache *cascade.SnapshotCache) http.Handler {
	r := chi.NewRouter()
	r.Get("/snapshot", func(w http.ResponseWriter, req *http.Request) {
		s, ok := loaded(w, cache)
		if !ok {
			return
		}
		writeJSON(w, s)
	})
	r.Get("/events", func(w http.ResponseWriter, req *http.Request) {
		s, ok := loaded(w, cache)
		if !ok {
			return
		}
		writeJSON(w, s.Events)
	})
	r.Get("/events/{name}", func(w http.ResponseWriter, req *http.Request) {
		s, ok := loaded(w, cache)
		if !ok {
			return
		}
		view, ok := s.Event(chi.URLParam(req, "name"))
		if !ok {
			http.NotFound(w, req)
			return
		}
		writeJSON(w, view)
	})
	r.Get("/queues", func(w http.ResponseWriter, req *http.Request) {
		s, ok := loaded(w, cache)
		if !ok {
			return
		}
		writeJSON(w, s.Queues)
	})
	return r
}

func loaded(w http.ResponseWriter, cache *cascade.SnapshotCache) (*cascade.Snapshot, bool) {
	s := cache.Load()
	if s == nil {
		http.Error(w, "no snapshot published yet", http.StatusServiceUnavailable)
		return nil, false
	}
	return s, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
