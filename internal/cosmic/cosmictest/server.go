// Package cosmictest serves an in-memory bucket over the same REST contract
// as the hosted API, for tests.
package cosmictest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/templui/cosmicblog/internal/cosmic"
)

const (
	BucketSlug = "test-bucket"
	ReadKey    = "test-read-key"
)

// Object is a raw bucket object as the API would return it.
type Object map[string]any

func newObject(kind, id, slug, title string) Object {
	return Object{
		"id":         id,
		"slug":       slug,
		"title":      title,
		"type":       kind,
		"status":     "published",
		"created_at": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
		"metadata":   map[string]any{},
	}
}

func Post(id, slug, title string) Object {
	return newObject("posts", id, slug, title)
}

func Author(id, slug, title string) Object {
	return newObject("authors", id, slug, title)
}

func Category(id, slug, title string) Object {
	return newObject("categories", id, slug, title)
}

// Meta sets a metadata field. Objects passed as values are embedded the way
// depth=1 expansion embeds them.
func (o Object) Meta(key string, value any) Object {
	o["metadata"].(map[string]any)[key] = value
	return o
}

func (o Object) Created(t time.Time) Object {
	o["created_at"] = t.UTC().Format(time.RFC3339)
	return o
}

func (o Object) Published(t time.Time) Object {
	o["published_at"] = t.UTC().Format(time.RFC3339)
	return o
}

func (o Object) Set(key string, value any) Object {
	o[key] = value
	return o
}

// Server is a fake bucket. Unmatched queries answer 404 like the hosted API.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	objects    []Object
	failStatus int
	requests   atomic.Int32
	lastQuery  map[string]string
	lastDepth  int
}

func NewServer(t testing.TB, objects ...Object) *Server {
	t.Helper()

	s := &Server{objects: objects}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serveObjects))
	t.Cleanup(s.Close)
	return s
}

// ContentClient returns a client pointed at this server.
func (s *Server) ContentClient() *cosmic.Client {
	return cosmic.NewClient(cosmic.Config{
		BaseURL:    s.URL,
		BucketSlug: BucketSlug,
		ReadKey:    ReadKey,
		HTTPClient: s.Server.Client(),
	})
}

// Fail makes every following request answer with status. Zero restores normal service.
func (s *Server) Fail(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

func (s *Server) Add(objects ...Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, objects...)
}

func (s *Server) Requests() int {
	return int(s.requests.Load())
}

// LastQuery returns the decoded query filter of the most recent request.
func (s *Server) LastQuery() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

func (s *Server) LastDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDepth
}

func (s *Server) serveObjects(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)

	if r.Method != http.MethodGet || r.URL.Path != "/buckets/"+BucketSlug+"/objects" {
		writeError(w, http.StatusNotFound, "unknown endpoint")
		return
	}

	params := r.URL.Query()
	if params.Get("read_key") != ReadKey {
		writeError(w, http.StatusUnauthorized, "invalid read key")
		return
	}

	var filter map[string]string
	err := json.Unmarshal([]byte(params.Get("query")), &filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query")
		return
	}
	depth, _ := strconv.Atoi(params.Get("depth"))
	limit, _ := strconv.Atoi(params.Get("limit"))

	s.mu.Lock()
	s.lastQuery = filter
	s.lastDepth = depth
	failStatus := s.failStatus
	objects := append([]Object(nil), s.objects...)
	s.mu.Unlock()

	if failStatus != 0 {
		writeError(w, failStatus, http.StatusText(failStatus))
		return
	}

	var matched []Object
	for _, obj := range objects {
		if matches(obj, filter) {
			matched = append(matched, render(obj, depth))
		}
	}

	if len(matched) == 0 {
		writeError(w, http.StatusNotFound, "No objects found for your query")
		return
	}

	total := len(matched)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"objects": matched,
		"total":   total,
		"limit":   limit,
		"skip":    0,
	})
}

func matches(obj Object, filter map[string]string) bool {
	for key, want := range filter {
		var got any
		if field, ok := strings.CutPrefix(key, "metadata."); ok {
			got = obj["metadata"].(map[string]any)[field]
		} else {
			got = obj[key]
		}
		if refID(got) != want {
			return false
		}
	}
	return true
}

// refID reduces an embedded object to its id so metadata filters compare ids.
func refID(value any) string {
	switch v := value.(type) {
	case Object:
		return fmt.Sprint(v["id"])
	case map[string]any:
		return fmt.Sprint(v["id"])
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// render collapses embedded objects to bare ids when depth is zero.
func render(obj Object, depth int) Object {
	out := Object{}
	for key, value := range obj {
		out[key] = value
	}
	metadata := map[string]any{}
	for key, value := range obj["metadata"].(map[string]any) {
		if depth == 0 && isRelation(value) {
			metadata[key] = refID(value)
			continue
		}
		metadata[key] = value
	}
	out["metadata"] = metadata
	return out
}

func isRelation(value any) bool {
	var m map[string]any
	switch v := value.(type) {
	case Object:
		m = v
	case map[string]any:
		m = v
	default:
		return false
	}
	_, ok := m["id"]
	return ok
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  status,
		"message": message,
	})
}
