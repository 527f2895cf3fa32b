// Package registrytest runs an in-memory npm registry on httptest for
// exercising dist-tag reads and revision-checked writes.
package registrytest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// Put records one write the registry accepted or rejected.
type Put struct {
	Path     string // escaped request path
	Rev      string // revision named in the path
	DistTags map[string]string
	Body     map[string]any
}

type document struct {
	id   string
	seq  int
	hash string
	tags map[string]string
}

func (d *document) rev() string {
	return fmt.Sprintf("%d-%s", d.seq, d.hash)
}

// Registry is a fake npm registry.
type Registry struct {
	Server *httptest.Server

	mu        sync.Mutex
	docs      map[string]*document
	puts      []Put
	gets      int
	putReply  string
	authToken string
	lastAuth  string
}

// New starts a registry that is closed when the test ends.
func New(t testing.TB) *Registry {
	r := &Registry{docs: make(map[string]*document)}
	r.Server = httptest.NewServer(http.HandlerFunc(r.serve))
	t.Cleanup(r.Server.Close)
	return r
}

// URL returns the registry base URL with a trailing slash.
func (r *Registry) URL() string {
	return r.Server.URL + "/"
}

// AddPackage publishes a package document with the given dist-tags at
// revision "1-a1b2c3".
func (r *Registry) AddPackage(name string, tags map[string]string) {
	r.AddPackageAt(name, "1-a1b2c3", tags)
}

// AddPackageAt publishes a package document at a specific revision.
// rev must look like "<n>-<hash>".
func (r *Registry) AddPackageAt(name, rev string, tags map[string]string) {
	var seq int
	var hash string
	if _, err := fmt.Sscanf(strings.Replace(rev, "-", " ", 1), "%d %s", &seq, &hash); err != nil {
		panic(fmt.Sprintf("registrytest: bad revision %q", rev))
	}

	cp := make(map[string]string, len(tags))
	for k, v := range tags {
		cp[k] = v
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[name] = &document{id: name, seq: seq, hash: hash, tags: cp}
}

// RequireToken makes every request without "Bearer <token>" fail with 401.
func (r *Registry) RequireToken(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authToken = token
}

// ReplyToPuts makes successful writes answer with body instead of the
// usual {"ok":true} document. The write is still applied.
func (r *Registry) ReplyToPuts(body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putReply = body
}

// Tags returns a copy of the current dist-tags of a package.
func (r *Registry) Tags(name string) map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[name]
	if !ok {
		return nil
	}
	cp := make(map[string]string, len(doc.tags))
	for k, v := range doc.tags {
		cp[k] = v
	}
	return cp
}

// Rev returns the current revision of a package document.
func (r *Registry) Rev(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc, ok := r.docs[name]; ok {
		return doc.rev()
	}
	return ""
}

// Puts returns every write received so far.
func (r *Registry) Puts() []Put {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Put(nil), r.puts...)
}

// Gets returns the number of document reads served.
func (r *Registry) Gets() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gets
}

// LastAuth returns the Authorization header of the latest request.
func (r *Registry) LastAuth() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastAuth
}

func (r *Registry) serve(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastAuth = req.Header.Get("Authorization")
	if r.authToken != "" && r.lastAuth != "Bearer "+r.authToken {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return
	}

	path := strings.TrimPrefix(req.URL.EscapedPath(), "/")
	escapedName, rev, hasRev := strings.Cut(path, "/-rev/")
	name, err := url.PathUnescape(escapedName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_request"})
		return
	}

	doc, ok := r.docs[name]

	switch {
	case req.Method == http.MethodGet && !hasRev:
		r.gets++
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "not_found", "reason": "document not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"_id":       doc.id,
			"_rev":      doc.rev(),
			"name":      doc.id,
			"dist-tags": doc.tags,
			"versions":  map[string]any{},
		})

	case req.Method == http.MethodPut && hasRev:
		var body map[string]any
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_request"})
			return
		}
		put := Put{Path: path, Rev: rev, Body: body, DistTags: stringMap(body["dist-tags"])}
		r.puts = append(r.puts, put)

		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "not_found"})
			return
		}
		if rev != doc.rev() || body["_rev"] != doc.rev() {
			writeJSON(w, http.StatusConflict, map[string]any{"error": "conflict", "reason": "Document update conflict."})
			return
		}

		doc.tags = put.DistTags
		doc.seq++
		if r.putReply != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(r.putReply))
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": doc.id, "rev": doc.rev()})

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method_not_allowed"})
	}
}

func stringMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
