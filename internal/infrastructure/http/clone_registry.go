package httpinfra

import (
	"errors"
	"net/http"
	"sync"
)

// ErrNotClonable is returned when a request body cannot be re-read. Such
// requests can only be retried by method-based reconstruction (GET/HEAD).
var ErrNotClonable = errors.New("request body not clonable")

// CloneRegistry maps an in-flight request to a pristine, unread clone taken
// at send time. A body-bearing request can be read exactly once by the
// transport, so any replay must come from this independent copy.
//
// Entries are inserted when the gateway client authenticates a request and
// consumed exactly once: either abandoned on normal completion or taken by
// the replay path.
type CloneRegistry struct {
	mu     sync.Mutex
	clones map[string]*http.Request
}

// NewCloneRegistry creates an empty registry.
func NewCloneRegistry() *CloneRegistry {
	return &CloneRegistry{clones: make(map[string]*http.Request)}
}

// Register snapshots a replayable clone of req under id. Requests with a
// streaming body that cannot be re-opened return ErrNotClonable and leave
// the registry unchanged.
func (r *CloneRegistry) Register(id string, req *http.Request) error {
	clone := req.Clone(req.Context())

	if req.Body != nil {
		if req.GetBody == nil {
			return ErrNotClonable
		}
		body, err := req.GetBody()
		if err != nil {
			return ErrNotClonable
		}
		clone.Body = body
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.clones[id] = clone
	return nil
}

// Consume removes and returns the clone for id.
func (r *CloneRegistry) Consume(id string) (*http.Request, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone, ok := r.clones[id]
	if ok {
		delete(r.clones, id)
	}
	return clone, ok
}

// Abandon drops the clone for id without using it. Called on normal request
// completion so entries do not outlive their request.
func (r *CloneRegistry) Abandon(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clones, id)
}

// Len returns the number of live entries; used by tests to verify the
// insert/consume lifecycle leaks nothing.
func (r *CloneRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clones)
}
