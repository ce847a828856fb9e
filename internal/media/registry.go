// Package media turns fetched video payloads into revocable handles.
//
// A handle is a file on disk that an external player can open. The registry
// holds at most one live handle per artifact kind; creating a new one for a
// kind releases the previous one, and releasing deletes the file.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/abelbrown/signgen/internal/config"
	"github.com/abelbrown/signgen/internal/logging"
)

// Handle is a displayable resource backed by a temporary file.
type Handle struct {
	ID   string
	Kind config.Kind
	Word string
	Path string
	Size int
}

// Registry owns the live handles.
type Registry struct {
	mu   sync.Mutex
	dir  string
	live map[config.Kind]*Handle
}

// NewRegistry creates a Registry writing handles under dir.
// An empty dir uses the system temp directory.
func NewRegistry(dir string) (*Registry, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Registry{dir: dir, live: make(map[config.Kind]*Handle)}, nil
}

// Replace creates a handle for payload and then releases the handle it
// supersedes. If the new handle cannot be created the old one stays live.
func (r *Registry) Replace(kind config.Kind, word string, payload []byte) (*Handle, error) {
	id := uuid.NewString()
	f, err := os.CreateTemp(r.dir, fmt.Sprintf("signgen-%s-*-%s.mp4", kind, id[:8]))
	if err != nil {
		return nil, fmt.Errorf("create handle: %w", err)
	}
	if _, err := f.Write(payload); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("write handle: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("close handle: %w", err)
	}

	h := &Handle{ID: id, Kind: kind, Word: word, Path: f.Name(), Size: len(payload)}

	r.mu.Lock()
	prev := r.live[kind]
	r.live[kind] = h
	r.mu.Unlock()

	if prev != nil {
		release(prev)
	}
	logging.Debug("media: handle created", "kind", kind, "word", word, "path", filepath.Base(h.Path))
	return h, nil
}

// Get returns the live handle of kind, if any.
func (r *Registry) Get(kind config.Kind) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.live[kind]
	return h, ok
}

// Release deletes the live handle of kind.
func (r *Registry) Release(kind config.Kind) {
	r.mu.Lock()
	h := r.live[kind]
	delete(r.live, kind)
	r.mu.Unlock()

	if h != nil {
		release(h)
	}
}

// ReleaseAll deletes every live handle.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	handles := make([]*Handle, 0, len(r.live))
	for k, h := range r.live {
		handles = append(handles, h)
		delete(r.live, k)
	}
	r.mu.Unlock()

	for _, h := range handles {
		release(h)
	}
}

// Live returns the number of live handles.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

func release(h *Handle) {
	if err := os.Remove(h.Path); err != nil && !os.IsNotExist(err) {
		logging.Warn("media: release failed", "kind", h.Kind, "path", h.Path, "error", err)
	}
}
