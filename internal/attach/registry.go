package attach

import (
	"sync"

	"github.com/google/uuid"
)

const blobScheme = "blob:agentchat/"

type blob struct {
	data []byte
	mime string
}

// Registry maps blob-local URLs to in-memory bytes. It stands in for the
// browser's object-URL table: attachments never leave the process, previews
// and messages just hold a URL into this registry.
type Registry struct {
	mu    sync.Mutex
	blobs map[string]blob
}

// NewRegistry initializes an empty blob registry.
func NewRegistry() *Registry {
	return &Registry{blobs: make(map[string]blob)}
}

// Register stores the bytes and returns a blob-local URL for them.
func (r *Registry) Register(data []byte, mime string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	url := blobScheme + uuid.NewString()
	r.blobs[url] = blob{data: data, mime: mime}
	return url
}

// Get resolves a blob-local URL to its bytes and MIME type.
func (r *Registry) Get(url string) ([]byte, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blobs[url]
	return b.data, b.mime, ok
}

// Revoke frees one blob. Revoking an unknown URL is a no-op.
func (r *Registry) Revoke(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blobs, url)
}

// RevokeAll frees every blob.
func (r *Registry) RevokeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs = make(map[string]blob)
}

// Len reports how many blobs are registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blobs)
}
