// Package mediasvc holds the core.ImageStore implementations.
package mediasvc

import (
	"context"
	"strings"
	"sync"

	"github.com/lumen-youth/lumen/core"
)

// MemoryStore keeps uploaded images in memory; for local development & tests.
type MemoryStore struct {
	baseURL string
	mu      sync.RWMutex
	images  map[string]core.Image
}

var _ core.ImageStore = (*MemoryStore)(nil)

func NewMemoryStore(conf *core.Config) *MemoryStore {
	baseURL := strings.TrimRight(conf.Media.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = "http://" + conf.Server.Host + "/media"
	}
	return &MemoryStore{baseURL: baseURL, images: make(map[string]core.Image)}
}

func (st *MemoryStore) Put(_ context.Context, img core.Image) (string, error) {
	st.mu.Lock()
	st.images[img.Key] = img
	st.mu.Unlock()
	return st.baseURL + "/" + img.Key, nil
}

// Get returns a stored image by key.
func (st *MemoryStore) Get(key string) (core.Image, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	img, ok := st.images[key]
	return img, ok
}
