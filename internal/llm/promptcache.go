package llm

import (
	"os"
	"sync"
)

// PromptCache caches prompt-file contents so operator-supplied templates are
// read from disk at most once. It is an explicit object owned by whoever
// wires the pipeline, with a defined invalidate operation, instead of ambient
// package state.
type PromptCache struct {
	mu    sync.RWMutex
	files map[string]string
}

func NewPromptCache() *PromptCache {
	return &PromptCache{files: make(map[string]string)}
}

// Get returns the cached contents of path, reading it on first use.
func (c *PromptCache) Get(path string) (string, error) {
	c.mu.RLock()
	cached, ok := c.files[path]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.files[path] = string(data)
	c.mu.Unlock()
	return string(data), nil
}

// GetOrDefault returns fallback when path is empty or unreadable.
func (c *PromptCache) GetOrDefault(path, fallback string) string {
	if path == "" {
		return fallback
	}
	text, err := c.Get(path)
	if err != nil || text == "" {
		return fallback
	}
	return text
}

// Clear drops all cached contents; the next Get re-reads from disk.
func (c *PromptCache) Clear() {
	c.mu.Lock()
	c.files = make(map[string]string)
	c.mu.Unlock()
}
