// Package kvstore is the persisted flag capability the pipeline core depends
// on: a string→string store for "seen milestone" markers and contact-protocol
// preferences. Injecting it keeps the core testable without a real backend.
package kvstore

import (
	"context"
	"strings"
	"sync"
)

// AppPrefix namespaces every persisted key. Keys take the shape
// <prefix>_<feature>_<qualifier>, identical across store implementations so
// a flag written against one backend is readable through another.
const AppPrefix = "pipetrack"

// Key joins the application prefix with feature-qualified parts.
func Key(parts ...string) string {
	return AppPrefix + "_" + strings.Join(parts, "_")
}

// Store is a minimal persisted key/value capability. Get reports absence via
// the second return instead of an error. Last write wins; a given viewer is
// expected to act from a single interactive session at a time.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Memory is an in-process Store for tests and single-run tools.
type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (s *Memory) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Memory) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}
