package github

import (
	"sync"

	"github.com/m-mizutani/ghrelease/pkg/domain/interfaces"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
)

// ClientFactory builds a client for a host
type ClientFactory func(host string, cred model.Credentials, opts ...Option) interfaces.ReleaseClient

// Registry caches one client per host. An entry is written once and never
// replaced, so every caller for a host shares the same client.
type Registry struct {
	mu      sync.Mutex
	clients map[string]interfaces.ReleaseClient
	factory ClientFactory
	opts    []Option
}

// NewRegistry creates an empty registry; opts are applied to every client it builds
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		clients: make(map[string]interfaces.ReleaseClient),
		factory: NewClient,
		opts:    opts,
	}
}

// NewRegistryWithFactory creates a registry that builds clients with factory
func NewRegistryWithFactory(factory ClientFactory, opts ...Option) *Registry {
	r := NewRegistry(opts...)
	r.factory = factory
	return r
}

// GetOrCreate returns the cached client for host or builds one with cred.
// A later call with different credentials for the same host still returns
// the first client.
func (r *Registry) GetOrCreate(host string, cred model.Credentials) interfaces.ReleaseClient {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[host]; ok {
		return c
	}

	c := r.factory(host, cred, r.opts...)
	r.clients[host] = c
	return c
}
