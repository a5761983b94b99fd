package persona

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Registry.Lookup for unknown persona keys.
var ErrNotFound = errors.New("persona not found")

// Persona describes one discussion participant: a stable key, a display
// identity, the behavioral template shaping its tone, and a pool of canned
// lines used when the upstream generator cannot produce a reply.
type Persona struct {
	Key            string   `yaml:"key"`
	DisplayName    string   `yaml:"displayName"`
	Color          string   `yaml:"color"`
	PromptTemplate string   `yaml:"prompt"`
	FallbackPool   []string `yaml:"fallbacks"`
}

// Registry is an immutable persona catalog. It is built once at startup and
// is safe for unsynchronized concurrent reads.
type Registry struct {
	personas map[string]Persona
	order    []string
}

// NewRegistry builds a registry from the provided personas.
func NewRegistry(personas []Persona) (*Registry, error) {
	if len(personas) == 0 {
		return nil, errors.New("at least one persona must be provided")
	}

	byKey := make(map[string]Persona, len(personas))
	order := make([]string, 0, len(personas))
	for _, p := range personas {
		key := strings.TrimSpace(p.Key)
		if key == "" {
			return nil, errors.New("persona key must not be empty")
		}
		if p.DisplayName == "" {
			return nil, fmt.Errorf("persona %q: display name must not be empty", key)
		}
		if p.PromptTemplate == "" {
			return nil, fmt.Errorf("persona %q: prompt template must not be empty", key)
		}
		if _, exists := byKey[key]; exists {
			return nil, fmt.Errorf("duplicate persona key %q", key)
		}
		p.Key = key
		byKey[key] = p
		order = append(order, key)
	}

	return &Registry{personas: byKey, order: order}, nil
}

// Lookup returns the persona registered under key, or ErrNotFound.
func (r *Registry) Lookup(key string) (Persona, error) {
	p, ok := r.personas[key]
	if !ok {
		return Persona{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return p, nil
}

// Keys returns the persona keys in registration order.
func (r *Registry) Keys() []string {
	return append([]string{}, r.order...)
}
