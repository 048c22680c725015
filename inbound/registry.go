package inbound

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-lifegateway/core"
)

type Verifier interface {
	Verify(ctx context.Context, req core.InboundRequest) error
}

type wildcardEntry struct {
	pattern Pattern
	factory core.ExecutorFactory
}

// Registry maps action keys to executor factories. It is safe for concurrent
// use; registration normally completes before the first lookup.
type Registry struct {
	mu        sync.RWMutex
	exact     map[core.ActionKey]core.ExecutorFactory
	wildcards []wildcardEntry
}

func NewRegistry() *Registry {
	return &Registry{exact: map[core.ActionKey]core.ExecutorFactory{}}
}

func (r *Registry) Register(pattern Pattern, factory core.ExecutorFactory) error {
	if r == nil {
		return kindInternal.new("inbound: registry is nil", nil)
	}
	if factory == nil {
		return kindBadInput.new("inbound: executor factory is nil", map[string]any{"pattern": pattern.String()})
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.exact == nil {
		r.exact = map[core.ActionKey]core.ExecutorFactory{}
	}

	if key, ok := pattern.Key(); ok {
		if _, exists := r.exact[key]; exists {
			return kindConflict.new(
				fmt.Sprintf("inbound: executor already registered for %s", key),
				map[string]any{"pattern": pattern.String()},
			)
		}
		r.exact[key] = factory
		return nil
	}

	for _, entry := range r.wildcards {
		if entry.pattern == pattern {
			return kindConflict.new(
				fmt.Sprintf("inbound: executor already registered for %s", pattern),
				map[string]any{"pattern": pattern.String()},
			)
		}
		if entry.pattern.Specificity() == pattern.Specificity() && entry.pattern.Overlaps(pattern) {
			return kindConflict.new(
				fmt.Sprintf("inbound: pattern %s is ambiguous with %s", pattern, entry.pattern),
				map[string]any{"pattern": pattern.String(), "existing": entry.pattern.String()},
			)
		}
	}
	r.wildcards = append(r.wildcards, wildcardEntry{pattern: pattern, factory: factory})
	return nil
}

// MustRegister panics on registration errors. Intended for static route tables.
func (r *Registry) MustRegister(pattern Pattern, factory core.ExecutorFactory) {
	if err := r.Register(pattern, factory); err != nil {
		panic(err)
	}
}

// Lookup returns the exact registration for key, else the most specific
// matching wildcard, else a NoHandlerRegistered error.
func (r *Registry) Lookup(key core.ActionKey) (core.ExecutorFactory, error) {
	if r == nil {
		return nil, core.NewNoHandlerRegisteredError(key)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if factory, ok := r.exact[key]; ok {
		return factory, nil
	}
	best := -1
	var selected core.ExecutorFactory
	for _, entry := range r.wildcards {
		if !entry.pattern.Matches(key) {
			continue
		}
		if specificity := entry.pattern.Specificity(); specificity > best {
			best = specificity
			selected = entry.factory
		}
	}
	if selected == nil {
		return nil, core.NewNoHandlerRegisteredError(key)
	}
	return selected, nil
}

// Resolve derives the action key of req and looks it up.
func (r *Registry) Resolve(req core.InboundRequest) (core.ActionKey, core.ExecutorFactory, error) {
	key, err := Resolve(req)
	if err != nil {
		return key, nil, err
	}
	factory, err := r.Lookup(key)
	return key, factory, err
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.exact) + len(r.wildcards)
}
