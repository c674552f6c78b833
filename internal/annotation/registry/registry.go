// Package registry keeps the annotators a host process runs, keyed by
// pattern ID. Hosts running several pattern sets side by side register one
// annotator per ID; IDs are unique per registry.
package registry

import (
	"sort"
	"sync"

	"github.com/annotext/emoji-annotation-platform/internal/annotator"
	apperrors "github.com/annotext/emoji-annotation-platform/pkg/errors"
)

// Registry maps pattern IDs to annotators. Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	annotators map[string]*annotator.Annotator
	defaultID  string
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{annotators: make(map[string]*annotator.Annotator)}
}

// Register adds an annotator under its pattern ID. The first registration
// becomes the default. Registering an already-present ID fails with
// errors.ErrDuplicatePatternID.
func (r *Registry) Register(a *annotator.Annotator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := a.PatternID()
	if _, exists := r.annotators[id]; exists {
		return apperrors.Newf(apperrors.ErrDuplicatePatternID, 409, "pattern id %q", id)
	}
	r.annotators[id] = a
	if r.defaultID == "" {
		r.defaultID = id
	}
	return nil
}

// Replace swaps the annotator registered under its pattern ID, installing
// it if absent. Used when a pattern set's lookup table changes at runtime.
func (r *Registry) Replace(a *annotator.Annotator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := a.PatternID()
	r.annotators[id] = a
	if r.defaultID == "" {
		r.defaultID = id
	}
}

// Get resolves a pattern ID to its annotator. The empty ID resolves to the
// default annotator. Unknown IDs fail with errors.ErrUnknownPatternID.
func (r *Registry) Get(patternID string) (*annotator.Annotator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if patternID == "" {
		patternID = r.defaultID
	}
	a, ok := r.annotators[patternID]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrUnknownPatternID, 404, "pattern id %q", patternID)
	}
	return a, nil
}

// DefaultID returns the pattern ID of the default annotator, or the empty
// string for an empty registry.
func (r *Registry) DefaultID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultID
}

// IDs returns the registered pattern IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.annotators))
	for id := range r.annotators {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered annotators.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.annotators)
}
