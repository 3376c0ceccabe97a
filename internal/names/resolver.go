// Package names maps worklist identifiers to canonical entity keys and display labels.
package names

import (
	"sort"

	"github.com/UnknownOlympus/labelmap/internal/models"
)

// EntityLookup is the part of the centroid store the resolver needs.
type EntityLookup interface {
	Lookup(key string) (models.Entity, error)
	Keys() []string
}

// Resolver applies the naming and label tables. It is immutable after construction.
type Resolver struct {
	naming map[string]string
	labels map[string]string
}

// NewResolver copies both tables into a new Resolver.
func NewResolver(naming, labels map[string]string) *Resolver {
	r := &Resolver{
		naming: make(map[string]string, len(naming)),
		labels: make(map[string]string, len(labels)),
	}
	for k, v := range naming {
		r.naming[k] = v
	}
	for k, v := range labels {
		r.labels[k] = v
	}
	return r
}

// Resolve returns the canonical key for input, or input itself when no naming fix exists.
func (r *Resolver) Resolve(input string) string {
	if canonical, ok := r.naming[input]; ok {
		return canonical
	}
	return input
}

// DisplayLabel returns the text drawn for canonical, defaulting to canonical.
func (r *Resolver) DisplayLabel(canonical string) string {
	if label, ok := r.labels[canonical]; ok {
		return label
	}
	return canonical
}

// Entity resolves input and fetches the entity from store. A miss is returned as
// *models.NotFoundError carrying the canonical key.
func (r *Resolver) Entity(input string, store EntityLookup) (models.Entity, error) {
	return store.Lookup(r.Resolve(input))
}

// Mismatch is a worklist entry whose canonical key is absent from the store.
type Mismatch struct {
	Entry     string // Entry is the worklist identifier.
	Canonical string // Canonical is the key it resolved to.
}

// Diagnostic is the non-fatal result of comparing a worklist with a store.
type Diagnostic struct {
	Unmatched []Mismatch // Unmatched are worklist entries missing from the store, in worklist order.
	Unused    []string   // Unused are store keys no worklist entry resolves to, sorted.
}

// OK reports whether every worklist entry was found.
func (d Diagnostic) OK() bool {
	return len(d.Unmatched) == 0
}

// Validate compares the resolved worklist with the store keys in both directions.
func (r *Resolver) Validate(worklist []string, store EntityLookup) Diagnostic {
	keys := store.Keys()
	known := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		known[key] = struct{}{}
	}

	var diag Diagnostic
	referenced := make(map[string]struct{}, len(worklist))
	for _, entry := range worklist {
		canonical := r.Resolve(entry)
		referenced[canonical] = struct{}{}
		if _, ok := known[canonical]; !ok {
			diag.Unmatched = append(diag.Unmatched, Mismatch{Entry: entry, Canonical: canonical})
		}
	}
	for _, key := range keys {
		if _, ok := referenced[key]; !ok {
			diag.Unused = append(diag.Unused, key)
		}
	}
	sort.Strings(diag.Unused)

	return diag
}
