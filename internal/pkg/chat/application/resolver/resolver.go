// Package resolver derives chat type, title, and implicit participants from the business
// context a chat is created for. Each context kind has one independent resolver; the Registry
// dispatches on the kind tag.
package resolver

import (
	"context"
	"fmt"
	"sort"

	chat "ucoa-chat/internal/pkg/chat/application/domain"
)

// Resolver derives a ResolvedContext from the current state of one context kind.
// Implementations only read; they never mutate the context.
type Resolver interface {
	Kind() chat.ContextKind
	Resolve(ctx context.Context, ref chat.ContextRef, requestedBy int64) (chat.ResolvedContext, error)
}

// Registry maps context kinds to resolvers. It is built once at startup and never
// mutated afterwards, so concurrent Resolve calls need no locking.
type Registry struct {
	resolvers map[chat.ContextKind]Resolver
}

// NewRegistry registers resolvers by their Kind. Registering a kind twice is a wiring bug.
func NewRegistry(resolvers ...Resolver) (*Registry, error) {
	m := make(map[chat.ContextKind]Resolver, len(resolvers))
	for _, r := range resolvers {
		if r == nil {
			continue
		}
		if _, dup := m[r.Kind()]; dup {
			return nil, fmt.Errorf("resolver: kind %q registered twice", r.Kind())
		}
		m[r.Kind()] = r
	}
	return &Registry{resolvers: m}, nil
}

// Resolve dispatches to the resolver registered for ref.Kind.
// The dedup key is always derived from ref, never from resolver output.
func (r *Registry) Resolve(ctx context.Context, ref chat.ContextRef, requestedBy int64) (chat.ResolvedContext, error) {
	res, ok := r.resolvers[ref.Kind]
	if !ok {
		return chat.ResolvedContext{}, fmt.Errorf("%w: %q", chat.ErrUnsupportedContextKind, ref.Kind)
	}
	resolved, err := res.Resolve(ctx, ref, requestedBy)
	if err != nil {
		return chat.ResolvedContext{}, err
	}
	resolved.DedupKey = ref.DedupKey()
	return resolved, nil
}

// Supports reports whether kind has a registered resolver.
func (r *Registry) Supports(kind chat.ContextKind) bool {
	_, ok := r.resolvers[kind]
	return ok
}

// Kinds lists registered kinds in lexical order.
func (r *Registry) Kinds() []chat.ContextKind {
	kinds := make([]chat.ContextKind, 0, len(r.resolvers))
	for k := range r.resolvers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func titlePtr(format string, args ...any) *string {
	s := fmt.Sprintf(format, args...)
	return &s
}
