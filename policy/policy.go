// Package policy holds the allow-lists, alias tables and namespace rules
// that decide what sanitized PHP code may call and construct.
//
// A Policy is mutated while a program is walked: declared functions are
// added to the callable allow-list, "use" imports add aliases and namespace
// declarations move the current namespace. It is not safe for concurrent
// use. Callers sharing one configured policy between sessions should Clone
// it per session.
package policy

import (
	"maps"
	"strings"

	"github.com/risor-io/phpsandbox/errz"
	"github.com/risor-io/phpsandbox/internal/token"
)

// Separator is the PHP namespace separator.
const Separator = `\`

// Policy is the mutable allow-list state for one sanitization session.
type Policy struct {
	// RestrictGlobalNamespaceDeclarations rejects functions and constants
	// declared outside of any namespace.
	RestrictGlobalNamespaceDeclarations bool

	// RequiredNamespaceRoot, when set, is the namespace every namespace
	// declaration must equal or descend from.
	RequiredNamespaceRoot string

	callables       *nameSet
	types           *nameSet
	callableAliases map[string]string
	typeAliases     map[string]string
	namespace       string
}

// Option configures a Policy created with New.
type Option func(*Policy)

// WithRestrictGlobalNamespaceDeclarations sets the global namespace
// declaration restriction.
func WithRestrictGlobalNamespaceDeclarations(restrict bool) Option {
	return func(p *Policy) {
		p.RestrictGlobalNamespaceDeclarations = restrict
	}
}

// WithRequiredNamespaceRoot sets the namespace root that all namespace
// declarations must fall under.
func WithRequiredNamespaceRoot(root string) Option {
	return func(p *Policy) {
		p.RequiredNamespaceRoot = root
	}
}

// WithCallables adds names to the callable allow-list.
func WithCallables(names ...string) Option {
	return func(p *Policy) {
		p.callables.add(names...)
	}
}

// WithTypes adds names to the type allow-list.
func WithTypes(names ...string) Option {
	return func(p *Policy) {
		p.types.add(names...)
	}
}

// WithoutDefaults starts from empty allow-lists instead of the built-in
// catalogue. Options after it may still add names.
func WithoutDefaults() Option {
	return func(p *Policy) {
		p.callables = newNameSet()
		p.types = newNameSet()
	}
}

// New returns a Policy seeded with the default catalogue.
func New(options ...Option) *Policy {
	p := &Policy{
		callables:       newNameSet(defaultCallables...),
		types:           newNameSet(defaultTypes...),
		callableAliases: map[string]string{},
		typeAliases:     map[string]string{},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Clone returns an independent copy of the policy, including its allow-lists,
// aliases and current namespace.
func (p *Policy) Clone() *Policy {
	c := *p
	c.callables = p.callables.clone()
	c.types = p.types.clone()
	c.callableAliases = maps.Clone(p.callableAliases)
	c.typeAliases = maps.Clone(p.typeAliases)
	return &c
}

// Reset clears the per-file state: aliases and the current namespace. The
// allow-lists are kept.
func (p *Policy) Reset() {
	p.callableAliases = map[string]string{}
	p.typeAliases = map[string]string{}
	p.namespace = ""
}

// IsCallableAllowed reports whether name is on the callable allow-list.
// The comparison is exact and case-sensitive.
func (p *Policy) IsCallableAllowed(name string) bool {
	return p.callables.has(name)
}

// IsTypeAllowed reports whether name is on the type allow-list.
func (p *Policy) IsTypeAllowed(name string) bool {
	return p.types.has(name)
}

// AllowCallable adds a function name to the allow-list. Inside a namespace
// the name is qualified with it, as a function declared there would be.
func (p *Policy) AllowCallable(name string) {
	if p.namespace != "" {
		name = p.namespace + Separator + name
	}
	p.callables.add(name)
}

// AllowCallables adds several names with AllowCallable.
func (p *Policy) AllowCallables(names ...string) {
	for _, name := range names {
		p.AllowCallable(name)
	}
}

// AllowType adds a class name to the allow-list.
func (p *Policy) AllowType(name string) {
	p.types.add(name)
}

// SetAllowedCallables replaces the callable allow-list.
func (p *Policy) SetAllowedCallables(names []string) {
	p.callables = newNameSet(names...)
}

// SetAllowedTypes replaces the type allow-list.
func (p *Policy) SetAllowedTypes(names []string) {
	p.types = newNameSet(names...)
}

// Callables returns the callable allow-list in insertion order.
func (p *Policy) Callables() []string {
	return p.callables.list()
}

// Types returns the type allow-list in insertion order.
func (p *Policy) Types() []string {
	return p.types.list()
}

// AliasCallable records that alias refers to the function canonical.
func (p *Policy) AliasCallable(canonical, alias string) {
	p.callableAliases[alias] = canonical
}

// AliasType records that alias refers to the class canonical.
func (p *Policy) AliasType(canonical, alias string) {
	p.typeAliases[alias] = canonical
}

// CanonicalCallable substitutes a function alias, if name is one.
func (p *Policy) CanonicalCallable(name string) string {
	if canonical, ok := p.callableAliases[name]; ok {
		return canonical
	}
	return name
}

// CanonicalType substitutes a class alias, if name is one.
func (p *Policy) CanonicalType(name string) string {
	if canonical, ok := p.typeAliases[name]; ok {
		return canonical
	}
	return name
}

// CurrentNamespace returns the current namespace, or "" for the global
// namespace.
func (p *Policy) CurrentNamespace() string {
	return p.namespace
}

// SetNamespace moves the current namespace. A leading separator is ignored
// and an empty path means the global namespace. When a required root is
// configured, a namespace outside of it is a NamespaceScope violation and
// the current namespace is left unchanged. Use imports only apply to the
// namespace that declared them, so a successful move drops every alias.
func (p *Policy) SetNamespace(path string) error {
	path = strings.TrimLeft(path, Separator)
	if path != "" && p.RequiredNamespaceRoot != "" {
		root := strings.Trim(p.RequiredNamespaceRoot, Separator)
		if root != "" && path != root && !strings.HasPrefix(path, root+Separator) {
			return errz.Violationf(errz.NamespaceScope, token.NoPos,
				"Namespace %s is outside of allowed namespace %s", path, p.RequiredNamespaceRoot)
		}
	}
	p.namespace = path
	clear(p.callableAliases)
	clear(p.typeAliases)
	return nil
}

// nameSet is an insertion ordered set of names.
type nameSet struct {
	names []string
	index map[string]struct{}
}

func newNameSet(names ...string) *nameSet {
	s := &nameSet{index: make(map[string]struct{}, len(names))}
	s.add(names...)
	return s
}

func (s *nameSet) add(names ...string) {
	for _, name := range names {
		if _, ok := s.index[name]; ok {
			continue
		}
		s.index[name] = struct{}{}
		s.names = append(s.names, name)
	}
}

func (s *nameSet) has(name string) bool {
	_, ok := s.index[name]
	return ok
}

func (s *nameSet) list() []string {
	return append([]string(nil), s.names...)
}

func (s *nameSet) clone() *nameSet {
	return newNameSet(s.names...)
}
