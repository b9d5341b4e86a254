package store

import (
	"sort"
	"strconv"
	"strings"
)

// Prefixes is a file's alias table: one alias per namespace. The empty alias
// is the file's default namespace.
type Prefixes struct {
	byAlias     map[string]string
	byNamespace map[string]string
}

// NewPrefixes returns an empty table.
func NewPrefixes() *Prefixes {
	return &Prefixes{
		byAlias:     make(map[string]string),
		byNamespace: make(map[string]string),
	}
}

// Declare binds alias to namespace and returns the alias in use. A namespace
// that is already declared keeps its alias. An alias already bound to another
// namespace gets a numeric suffix.
func (p *Prefixes) Declare(alias, namespace string) string {
	if existing, ok := p.byNamespace[namespace]; ok {
		return existing
	}
	candidate := alias
	for i := 1; ; i++ {
		if _, taken := p.byAlias[candidate]; !taken {
			break
		}
		base := alias
		if base == "" {
			base = "ns"
		}
		candidate = base + strconv.Itoa(i)
	}
	p.byAlias[candidate] = namespace
	p.byNamespace[namespace] = candidate
	return candidate
}

// Alias returns the alias declared for namespace.
func (p *Prefixes) Alias(namespace string) (string, bool) {
	alias, ok := p.byNamespace[namespace]
	return alias, ok
}

// Namespace returns the namespace bound to alias.
func (p *Prefixes) Namespace(alias string) (string, bool) {
	ns, ok := p.byAlias[alias]
	return ns, ok
}

// Declared reports whether namespace has an alias.
func (p *Prefixes) Declared(namespace string) bool {
	_, ok := p.byNamespace[namespace]
	return ok
}

// Remove drops the declaration of namespace.
func (p *Prefixes) Remove(namespace string) {
	if alias, ok := p.byNamespace[namespace]; ok {
		delete(p.byAlias, alias)
		delete(p.byNamespace, namespace)
	}
}

// Map returns a copy of the table keyed by alias.
func (p *Prefixes) Map() map[string]string {
	out := make(map[string]string, len(p.byAlias))
	for alias, ns := range p.byAlias {
		out[alias] = ns
	}
	return out
}

// Aliases returns the declared aliases in sorted order.
func (p *Prefixes) Aliases() []string {
	out := make([]string, 0, len(p.byAlias))
	for alias := range p.byAlias {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of declarations.
func (p *Prefixes) Len() int { return len(p.byAlias) }

// DeriveAlias proposes an alias for a SAMM namespace such as
// "urn:samm:org.example.movement:1.0.0#": the last segment of the
// organisation part, "movement". Other namespaces yield "ns".
func DeriveAlias(namespace string) string {
	parts := strings.Split(strings.TrimSuffix(namespace, "#"), ":")
	if len(parts) < 3 || parts[0] != "urn" {
		return "ns"
	}
	org := parts[2]
	if i := strings.LastIndexByte(org, '.'); i >= 0 {
		org = org[i+1:]
	}
	org = strings.ToLower(org)
	if org == "" || !isAliasName(org) {
		return "ns"
	}
	return org
}

func isAliasName(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '_'):
		default:
			return false
		}
	}
	return true
}
