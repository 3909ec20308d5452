package api

import (
	"github.com/solvtools/poolopt/pkg/constraint"
)

// Link is a directed, constrained relationship from a package to a target
// package name. Links are immutable once attached to a package.
type Link struct {
	Target     string
	Constraint constraint.Constraint
}

func (l Link) String() string {
	return l.Target + " " + l.Constraint.String()
}

// Package is a single candidate unit in a pool. ID is the pool identity:
// it is assigned on pool construction, stays stable for the lifetime of the
// pool and is the sole removal key. Name and version are not unique across
// a pool because aliases and replacements may collide.
type Package struct {
	ID      int
	Name    string
	Version string
	// AliasOf holds the identity of the aliased package when this entry is
	// an alias variant, 0 otherwise. It is a weak reference, resolved
	// through the pool, never a second owner of the target's data.
	AliasOf   int
	Requires  []Link
	Conflicts []Link
	Replaces  []Link
	Provides  []Link
}

func (p *Package) String() string {
	return p.Name + "-" + p.Version
}

// Names returns every name under which the package can show up as a
// provider: its own name plus all provide and replace targets, deduplicated
// in declaration order.
func (p *Package) Names() []string {
	names := []string{p.Name}
	seen := map[string]bool{p.Name: true}
	for _, links := range [][]Link{p.Provides, p.Replaces} {
		for _, link := range links {
			if seen[link.Target] {
				continue
			}
			seen[link.Target] = true
			names = append(names, link.Target)
		}
	}
	return names
}

// Pool is the ordered candidate universe handed to the solver, plus a side
// list of packages excluded for unrelated reasons (unacceptable, fixed or
// locked elsewhere). The stored order is solver-significant.
type Pool struct {
	packages []*Package
	byID     map[int]*Package
	excluded []*Package
}

// NewPool builds a pool over the given packages. Identities are assigned to
// packages which do not carry one yet; already-assigned identities are kept
// so a pool rebuilt from a filtered package list stays identity-compatible
// with its source.
func NewPool(packages []*Package, excluded []*Package) *Pool {
	pool := &Pool{
		packages: packages,
		byID:     map[int]*Package{},
		excluded: excluded,
	}
	nextID := 1
	for _, pkg := range packages {
		if pkg.ID >= nextID {
			nextID = pkg.ID + 1
		}
	}
	for _, pkg := range packages {
		if pkg.ID == 0 {
			pkg.ID = nextID
			nextID++
		}
		pool.byID[pkg.ID] = pkg
	}
	return pool
}

// Packages returns the pool's packages in stored order.
func (p *Pool) Packages() []*Package {
	return p.packages
}

// Package looks a package up by identity, nil if absent.
func (p *Pool) Package(id int) *Package {
	return p.byID[id]
}

// Excluded returns the side list of packages this stage never touches.
func (p *Pool) Excluded() []*Package {
	return p.excluded
}

func (p *Pool) Size() int {
	return len(p.packages)
}

// Requirement is a single top-level requirement of a request.
type Requirement struct {
	Name       string
	Constraint constraint.Constraint
}

// Request carries the caller's top-level required package names with their
// constraints and the packages the caller has already pinned. It is
// read-only input for the optimizer.
type Request struct {
	order    []string
	requires map[string]constraint.Constraint
	fixed    []*Package
}

func NewRequest() *Request {
	return &Request{requires: map[string]constraint.Constraint{}}
}

// Require records a top-level requirement. Names are unique, a repeated
// name overwrites the earlier constraint.
func (r *Request) Require(name string, c constraint.Constraint) {
	if _, exists := r.requires[name]; !exists {
		r.order = append(r.order, name)
	}
	r.requires[name] = c
}

// Fix pins a package; fixed packages are treated as exact-version
// requirements on their own name.
func (r *Request) Fix(pkg *Package) {
	r.fixed = append(r.fixed, pkg)
}

// Requirements returns the top-level requirements in insertion order.
func (r *Request) Requirements() []Requirement {
	reqs := make([]Requirement, 0, len(r.order))
	for _, name := range r.order {
		reqs = append(reqs, Requirement{Name: name, Constraint: r.requires[name]})
	}
	return reqs
}

func (r *Request) FixedPackages() []*Package {
	return r.fixed
}
