package constraint

import (
	"sort"
	"strings"

	"github.com/solvtools/poolopt/pkg/version"
)

type Op string

const (
	OpEq Op = "=="
	OpNe Op = "!="
	OpGt Op = ">"
	OpGe Op = ">="
	OpLt Op = "<"
	OpLe Op = "<="
)

// Constraint is an immutable predicate over package versions. Two
// constraints are considered identical iff their canonical string forms
// match after Compact.
type Constraint interface {
	String() string
	// Matches reports whether the exact version satisfies the predicate.
	Matches(ver string) bool
}

// Any matches every version.
type Any struct{}

func (Any) String() string { return "*" }

func (Any) Matches(string) bool { return true }

// Leaf is a single operator/version predicate.
type Leaf struct {
	Op      Op
	Version string
}

// Exact returns the constraint matching exactly the given version.
func Exact(ver string) Leaf {
	return Leaf{Op: OpEq, Version: ver}
}

func (l Leaf) String() string { return string(l.Op) + " " + l.Version }

func (l Leaf) Matches(ver string) bool {
	cmp := version.Compare(ver, l.Version)
	switch l.Op {
	case OpEq:
		return cmp == 0
	case OpNe:
		return cmp != 0
	case OpGt:
		return cmp > 0
	case OpGe:
		return cmp >= 0
	case OpLt:
		return cmp < 0
	case OpLe:
		return cmp <= 0
	}
	return false
}

// And matches versions accepted by all of its parts.
type And []Constraint

func (a And) String() string { return "[" + joinParts(a, " ") + "]" }

func (a And) Matches(ver string) bool {
	for _, c := range a {
		if !c.Matches(ver) {
			return false
		}
	}
	return true
}

// Or matches versions accepted by at least one of its parts.
type Or []Constraint

func (o Or) String() string { return "[" + joinParts(o, " || ") + "]" }

func (o Or) Matches(ver string) bool {
	for _, c := range o {
		if c.Matches(ver) {
			return true
		}
	}
	return false
}

// OrOf combines two constraints as alternatives without any simplification,
// appending to an existing disjunct list where possible.
func OrOf(a Constraint, b Constraint) Constraint {
	if disjuncts, ok := a.(Or); ok {
		return append(append(Or{}, disjuncts...), b)
	}
	return Or{a, b}
}

func joinParts(parts []Constraint, sep string) string {
	strs := make([]string, 0, len(parts))
	for _, c := range parts {
		strs = append(strs, c.String())
	}
	return strings.Join(strs, sep)
}

// Compact rewrites a constraint into its canonical minimal form without
// changing the set of versions it matches: nested composites of the same
// kind are flattened, duplicate parts are dropped, parts are sorted by
// their canonical form and single-part composites are unwrapped.
func Compact(c Constraint) Constraint {
	switch cc := c.(type) {
	case And:
		parts := []Constraint{}
		for _, child := range cc {
			child = Compact(child)
			if _, any := child.(Any); any {
				continue
			}
			if nested, ok := child.(And); ok {
				parts = append(parts, nested...)
				continue
			}
			parts = append(parts, child)
		}
		parts = dedupeSorted(parts)
		if len(parts) == 0 {
			return Any{}
		}
		if len(parts) == 1 {
			return parts[0]
		}
		return And(parts)
	case Or:
		parts := []Constraint{}
		for _, child := range cc {
			child = Compact(child)
			if _, any := child.(Any); any {
				return Any{}
			}
			if nested, ok := child.(Or); ok {
				parts = append(parts, nested...)
				continue
			}
			parts = append(parts, child)
		}
		parts = dedupeSorted(parts)
		if len(parts) == 1 {
			return parts[0]
		}
		return Or(parts)
	default:
		return c
	}
}

func dedupeSorted(parts []Constraint) []Constraint {
	sort.SliceStable(parts, func(i, j int) bool {
		return parts[i].String() < parts[j].String()
	})
	deduped := parts[:0]
	last := ""
	for i, c := range parts {
		if i > 0 && c.String() == last {
			continue
		}
		deduped = append(deduped, c)
		last = c.String()
	}
	return deduped
}

// Match reports whether a provider at the given version, seen through op,
// can satisfy c. The pool optimizer only calls it with OpEq, which reduces
// to evaluating the predicate tree at the version point.
func Match(c Constraint, op Op, ver string) bool {
	switch cc := c.(type) {
	case Any:
		return true
	case And:
		for _, child := range cc {
			if !Match(child, op, ver) {
				return false
			}
		}
		return true
	case Or:
		for _, child := range cc {
			if Match(child, op, ver) {
				return true
			}
		}
		return false
	case Leaf:
		return leafsIntersect(cc, Leaf{Op: op, Version: ver})
	}
	return false
}

// leafsIntersect reports whether two single predicates accept at least one
// common version.
func leafsIntersect(a Leaf, b Leaf) bool {
	if a.Op == OpEq {
		return b.Matches(a.Version)
	}
	if b.Op == OpEq {
		return a.Matches(b.Version)
	}
	if a.Op == OpNe || b.Op == OpNe {
		return true
	}

	lower := a.Op == OpGt || a.Op == OpGe
	if lower == (b.Op == OpGt || b.Op == OpGe) {
		// both bounds open towards the same side
		return true
	}

	lo, hi := a, b
	if !lower {
		lo, hi = b, a
	}
	cmp := version.Compare(lo.Version, hi.Version)
	if cmp != 0 {
		return cmp < 0
	}
	return lo.Op == OpGe && hi.Op == OpLe
}
