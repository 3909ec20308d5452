package optimizer

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"

	"github.com/solvtools/poolopt/pkg/api"
	"github.com/solvtools/poolopt/pkg/constraint"
	"github.com/solvtools/poolopt/pkg/policy"
)

// Optimizer prunes a pool down to the candidates the solver actually needs
// to consider. It never mutates its inputs; Optimize returns a fresh pool
// sharing no mutable state with the original.
type Optimizer struct {
	policy policy.Policy
}

func New(p policy.Policy) *Optimizer {
	return &Optimizer{policy: p}
}

// Optimize returns a replacement pool with redundant packages removed. The
// result is a subset of the input by identity, keeps the relative order of
// retained packages and leaves the excluded side list untouched. The pass
// runs exactly once; it does not iterate to a fixpoint because no removal
// exposes a further removal under this grouping.
func (o *Optimizer) Optimize(request *api.Request, pool *api.Pool) *api.Pool {
	r := &run{
		policy:              o.policy,
		pool:                pool,
		irremovable:         map[int]bool{},
		requireConstraints:  map[string]map[string]constraint.Constraint{},
		conflictConstraints: map[string]map[string]constraint.Constraint{},
		toRemove:            map[int]bool{},
		hashes:              map[int]string{},
	}
	r.prepare(request)
	return r.optimizeByIdenticalDependencies()
}

// run holds the working tables of a single optimization call. A fresh value
// per call keeps no state leaking between invocations.
type run struct {
	policy      policy.Policy
	pool        *api.Pool
	irremovable map[int]bool
	// distinct compacted require/conflict constraints seen against each
	// target name, keyed by canonical form
	requireConstraints  map[string]map[string]constraint.Constraint
	conflictConstraints map[string]map[string]constraint.Constraint
	toRemove            map[int]bool
	hashes              map[int]string
}

// prepare marks every package which must never be removed and indexes the
// inbound require/conflict constraints per target name for the grouping
// pass.
func (r *run) prepare(request *api.Request) {
	irremovableConstraints := map[string]constraint.Constraint{}
	extend := func(name string, c constraint.Constraint) {
		if existing, exists := irremovableConstraints[name]; exists {
			// alternatives accumulate uncompacted, compacting here costs
			// more than the rare extra disjunct
			irremovableConstraints[name] = constraint.OrOf(existing, c)
		} else {
			irremovableConstraints[name] = c
		}
	}

	for _, req := range request.Requirements() {
		extend(req.Name, req.Constraint)
	}
	for _, pkg := range request.FixedPackages() {
		extend(pkg.Name, constraint.Exact(pkg.Version))
	}

	for _, pkg := range r.pool.Packages() {
		for _, link := range pkg.Requires {
			recordConstraint(r.requireConstraints, link.Target, constraint.Compact(link.Constraint))
		}
		for _, link := range pkg.Conflicts {
			recordConstraint(r.conflictConstraints, link.Target, constraint.Compact(link.Constraint))
		}
		if pkg.AliasOf != 0 {
			// both the alias and the package it aliases have to survive
			extend(pkg.Name, constraint.Exact(pkg.Version))
			if aliased := r.pool.Package(pkg.AliasOf); aliased != nil {
				extend(aliased.Name, constraint.Exact(aliased.Version))
			}
		}
		if len(pkg.Replaces) > 0 {
			extend(pkg.Name, constraint.Exact(pkg.Version))
			for _, link := range pkg.Replaces {
				if link.Target == pkg.Name {
					// malformed self-replacement metadata, ignore
					continue
				}
				extend(link.Target, link.Constraint)
			}
		}
	}

	// Only an exact version match protects a package. Merely falling into a
	// broad accepted range does not mean this candidate is the one pinned
	// by a fixed, required, alias or replace relation.
	for _, pkg := range r.pool.Packages() {
		c, exists := irremovableConstraints[pkg.Name]
		if !exists {
			continue
		}
		if constraint.Match(c, constraint.OpEq, pkg.Version) {
			r.irremovable[pkg.ID] = true
			logrus.Debugf("%s is irremovable", pkg)
		}
	}
}

func recordConstraint(table map[string]map[string]constraint.Constraint, target string, c constraint.Constraint) {
	if table[target] == nil {
		table[target] = map[string]constraint.Constraint{}
	}
	table[target][c.String()] = c
}

// optimizeByIdenticalDependencies groups packages of the same name whose
// declared dependency structure is indistinguishable for every package
// requiring or conflicting with that name, keeps the policy-preferred
// representative of each group and removes the rest.
func (r *run) optimizeByIdenticalDependencies() *api.Pool {
	// name -> constraint group hash -> dependency hash -> members
	groups := map[string]map[string]map[string][]*api.Package{}

	for _, pkg := range r.pool.Packages() {
		if r.irremovable[pkg.ID] {
			continue
		}
		r.toRemove[pkg.ID] = true

		dependencyHash := r.dependencyHash(pkg)
		for _, name := range pkg.Names() {
			requires, relevant := r.requireConstraints[name]
			if !relevant {
				continue
			}
			for _, key := range sortedKeys(requires) {
				requireConstraint := requires[key]
				groupHashParts := []string{}

				if constraint.Match(requireConstraint, constraint.OpEq, pkg.Version) {
					groupHashParts = append(groupHashParts, "require:"+requireConstraint.String())
				}
				for _, conflictKey := range sortedKeys(r.conflictConstraints[name]) {
					if constraint.Match(r.conflictConstraints[name][conflictKey], constraint.OpEq, pkg.Version) {
						// intentionally keyed by the require constraint of
						// the current iteration instead of the conflict
						// constraint itself: the coarser key merges some
						// conflict groups and merged groups can only ever
						// keep more packages, never drop a protected one
						groupHashParts = append(groupHashParts, "conflict:"+requireConstraint.String())
					}
				}

				if len(groupHashParts) == 0 {
					// irrelevant to this constraint group
					continue
				}

				groupHash := strings.Join(groupHashParts, "")
				if groups[name] == nil {
					groups[name] = map[string]map[string][]*api.Package{}
				}
				if groups[name][groupHash] == nil {
					groups[name][groupHash] = map[string][]*api.Package{}
				}
				groups[name][groupHash][dependencyHash] = append(groups[name][groupHash][dependencyHash], pkg)
			}
		}
	}

	for _, name := range sortedKeys(groups) {
		for _, groupHash := range sortedKeys(groups[name]) {
			for _, dependencyHash := range sortedKeys(groups[name][groupHash]) {
				members := groups[name][groupHash][dependencyHash]
				if len(members) == 1 {
					// nothing else is structurally identical under this
					// constraint group
					delete(r.toRemove, members[0].ID)
					continue
				}
				ids := make([]int, 0, len(members))
				for _, member := range members {
					ids = append(ids, member.ID)
				}
				preferred := r.policy.SelectPreferred(r.pool, ids)
				if len(preferred) == 0 {
					panic(fmt.Sprintf("selection policy preferred none of %d candidates for %s", len(ids), name))
				}
				for _, id := range preferred {
					delete(r.toRemove, id)
				}
			}
		}
	}

	return r.applyRemovals()
}

// dependencyHash serializes the four link lists of a package in canonical
// sorted form. It is the equivalence key for grouping: only packages with
// bit-for-bit equal hashes are ever considered interchangeable. Name,
// version and identity stay out of the hash on purpose.
func (r *run) dependencyHash(pkg *api.Package) string {
	if hash, memoized := r.hashes[pkg.ID]; memoized {
		return hash
	}

	sections := []struct {
		name  string
		links []api.Link
	}{
		{"requires", pkg.Requires},
		{"conflicts", pkg.Conflicts},
		{"replaces", pkg.Replaces},
		{"provides", pkg.Provides},
	}

	var hash strings.Builder
	for _, section := range sections {
		if len(section.links) == 0 {
			continue
		}
		hash.WriteString(section.name)
		hash.WriteString(":")
		// every link enters the hash, a target may carry several
		// constraints in one section
		pairs := make([]string, 0, len(section.links))
		for _, link := range section.links {
			pairs = append(pairs, link.Target+"@"+constraint.Compact(link.Constraint).String())
		}
		slices.Sort(pairs)
		for _, pair := range pairs {
			hash.WriteString(pair)
		}
	}

	r.hashes[pkg.ID] = hash.String()
	return r.hashes[pkg.ID]
}

// applyRemovals rebuilds the pool from the packages which survived, in
// original order. The irremovable set is consulted once more as a safety
// net; the excluded side list passes through unmodified.
func (r *run) applyRemovals() *api.Pool {
	kept := []*api.Package{}
	removed := 0
	for _, pkg := range r.pool.Packages() {
		if r.toRemove[pkg.ID] && !r.irremovable[pkg.ID] {
			logrus.Debugf("removing %s from the pool", pkg)
			removed++
			continue
		}
		kept = append(kept, pkg)
	}
	logrus.Debugf("removed %d of %d pool packages", removed, r.pool.Size())
	return api.NewPool(kept, r.pool.Excluded())
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
