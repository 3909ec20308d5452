package sat

import (
	"fmt"
	"strconv"

	"github.com/crillab/gophersat/bf"
	"github.com/sirupsen/logrus"

	"github.com/solvtools/poolopt/pkg/api"
	"github.com/solvtools/poolopt/pkg/constraint"
)

// Checker encodes a request over a pool into a boolean formula and asks the
// solver whether any valid installation exists. The optimizer uses it to
// verify that a pruned pool kept the request solvable iff the original pool
// was.
type Checker struct {
	pool *api.Pool
	// providers indexes every variable a requirement on a name could pull
	// in, across package names, provides and replaces
	providers map[string][]provider
}

type provider struct {
	pkg *api.Package
	c   constraint.Constraint
}

func NewChecker(pool *api.Pool) *Checker {
	checker := &Checker{pool: pool, providers: map[string][]provider{}}
	for _, pkg := range pool.Packages() {
		checker.providers[pkg.Name] = append(checker.providers[pkg.Name], provider{pkg: pkg, c: constraint.Exact(pkg.Version)})
		for _, links := range [][]api.Link{pkg.Provides, pkg.Replaces} {
			for _, link := range links {
				checker.providers[link.Target] = append(checker.providers[link.Target], provider{pkg: pkg, c: link.Constraint})
			}
		}
	}
	return checker
}

// Satisfiable reports whether the request can be satisfied over the pool.
func Satisfiable(request *api.Request, pool *api.Pool) (bool, error) {
	return NewChecker(pool).Satisfiable(request)
}

func (c *Checker) Satisfiable(request *api.Request) (bool, error) {
	ands := []bf.Formula{}

	for _, pkg := range c.pool.Packages() {
		pkgVar := bf.Var(varName(pkg))
		for _, link := range pkg.Requires {
			satisfies := c.matchingProviders(link)
			if len(satisfies) == 0 {
				logrus.Debugf("%s requires %s which nothing provides", pkg, link)
				ands = append(ands, bf.Not(pkgVar))
				continue
			}
			ands = append(ands, bf.Implies(pkgVar, bf.Or(toVars(satisfies)...)))
		}
		for _, link := range pkg.Conflicts {
			conflicting := []bf.Formula{}
			for _, other := range c.matchingProviders(link) {
				if other.ID == pkg.ID {
					// don't conflict with yourself
					continue
				}
				conflicting = append(conflicting, bf.Var(varName(other)))
			}
			if len(conflicting) > 0 {
				ands = append(ands, bf.Implies(pkgVar, bf.Not(bf.Or(conflicting...))))
			}
		}
	}

	for _, req := range request.Requirements() {
		satisfies := c.matchingProviders(api.Link{Target: req.Name, Constraint: req.Constraint})
		if len(satisfies) == 0 {
			return false, fmt.Errorf("nothing can satisfy %s %s", req.Name, req.Constraint)
		}
		ands = append(ands, bf.Or(toVars(satisfies)...))
	}
	for _, pkg := range request.FixedPackages() {
		if c.pool.Package(pkg.ID) == nil {
			return false, fmt.Errorf("fixed package %s is not part of the pool", pkg)
		}
		ands = append(ands, bf.Var(varName(pkg)))
	}

	if len(ands) == 0 {
		return true, nil
	}
	model := bf.Solve(bf.And(ands...))
	return model != nil, nil
}

func (c *Checker) matchingProviders(link api.Link) []*api.Package {
	accepts := []*api.Package{}
	seen := map[int]bool{}
	for _, p := range c.providers[link.Target] {
		if seen[p.pkg.ID] {
			continue
		}
		if providerSatisfies(link.Constraint, p.c) {
			seen[p.pkg.ID] = true
			accepts = append(accepts, p.pkg)
		}
	}
	return accepts
}

func providerSatisfies(required constraint.Constraint, provided constraint.Constraint) bool {
	if leaf, exact := provided.(constraint.Leaf); exact && leaf.Op == constraint.OpEq {
		return required.Matches(leaf.Version)
	}
	// an unversioned or ranged provide covers any requirement on its name
	return true
}

func varName(pkg *api.Package) string {
	return "x" + strconv.Itoa(pkg.ID)
}

func toVars(packages []*api.Package) (vars []bf.Formula) {
	for _, pkg := range packages {
		vars = append(vars, bf.Var(varName(pkg)))
	}
	return
}
