package optimizer

import (
	"github.com/solvtools/poolopt/pkg/api"
	"github.com/solvtools/poolopt/pkg/constraint"
	"github.com/solvtools/poolopt/pkg/policy"
)

func newPackage(name string, ver string) *api.Package {
	return &api.Package{Name: name, Version: ver}
}

func link(target string, expr string) api.Link {
	c, err := constraint.Parse(expr)
	if err != nil {
		panic(err)
	}
	return api.Link{Target: target, Constraint: c}
}

func requires(pkg *api.Package, links ...api.Link) *api.Package {
	pkg.Requires = links
	return pkg
}

func conflicts(pkg *api.Package, links ...api.Link) *api.Package {
	pkg.Conflicts = links
	return pkg
}

func replaces(pkg *api.Package, links ...api.Link) *api.Package {
	pkg.Replaces = links
	return pkg
}

func provides(pkg *api.Package, links ...api.Link) *api.Package {
	pkg.Provides = links
	return pkg
}

func newRequest(requirements ...string) *api.Request {
	request := api.NewRequest()
	for i := 0; i+1 < len(requirements); i += 2 {
		c, err := constraint.Parse(requirements[i+1])
		if err != nil {
			panic(err)
		}
		request.Require(requirements[i], c)
	}
	return request
}

func optimize(request *api.Request, pool *api.Pool) *api.Pool {
	return New(policy.PreferNewest{}).Optimize(request, pool)
}

func packageNames(pool *api.Pool) []string {
	names := []string{}
	for _, pkg := range pool.Packages() {
		names = append(names, pkg.String())
	}
	return names
}
