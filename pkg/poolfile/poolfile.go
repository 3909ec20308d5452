package poolfile

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/solvtools/poolopt/pkg/api"
	"github.com/solvtools/poolopt/pkg/constraint"
)

// PoolFile is the on-disk form of a pool.
type PoolFile struct {
	Packages []PackageSpec `json:"packages"`
	Excluded []PackageSpec `json:"excluded,omitempty"`
}

// PackageSpec describes one pool entry. The four link maps go from target
// name to a constraint expression understood by constraint.Parse.
type PackageSpec struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	// AliasOf is the 1-based position of the aliased package in the
	// packages list, 0 when the entry is not an alias.
	AliasOf   int               `json:"aliasOf,omitempty"`
	Requires  map[string]string `json:"requires,omitempty"`
	Conflicts map[string]string `json:"conflicts,omitempty"`
	Replaces  map[string]string `json:"replaces,omitempty"`
	Provides  map[string]string `json:"provides,omitempty"`
}

// RequestFile is the on-disk form of a request.
type RequestFile struct {
	Require map[string]string `json:"require,omitempty"`
	Fixed   []FixedSpec       `json:"fixed,omitempty"`
}

// FixedSpec pins a pool package by name and exact version.
type FixedSpec struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// LoadPool reads a pool file and constructs the pool, resolving alias list
// positions to pool identities.
func LoadPool(path string) (*api.Pool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file := &PoolFile{}
	if err := yaml.Unmarshal(content, file); err != nil {
		return nil, fmt.Errorf("failed to parse pool file %s: %v", path, err)
	}
	return file.Pool()
}

func (f *PoolFile) Pool() (*api.Pool, error) {
	packages := make([]*api.Package, 0, len(f.Packages))
	for i, spec := range f.Packages {
		pkg, err := spec.pkg()
		if err != nil {
			return nil, fmt.Errorf("package %d (%s): %v", i+1, spec.Name, err)
		}
		packages = append(packages, pkg)
	}
	excluded := make([]*api.Package, 0, len(f.Excluded))
	for i, spec := range f.Excluded {
		pkg, err := spec.pkg()
		if err != nil {
			return nil, fmt.Errorf("excluded package %d (%s): %v", i+1, spec.Name, err)
		}
		excluded = append(excluded, pkg)
	}

	pool := api.NewPool(packages, excluded)
	for i, spec := range f.Packages {
		if spec.AliasOf == 0 {
			continue
		}
		if spec.AliasOf < 1 || spec.AliasOf > len(packages) {
			return nil, fmt.Errorf("package %d (%s): aliasOf %d is out of range", i+1, spec.Name, spec.AliasOf)
		}
		packages[i].AliasOf = packages[spec.AliasOf-1].ID
	}
	return pool, nil
}

func (s *PackageSpec) pkg() (*api.Package, error) {
	pkg := &api.Package{Name: s.Name, Version: s.Version}
	links := []struct {
		exprs map[string]string
		dst   *[]api.Link
	}{
		{s.Requires, &pkg.Requires},
		{s.Conflicts, &pkg.Conflicts},
		{s.Replaces, &pkg.Replaces},
		{s.Provides, &pkg.Provides},
	}
	for _, l := range links {
		parsed, err := parseLinks(l.exprs)
		if err != nil {
			return nil, err
		}
		*l.dst = parsed
	}
	return pkg, nil
}

func parseLinks(exprs map[string]string) ([]api.Link, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	targets := make([]string, 0, len(exprs))
	for target := range exprs {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	links := make([]api.Link, 0, len(targets))
	for _, target := range targets {
		c, err := constraint.Parse(exprs[target])
		if err != nil {
			return nil, err
		}
		links = append(links, api.Link{Target: target, Constraint: c})
	}
	return links, nil
}

// LoadRequest reads a request file. Fixed entries must name packages
// present in the pool.
func LoadRequest(path string, pool *api.Pool) (*api.Request, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file := &RequestFile{}
	if err := yaml.Unmarshal(content, file); err != nil {
		return nil, fmt.Errorf("failed to parse request file %s: %v", path, err)
	}
	return file.Request(pool)
}

func (f *RequestFile) Request(pool *api.Pool) (*api.Request, error) {
	request := api.NewRequest()

	names := make([]string, 0, len(f.Require))
	for name := range f.Require {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c, err := constraint.Parse(f.Require[name])
		if err != nil {
			return nil, err
		}
		request.Require(name, c)
	}

	for _, fixed := range f.Fixed {
		pinned := findPackage(pool, fixed.Name, fixed.Version)
		if pinned == nil {
			return nil, fmt.Errorf("fixed package %s-%s is not part of the pool", fixed.Name, fixed.Version)
		}
		request.Fix(pinned)
	}
	return request, nil
}

func findPackage(pool *api.Pool, name string, ver string) *api.Package {
	for _, pkg := range pool.Packages() {
		if pkg.Name == name && pkg.Version == ver {
			return pkg
		}
	}
	return nil
}

// WritePool renders the pool back into the file format.
func WritePool(pool *api.Pool, path string) error {
	file := FromPool(pool)
	content, err := yaml.Marshal(file)
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0666)
}

func FromPool(pool *api.Pool) *PoolFile {
	position := map[int]int{}
	for i, pkg := range pool.Packages() {
		position[pkg.ID] = i + 1
	}

	file := &PoolFile{}
	for _, pkg := range pool.Packages() {
		spec := fromPackage(pkg)
		if pkg.AliasOf != 0 {
			spec.AliasOf = position[pkg.AliasOf]
		}
		file.Packages = append(file.Packages, spec)
	}
	for _, pkg := range pool.Excluded() {
		file.Excluded = append(file.Excluded, fromPackage(pkg))
	}
	return file
}

func fromPackage(pkg *api.Package) PackageSpec {
	return PackageSpec{
		Name:      pkg.Name,
		Version:   pkg.Version,
		Requires:  formatLinks(pkg.Requires),
		Conflicts: formatLinks(pkg.Conflicts),
		Replaces:  formatLinks(pkg.Replaces),
		Provides:  formatLinks(pkg.Provides),
	}
}

func formatLinks(links []api.Link) map[string]string {
	if len(links) == 0 {
		return nil
	}
	exprs := map[string]string{}
	for _, link := range links {
		exprs[link.Target] = formatConstraint(link.Constraint)
	}
	return exprs
}

// formatConstraint renders a constraint as an expression constraint.Parse
// accepts, unlike the bracketed canonical form.
func formatConstraint(c constraint.Constraint) string {
	switch cc := c.(type) {
	case constraint.And:
		parts := make([]string, 0, len(cc))
		for _, child := range cc {
			parts = append(parts, formatConstraint(child))
		}
		return strings.Join(parts, ", ")
	case constraint.Or:
		parts := make([]string, 0, len(cc))
		for _, child := range cc {
			parts = append(parts, formatConstraint(child))
		}
		return strings.Join(parts, " || ")
	default:
		return c.String()
	}
}
