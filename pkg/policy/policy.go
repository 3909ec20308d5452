package policy

import (
	"github.com/solvtools/poolopt/pkg/api"
	"github.com/solvtools/poolopt/pkg/version"
)

// Policy ranks otherwise interchangeable candidates. SelectPreferred must
// return a non-empty subset of ids for a non-empty input, be deterministic
// for a given pool snapshot and tolerate repeated calls with overlapping
// candidate sets.
type Policy interface {
	SelectPreferred(pool *api.Pool, ids []int) []int
}

// PreferNewest keeps every candidate carrying the highest version among the
// given identities, in input order.
type PreferNewest struct{}

func (PreferNewest) SelectPreferred(pool *api.Pool, ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	newest := pool.Package(ids[0]).Version
	for _, id := range ids[1:] {
		if version.Compare(pool.Package(id).Version, newest) > 0 {
			newest = pool.Package(id).Version
		}
	}
	preferred := []int{}
	for _, id := range ids {
		if version.Compare(pool.Package(id).Version, newest) == 0 {
			preferred = append(preferred, id)
		}
	}
	return preferred
}
