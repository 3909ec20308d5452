package constraint

import (
	"testing"

	gm "github.com/onsi/gomega"
)

func TestParse(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{expr: "", want: "*"},
		{expr: "*", want: "*"},
		{expr: "1.0", want: "== 1.0"},
		{expr: "=1.0", want: "== 1.0"},
		{expr: "==1.0", want: "== 1.0"},
		{expr: ">=1.0", want: ">= 1.0"},
		{expr: ">= 1.0", want: ">= 1.0"},
		{expr: "!= 1.0", want: "!= 1.0"},
		{expr: ">=1.0, <2.0", want: "[>= 1.0 < 2.0]"},
		{expr: ">=1.0 <2.0", want: "[>= 1.0 < 2.0]"},
		{expr: "1.0 || >=2.0", want: "[== 1.0 || >= 2.0]"},
		{expr: ">=1.0 <2.0 || >=3.0", want: "[[>= 1.0 < 2.0] || >= 3.0]"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			g := gm.NewGomegaWithT(t)
			c, err := Parse(tt.expr)
			g.Expect(err).Should(gm.BeNil())
			g.Expect(c.String()).To(gm.Equal(tt.want))
		})
	}
}

func TestParseErrors(t *testing.T) {
	g := gm.NewGomegaWithT(t)
	for _, expr := range []string{">=", "1.0 >", "foo>bar", "|| 1.0 ||"} {
		_, err := Parse(expr)
		g.Expect(err).To(gm.HaveOccurred(), expr)
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		expr    string
		version string
		want    bool
	}{
		{expr: "*", version: "1.0", want: true},
		{expr: "== 1.0", version: "1.0", want: true},
		{expr: "== 1.0", version: "1.1", want: false},
		{expr: "!= 1.0", version: "1.1", want: true},
		{expr: ">= 1.0", version: "1.0", want: true},
		{expr: "> 1.0", version: "1.0", want: false},
		{expr: ">=1.0 <2.0", version: "1.5", want: true},
		{expr: ">=1.0 <2.0", version: "2.0", want: false},
		{expr: "1.0 || >=2.0", version: "2.4", want: true},
		{expr: "1.0 || >=2.0", version: "1.5", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.expr+" vs "+tt.version, func(t *testing.T) {
			g := gm.NewGomegaWithT(t)
			c, err := Parse(tt.expr)
			g.Expect(err).Should(gm.BeNil())
			g.Expect(c.Matches(tt.version)).To(gm.Equal(tt.want))
		})
	}
}

func TestCompact(t *testing.T) {
	tests := []struct {
		name string
		in   Constraint
		want string
	}{
		{name: "leafs stay untouched", in: Leaf{Op: OpGe, Version: "1.0"}, want: ">= 1.0"},
		{name: "duplicate alternatives collapse", in: Or{Exact("1.0"), Exact("1.0")}, want: "== 1.0"},
		{name: "alternatives are sorted", in: Or{Exact("2.0"), Exact("1.0")}, want: "[== 1.0 || == 2.0]"},
		{name: "nested conjunctions flatten", in: And{And{Leaf{Op: OpGe, Version: "1.0"}, Leaf{Op: OpLt, Version: "2.0"}}, Leaf{Op: OpNe, Version: "1.5"}}, want: "[!= 1.5 < 2.0 >= 1.0]"},
		{name: "any is dropped from conjunctions", in: And{Any{}, Exact("1.0")}, want: "== 1.0"},
		{name: "any absorbs alternatives", in: Or{Exact("1.0"), Any{}}, want: "*"},
		{name: "conjunction of only any", in: And{Any{}, Any{}}, want: "*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gm.NewGomegaWithT(t)
			g.Expect(Compact(tt.in).String()).To(gm.Equal(tt.want))
		})
	}
}

func TestCompactIsStable(t *testing.T) {
	g := gm.NewGomegaWithT(t)
	c := Or{And{Leaf{Op: OpLt, Version: "2.0"}, Leaf{Op: OpGe, Version: "1.0"}}, Exact("3.0"), Exact("3.0")}
	once := Compact(c)
	twice := Compact(once)
	g.Expect(twice.String()).To(gm.Equal(once.String()))
}

func TestMatchWithEqualityOperator(t *testing.T) {
	tests := []struct {
		expr    string
		version string
		want    bool
	}{
		{expr: ">= 1.0", version: "1.5", want: true},
		{expr: "< 1.0", version: "1.5", want: false},
		{expr: ">=1.0 <2.0", version: "1.0", want: true},
		{expr: "1.0 || 2.0", version: "2.0", want: true},
		{expr: "1.0 || 2.0", version: "3.0", want: false},
		{expr: "*", version: "0.1", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.expr+" vs "+tt.version, func(t *testing.T) {
			g := gm.NewGomegaWithT(t)
			c, err := Parse(tt.expr)
			g.Expect(err).Should(gm.BeNil())
			g.Expect(Match(c, OpEq, tt.version)).To(gm.Equal(tt.want))
		})
	}
}

func TestMatchWithRangeOperators(t *testing.T) {
	tests := []struct {
		name string
		c    Leaf
		op   Op
		ver  string
		want bool
	}{
		{name: "two lower bounds always intersect", c: Leaf{Op: OpGe, Version: "3.0"}, op: OpGt, ver: "1.0", want: true},
		{name: "open ranges overlap", c: Leaf{Op: OpLe, Version: "2.0"}, op: OpGe, ver: "1.0", want: true},
		{name: "disjoint ranges", c: Leaf{Op: OpLt, Version: "1.0"}, op: OpGe, ver: "1.0", want: false},
		{name: "touching bounds need inclusivity", c: Leaf{Op: OpLe, Version: "1.0"}, op: OpGe, ver: "1.0", want: true},
		{name: "touching bounds with strict end", c: Leaf{Op: OpLt, Version: "1.0"}, op: OpGe, ver: "1.0", want: false},
		{name: "not-equal intersects any range", c: Leaf{Op: OpNe, Version: "1.0"}, op: OpGe, ver: "1.0", want: true},
		{name: "not-equal against the same point", c: Leaf{Op: OpNe, Version: "1.0"}, op: OpEq, ver: "1.0", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gm.NewGomegaWithT(t)
			g.Expect(Match(tt.c, tt.op, tt.ver)).To(gm.Equal(tt.want))
		})
	}
}
