package constraint

import (
	"fmt"
	"strings"
)

var opPrefixes = []string{"==", "!=", ">=", "<=", "=", ">", "<"}

// Parse reads a constraint expression. "||" separates alternatives, commas
// or spaces separate conjunctive parts within an alternative, a bare
// version means exact equality and "*" or an empty expression matches any
// version. Examples: ">=1.0", ">= 1.0, < 2.0", "1.0 || >=2.0".
func Parse(expr string) (Constraint, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" || trimmed == "*" {
		return Any{}, nil
	}

	alternatives := []Constraint{}
	for _, alt := range strings.Split(trimmed, "||") {
		parsed, err := parseConjunction(alt)
		if err != nil {
			return nil, fmt.Errorf("invalid constraint %q: %v", expr, err)
		}
		alternatives = append(alternatives, parsed)
	}
	if len(alternatives) == 1 {
		return alternatives[0], nil
	}
	return Or(alternatives), nil
}

func parseConjunction(expr string) (Constraint, error) {
	fields := strings.Fields(strings.ReplaceAll(expr, ",", " "))
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty alternative")
	}

	parts := []Constraint{}
	for i := 0; i < len(fields); i++ {
		field := fields[i]
		if isOp(field) {
			// operator separated from its version by whitespace
			if i+1 == len(fields) {
				return nil, fmt.Errorf("operator %q misses a version", field)
			}
			field = field + fields[i+1]
			i++
		}
		leaf, err := parseLeaf(field)
		if err != nil {
			return nil, err
		}
		parts = append(parts, leaf)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return And(parts), nil
}

func parseLeaf(token string) (Leaf, error) {
	for _, prefix := range opPrefixes {
		if !strings.HasPrefix(token, prefix) {
			continue
		}
		ver := strings.TrimSpace(strings.TrimPrefix(token, prefix))
		if ver == "" {
			return Leaf{}, fmt.Errorf("operator %q misses a version", prefix)
		}
		op := Op(prefix)
		if op == "=" {
			op = OpEq
		}
		return Leaf{Op: op, Version: ver}, nil
	}
	if strings.ContainsAny(token, "=<>!") {
		return Leaf{}, fmt.Errorf("can't interpret %q", token)
	}
	return Exact(token), nil
}

func isOp(token string) bool {
	for _, prefix := range opPrefixes {
		if token == prefix {
			return true
		}
	}
	return false
}
