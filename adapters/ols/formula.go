package ols

import (
	"fmt"
	"strings"
)

// term is one column of the design matrix: a plain variable or an
// interaction (product of several variables). The canonical name of an
// interaction joins its factors with ":".
type term struct {
	name    string
	factors []string
}

// parsedFormula is the result of parsing "dep ~ rhs".
type parsedFormula struct {
	dependent string
	terms     []term
}

// parseFormula splits a formula of the form "dep ~ t1 + t2 + ..." into its
// dependent variable and deduplicated right-hand-side terms. A term written
// with "*" auto-expands into the main effects plus the interaction, so
// "x*m" contributes x, m and x:m; a term written with ":" is the interaction
// alone. Duplicate terms keep their first position.
func parseFormula(formula string) (*parsedFormula, error) {
	sides := strings.Split(formula, "~")
	if len(sides) != 2 {
		return nil, fmt.Errorf("malformed formula %q: expected exactly one ~", formula)
	}
	dependent := strings.TrimSpace(sides[0])
	if dependent == "" {
		return nil, fmt.Errorf("malformed formula %q: empty dependent variable", formula)
	}

	pf := &parsedFormula{dependent: dependent}
	seen := make(map[string]bool)
	add := func(t term) {
		if !seen[t.name] {
			seen[t.name] = true
			pf.terms = append(pf.terms, t)
		}
	}

	for _, rawTerm := range strings.Split(sides[1], "+") {
		text := strings.TrimSpace(rawTerm)
		if text == "" {
			continue
		}
		switch {
		case strings.Contains(text, "*"):
			factors, err := splitFactors(text, "*")
			if err != nil {
				return nil, err
			}
			for _, f := range factors {
				add(term{name: f, factors: []string{f}})
			}
			add(term{name: strings.Join(factors, ":"), factors: factors})
		case strings.Contains(text, ":"):
			factors, err := splitFactors(text, ":")
			if err != nil {
				return nil, err
			}
			add(term{name: strings.Join(factors, ":"), factors: factors})
		default:
			add(term{name: text, factors: []string{text}})
		}
	}

	if len(pf.terms) == 0 {
		return nil, fmt.Errorf("malformed formula %q: no right-hand-side terms", formula)
	}
	return pf, nil
}

func splitFactors(text, sep string) ([]string, error) {
	var factors []string
	for _, part := range strings.Split(text, sep) {
		f := strings.TrimSpace(part)
		if f == "" {
			return nil, fmt.Errorf("malformed term %q", text)
		}
		factors = append(factors, f)
	}
	if len(factors) < 2 {
		return nil, fmt.Errorf("malformed term %q", text)
	}
	return factors, nil
}
