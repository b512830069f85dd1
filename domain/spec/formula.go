package spec

import (
	"fmt"
	"strings"

	"specsearch/domain/core"
)

// BuildFormula assembles a regression formula string of the form
// "dependent ~ term1 + term2 + ...". Empty terms are discarded; the order of
// the remaining terms is preserved. Pure function, no side effects.
func BuildFormula(dependent string, rhsTerms []string) (string, error) {
	cleaned := make([]string, 0, len(rhsTerms))
	for _, term := range rhsTerms {
		if term != "" {
			cleaned = append(cleaned, term)
		}
	}
	if len(cleaned) == 0 {
		return "", core.ErrEmptyFormula
	}
	return fmt.Sprintf("%s ~ %s", dependent, strings.Join(cleaned, " + ")), nil
}
