// Package ols implements the ordinary-least-squares fitting engine behind
// ports.ModelFitter. Formulas use the "dep ~ a + b + a*b" convention;
// interaction coefficients are reported under the canonical "a:b" name.
package ols

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"specsearch/domain/core"
	"specsearch/domain/frame"
	"specsearch/ports"
)

// InterceptName is the canonical name of the automatically-added intercept.
const InterceptName = "Intercept"

// collinearTol is the relative residual-norm threshold below which a design
// column is considered linearly dependent on the preceding ones and dropped.
const collinearTol = 1e-8

// Engine fits OLS models via QR decomposition with classical standard errors
// and two-sided Student-t p-values.
type Engine struct{}

// NewEngine creates an OLS engine.
func NewEngine() *Engine {
	return &Engine{}
}

var _ ports.ModelFitter = (*Engine)(nil)

// Fit estimates the formula against the frame. Rows with a missing value in
// any referenced column are deleted listwise. Collinear design columns are
// silently dropped, so the returned map may omit requested terms.
func (e *Engine) Fit(formula string, data *frame.Frame) (map[string]ports.CoefficientStats, error) {
	pf, err := parseFormula(formula)
	if err != nil {
		return nil, core.NewFitError(formula, err)
	}

	dep, ok := data.Column(pf.dependent)
	if !ok {
		return nil, core.NewFitError(formula, core.NewColumnMissingError(pf.dependent))
	}
	factorCols := make(map[string][]float64)
	for _, t := range pf.terms {
		for _, f := range t.factors {
			if _, seen := factorCols[f]; seen {
				continue
			}
			col, ok := data.Column(f)
			if !ok {
				return nil, core.NewFitError(formula, core.NewColumnMissingError(f))
			}
			factorCols[f] = col
		}
	}

	rows := usableRows(data.Rows(), dep, factorCols)
	n := len(rows)
	if n == 0 {
		return nil, core.NewFitError(formula, core.ErrInsufficientData)
	}

	y := make([]float64, n)
	for i, row := range rows {
		y[i] = dep[row]
	}

	names := []string{InterceptName}
	candidates := [][]float64{onesColumn(n)}
	for _, t := range pf.terms {
		names = append(names, t.name)
		candidates = append(candidates, productColumn(rows, t.factors, factorCols))
	}

	keptNames, keptCols := dropCollinear(names, candidates)
	p := len(keptCols)
	if n <= p {
		return nil, core.NewFitError(formula, core.ErrInsufficientData)
	}

	design := mat.NewDense(n, p, nil)
	for j, col := range keptCols {
		design.SetCol(j, col)
	}
	response := mat.NewVecDense(n, y)

	var qr mat.QR
	qr.Factorize(design)
	beta := mat.NewVecDense(p, nil)
	if err := qr.SolveVecTo(beta, false, response); err != nil {
		return nil, core.NewFitError(formula, err)
	}

	fitted := mat.NewVecDense(n, nil)
	fitted.MulVec(design, beta)
	rss := 0.0
	for i := 0; i < n; i++ {
		r := response.AtVec(i) - fitted.AtVec(i)
		rss += r * r
	}
	dof := n - p
	s2 := rss / float64(dof)

	var gram mat.Dense
	gram.Mul(design.T(), design)
	var gramInv mat.Dense
	if err := gramInv.Inverse(&gram); err != nil {
		return nil, core.NewFitError(formula, err)
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dof)}
	stats := make(map[string]ports.CoefficientStats, p)
	for j, name := range keptNames {
		estimate := beta.AtVec(j)
		variance := s2 * gramInv.At(j, j)
		if variance < 0 {
			variance = 0
		}
		stdError := math.Sqrt(variance)
		stats[name] = ports.CoefficientStats{
			Estimate: estimate,
			StdError: stdError,
			PValue:   twoSidedP(estimate, stdError, tDist),
		}
	}
	return stats, nil
}

// usableRows returns the indices of rows with no missing value in the
// dependent or any factor column.
func usableRows(total int, dep []float64, factorCols map[string][]float64) []int {
	var rows []int
	for i := 0; i < total; i++ {
		if math.IsNaN(dep[i]) {
			continue
		}
		usable := true
		for _, col := range factorCols {
			if math.IsNaN(col[i]) {
				usable = false
				break
			}
		}
		if usable {
			rows = append(rows, i)
		}
	}
	return rows
}

func onesColumn(n int) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = 1
	}
	return col
}

// productColumn materializes a term column: the row-wise product of its
// factor columns restricted to the usable rows.
func productColumn(rows []int, factors []string, factorCols map[string][]float64) []float64 {
	col := make([]float64, len(rows))
	for i, row := range rows {
		v := 1.0
		for _, f := range factors {
			v *= factorCols[f][row]
		}
		col[i] = v
	}
	return col
}

// dropCollinear walks the candidate columns in order and keeps each one only
// if it adds a new direction to the column space, measured by the residual
// norm after projecting onto the previously-kept columns (modified
// Gram-Schmidt). Later duplicates and exact linear combinations are dropped.
func dropCollinear(names []string, candidates [][]float64) ([]string, [][]float64) {
	var keptNames []string
	var keptCols [][]float64
	var basis [][]float64

	for idx, col := range candidates {
		residual := make([]float64, len(col))
		copy(residual, col)
		for _, q := range basis {
			proj := dot(q, residual)
			for i := range residual {
				residual[i] -= proj * q[i]
			}
		}
		origNorm := norm(col)
		resNorm := norm(residual)
		if resNorm <= collinearTol*math.Max(1, origNorm) {
			continue
		}
		for i := range residual {
			residual[i] /= resNorm
		}
		basis = append(basis, residual)
		keptNames = append(keptNames, names[idx])
		keptCols = append(keptCols, col)
	}
	return keptNames, keptCols
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func norm(a []float64) float64 {
	return math.Sqrt(dot(a, a))
}

// twoSidedP computes the two-sided p-value of estimate/stdError under the
// Student-t distribution. A zero standard error with a non-zero estimate is
// an exact fit and maps to p = 0.
func twoSidedP(estimate, stdError float64, dist distuv.StudentsT) float64 {
	if stdError == 0 {
		if estimate == 0 {
			return 1
		}
		return 0
	}
	t := math.Abs(estimate / stdError)
	p := 2 * (1 - dist.CDF(t))
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
