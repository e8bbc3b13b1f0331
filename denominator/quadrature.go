// quadrature.go --  This file is part of goHF project.
// Mirzaeva Irina, 2023
//
//	goHF is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------
package denominator

import (
	"math"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/MirzaevaIV/goHF/errors"
)

// Quadrature is an exponential-sum approximation
//
//	1/x ≈ Σ_k Weights[k] · exp(−Nodes[k] · x),   x ∈ [Lo, Hi].
type Quadrature struct {
	Nodes   []float64
	Weights []float64
	Lo, Hi  float64
	// Delta is the requested maximum absolute error.
	Delta float64
	// MaxError is the largest deviation measured on the fit samples.
	MaxError float64
	// Converged is false when the term ceiling was hit before Delta; the
	// quadrature is then the best one found.
	Converged bool
}

// Len is the number of terms.
func (q Quadrature) Len() int { return len(q.Nodes) }

// Eval returns Σ_k w_k exp(−t_k x).
func (q Quadrature) Eval(x float64) float64 {
	var s float64
	for k, t := range q.Nodes {
		s += q.Weights[k] * math.Exp(-t*x)
	}
	return s
}

func (q Quadrature) clone() Quadrature {
	c := q
	c.Nodes = slices.Clone(q.Nodes)
	c.Weights = slices.Clone(q.Weights)
	return c
}

// Fitter builds a quadrature for 1/x on [lo, hi] with error at most delta.
// gaps, when not nil, are points of the domain where the fit must hold.
type Fitter interface {
	Fit(lo, hi, delta float64, gaps []float64) (Quadrature, error)
}

// Parameters of the sinc rule search.
const (
	fitSamples      = 256
	maxGapSamples   = 512
	minStep         = 0.1
	stepIncrement   = 0.05
	numSteps        = 59
	refitCandidates = 3
)

var startShifts = []float64{-1, -0.5, 0, 0.5, 1}

// refineIterations bounds every BFGS run of the node refinement.
const refineIterations = 400

// normOrders are the exponents p of the smoothed maximum ‖r‖_p minimized
// in turn. The last one is within a few percent of the maximum norm on the
// fit samples.
var normOrders = []float64{8, 64, 512}

// LaplaceFitter is the default Fitter. It approximates 1/y on the scaled
// domain y = x/lo ∈ [1, hi/lo] and minimizes the maximum deviation over
// nodes and weights together.
//
// For every term count, starting at one, two rules are refined: the best
// trapezoidal discretization of
//
//	1/y = ∫ exp(s − y·e^s) ds
//
// and the rule of the previous term count with one node appended. The
// refinement runs BFGS on (log t, log w) for ‖r‖_p with growing p. The
// first term count meeting delta is returned.
type LaplaceFitter struct {
	// MaxTerms is the term ceiling; zero means DefaultMaxTerms.
	MaxTerms int
}

type rule struct {
	tau, omega []float64
	err        float64
}

func (f LaplaceFitter) Fit(lo, hi, delta float64, gaps []float64) (Quadrature, error) {
	if !(lo > 0) || math.IsInf(hi, 0) || !(hi >= lo) {
		return Quadrature{}, errors.Preconditionf("fit domain [%g, %g] is not a positive interval", lo, hi)
	}
	if !(delta > 0) || math.IsInf(delta, 0) {
		return Quadrature{}, errors.Preconditionf("delta must be positive, got %g", delta)
	}
	maxTerms := f.MaxTerms
	if maxTerms < 1 {
		maxTerms = DefaultMaxTerms
	}

	ys := scaledSamples(lo, hi, gaps)
	target := delta * lo

	best := rule{err: math.Inf(1)}
	var prev rule
	for n := 1; n <= maxTerms; n++ {
		r := fitRule(n, ys, prev, target)
		prev = r
		if r.err < best.err {
			best = r
		}
		if r.err <= target {
			break
		}
	}

	q := Quadrature{
		Nodes:     make([]float64, len(best.tau)),
		Weights:   make([]float64, len(best.tau)),
		Lo:        lo,
		Hi:        hi,
		Delta:     delta,
		MaxError:  best.err / lo,
		Converged: best.err <= target,
	}
	for k := range best.tau {
		q.Nodes[k] = best.tau[k] / lo
		q.Weights[k] = best.omega[k] / lo
	}
	return q, nil
}

// fitRule returns the n-term rule with the smallest deviation found. Start
// rules already within target are returned without refinement.
func fitRule(n int, ys []float64, prev rule, target float64) rule {
	starts := []rule{bestRule(n, ys)}
	if len(prev.tau) == n-1 && n > 1 && !math.IsInf(prev.err, 0) {
		starts = append(starts, extendRule(prev, ys))
	}

	best := rule{err: math.Inf(1)}
	for _, r := range starts {
		if len(r.tau) == n && r.err < best.err {
			best = r
		}
	}
	if best.err <= target {
		return best
	}
	for _, r := range starts {
		if len(r.tau) != n {
			continue
		}
		if rf, ok := refineRule(r, ys); ok && rf.err < best.err {
			best = rf
		}
	}
	return best
}

// extendRule appends a node above the largest node of r. Its weight is the
// deviation of r, so the extended rule starts close to r.
func extendRule(r rule, ys []float64) rule {
	e := rule{
		tau:   append(slices.Clone(r.tau), 2*floats.Max(r.tau)),
		omega: append(slices.Clone(r.omega), math.Max(r.err, math.SmallestNonzeroFloat64)),
	}
	e.err = maxDeviation(e.tau, e.omega, ys)
	return e
}

// refineRule minimizes the deviation of r over its nodes and weights. ok is
// false when the result is not a valid rule better than r.
func refineRule(r rule, ys []float64) (rule, bool) {
	n := len(r.tau)
	x := make([]float64, 2*n)
	for k := range r.tau {
		x[k] = math.Log(r.tau[k])
		x[n+k] = math.Log(r.omega[k])
	}

	for _, p := range normOrders {
		obj := newLpError(ys, n, p)
		problem := optimize.Problem{Func: obj.Func, Grad: obj.Grad}
		// A failed line search still reports the best location reached.
		res, _ := optimize.Minimize(problem, slices.Clone(x), refineSettings(), &optimize.BFGS{})
		if res == nil || len(res.X) != len(x) || floats.HasNaN(res.X) || math.IsNaN(res.F) || math.IsInf(res.F, 1) {
			break
		}
		x = res.X
	}

	out := rule{tau: make([]float64, n), omega: make([]float64, n)}
	for k := 0; k < n; k++ {
		out.tau[k] = math.Exp(x[k])
		out.omega[k] = math.Exp(x[n+k])
		if !(out.tau[k] > 0) || !(out.omega[k] > 0) || math.IsInf(out.tau[k], 0) || math.IsInf(out.omega[k], 0) {
			return rule{}, false
		}
	}
	out.err = maxDeviation(out.tau, out.omega, ys)
	return out, out.err < r.err
}

func refineSettings() *optimize.Settings {
	return &optimize.Settings{
		GradientThreshold: 1e-12,
		MajorIterations:   refineIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Relative:   1e-10,
			Iterations: 25,
		},
	}
}

// lpError is log‖r‖_p of the residual r(y) = Σ_k w_k exp(−t_k y) − 1/y on
// the fit samples, as a function of x = (log t_1..log t_n, log w_1..log w_n).
// The last evaluation is cached since BFGS asks for the value and the
// gradient at the same point.
type lpError struct {
	ys []float64
	p  float64

	x     []float64
	terms []float64 // w_k exp(−t_k y_i), row-major in i
	res   []float64
	scale float64 // max_i |r_i|
	sum   float64 // Σ_i (|r_i|/scale)^p
}

func newLpError(ys []float64, n int, p float64) *lpError {
	return &lpError{
		ys:    ys,
		p:     p,
		terms: make([]float64, len(ys)*n),
		res:   make([]float64, len(ys)),
	}
}

func (e *lpError) eval(x []float64) {
	if e.x != nil && floats.Equal(e.x, x) {
		return
	}
	e.x = append(e.x[:0], x...)
	n := len(x) / 2

	e.scale = 0
	for i, y := range e.ys {
		s := -1 / y
		row := e.terms[i*n : (i+1)*n]
		for k := range row {
			row[k] = math.Exp(x[n+k] - math.Exp(x[k])*y)
			s += row[k]
		}
		e.res[i] = s
		e.scale = math.Max(e.scale, math.Abs(s))
	}
	e.sum = 0
	if e.scale > 0 && !math.IsInf(e.scale, 0) {
		for _, r := range e.res {
			e.sum += math.Pow(math.Abs(r)/e.scale, e.p)
		}
	}
}

func (e *lpError) valid() bool {
	return e.scale > 0 && !math.IsInf(e.scale, 0)
}

func (e *lpError) Func(x []float64) float64 {
	e.eval(x)
	switch {
	case e.scale == 0:
		return math.Log(math.SmallestNonzeroFloat64)
	case !e.valid():
		return math.Inf(1)
	}
	return math.Log(e.scale) + math.Log(e.sum)/e.p
}

func (e *lpError) Grad(grad, x []float64) {
	e.eval(x)
	for j := range grad {
		grad[j] = 0
	}
	if !e.valid() {
		return
	}
	n := len(x) / 2
	for i, y := range e.ys {
		u := e.res[i] / e.scale
		c := math.Copysign(math.Pow(math.Abs(u), e.p-1), u) / (e.scale * e.sum)
		if c == 0 {
			continue
		}
		row := e.terms[i*n : (i+1)*n]
		for k, term := range row {
			grad[k] -= c * y * math.Exp(x[k]) * term
			grad[n+k] += c * term
		}
	}
}

// scaledSamples returns sorted distinct points of [1, hi/lo]: a log-spaced
// grid plus the scaled gaps when there are few enough of them.
func scaledSamples(lo, hi float64, gaps []float64) []float64 {
	r := hi / lo
	if r <= 1 {
		return []float64{1}
	}
	ys := floats.LogSpan(make([]float64, fitSamples), 1, r)
	ys[0], ys[len(ys)-1] = 1, r
	if len(gaps) <= maxGapSamples {
		for _, g := range gaps {
			ys = append(ys, math.Min(math.Max(g/lo, 1), r))
		}
	}
	slices.Sort(ys)
	return slices.Compact(ys)
}

func bestRule(n int, ys []float64) rule {
	var top []rule
	for j := 0; j < numSteps; j++ {
		h := minStep + float64(j)*stepIncrement
		s0 := balancedStart(n, h)
		for _, shift := range startShifts {
			r := sincRule(n, h, s0+shift)
			r.err = maxDeviation(r.tau, r.omega, ys)
			top = insertCandidate(top, r)
		}
	}

	if len(top) == 0 {
		return rule{err: math.Inf(1)}
	}
	best := top[0]
	for _, r := range top {
		if rf, ok := refitWeights(r.tau, ys); ok && rf.err < best.err {
			best = rf
		}
	}
	return best
}

// balancedStart solves s + exp(s + (n−1)h) = 0, where the lower tail
// e^s of the truncated integral equals the upper tail exp(−e^{s_max}).
func balancedStart(n int, h float64) float64 {
	span := float64(n-1) * h
	lo, hi := -(span + 50), 0.0
	for i := 0; i < 200; i++ {
		mid := 0.5 * (lo + hi)
		if mid+math.Exp(mid+span) > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return 0.5 * (lo + hi)
}

func sincRule(n int, h, s0 float64) rule {
	r := rule{tau: make([]float64, n), omega: make([]float64, n)}
	for k := 0; k < n; k++ {
		t := math.Exp(s0 + float64(k)*h)
		r.tau[k] = t
		r.omega[k] = h * t
	}
	return r
}

// insertCandidate keeps the refitCandidates rules with the smallest error.
func insertCandidate(top []rule, r rule) []rule {
	if math.IsNaN(r.err) || math.IsInf(r.err, 0) {
		return top
	}
	i := len(top)
	for i > 0 && r.err < top[i-1].err {
		i--
	}
	if i >= refitCandidates {
		return top
	}
	top = slices.Insert(top, i, r)
	if len(top) > refitCandidates {
		top = top[:refitCandidates]
	}
	return top
}

func maxDeviation(tau, omega, ys []float64) float64 {
	var worst float64
	for _, y := range ys {
		var s float64
		for k, t := range tau {
			s += omega[k] * math.Exp(-t*y)
		}
		d := math.Abs(1/y - s)
		if math.IsNaN(d) {
			return math.Inf(1)
		}
		if d > worst {
			worst = d
		}
	}
	return worst
}

// refitWeights solves the linear least-squares problem for the weights at
// fixed nodes. Rules with a non-positive or non-finite weight are rejected.
func refitWeights(tau, ys []float64) (rule, bool) {
	m, n := len(ys), len(tau)
	a := mat.NewDense(m, n, nil)
	b := mat.NewVecDense(m, nil)
	for i, y := range ys {
		for k, t := range tau {
			a.Set(i, k, math.Exp(-t*y))
		}
		b.SetVec(i, 1/y)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 0) {
			return rule{}, false
		}
	}
	if x.Len() != n {
		return rule{}, false
	}

	omega := make([]float64, n)
	for k := range omega {
		w := x.AtVec(k)
		if !(w > 0) || math.IsInf(w, 0) {
			return rule{}, false
		}
		omega[k] = w
	}
	tauCopy := slices.Clone(tau)
	return rule{tau: tauCopy, omega: omega, err: maxDeviation(tauCopy, omega, ys)}, true
}
