// cholesky.go --  This file is part of goHF project.
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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Cholesky is the pivoted incomplete Cholesky decomposition of the pair
// kernel. It always holds the full tensor.
type Cholesky struct {
	base
	residual float64
}

// NewCholesky validates the energies and decomposes the denominator.
func NewCholesky(epsOcc, epsVir mat.Vector, delta float64, opts ...Option) (*Cholesky, error) {
	if _, err := checkSpectrum(AlgorithmCholesky, epsOcc, epsVir); err != nil {
		return nil, err
	}
	if err := checkDelta(AlgorithmCholesky, delta); err != nil {
		return nil, err
	}
	o := gatherOptions(opts)
	d := &Cholesky{base: newBase(AlgorithmCholesky, epsOcc, epsVir, delta, o)}
	d.decompose()
	return d, nil
}

func (d *Cholesky) decompose() {
	g := pairGaps(d.epsOcc, d.epsVir)
	rows, residual := pivotedCholesky(g, d.delta, d.workers)
	d.denominator = rowsToDense(rows, 0, len(g))
	d.nvector = len(rows)
	d.residual = residual
	d.converged = true
	d.log.Debugw("cholesky decomposition done",
		"nvector", d.nvector, "npair", len(g), "residual", residual)
}

func (d *Cholesky) Denominator() mat.Matrix { return d.denominator }

func (d *Cholesky) Debug() {
	g := pairGaps(d.epsOcc, d.epsVir)
	acc := kernelAccuracy(d.denominator, g, d.denominator, g, d.workers)
	logAccuracy(d.log, "cholesky denominator accuracy", acc,
		"algorithm", d.algorithm,
		"nvector", d.nvector,
		"delta", d.delta,
		"residual", d.residual)
	dumpTensor(d.log, "denominator", d.denominator)
}

// pivotedCholesky factorizes K(p,q) = 2/(g[p] + g[q]) as Σ_k L_k[p]·L_k[q].
// Kernel columns are computed when pivoted. It stops once the largest
// residual diagonal is below delta, after at least one vector, or at full
// rank; the kernel is positive semidefinite, so every residual entry is then
// bounded by that diagonal. It returns the vectors and the final largest
// residual diagonal.
func pivotedCholesky(g []float64, delta float64, workers int) ([][]float64, float64) {
	n := len(g)
	diag := make([]float64, n)
	for p, gp := range g {
		diag[p] = 1 / gp
	}

	var rows [][]float64
	for len(rows) < n {
		piv := floats.MaxIdx(diag)
		dmax := diag[piv]
		if (len(rows) > 0 && dmax < delta) || !(dmax > 0) {
			break
		}
		s := math.Sqrt(dmax)
		l := make([]float64, n)
		parallelRange(n, workers, func(lo, hi int) {
			for q := lo; q < hi; q++ {
				v := 2 / (g[q] + g[piv])
				for _, r := range rows {
					v -= r[piv] * r[q]
				}
				l[q] = v / s
				diag[q] -= l[q] * l[q]
			}
		})
		l[piv] = s
		diag[piv] = 0
		rows = append(rows, l)
	}
	return rows, floats.Max(diag)
}
