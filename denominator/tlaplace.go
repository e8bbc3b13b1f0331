// tlaplace.go --  This file is part of goHF project.
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

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/MirzaevaIV/goHF/errors"
)

// fullTriplesPairs is the largest pair count for which Debug checks every
// triple of pairs.
const fullTriplesPairs = 64

// TLaplace is the Laplace decomposition of triples denominators. The
// factors satisfy
//
//	Σ_k Π_{m=1..3} occ[k][i_m]·vir[k][a_m] ≈ 3 / (g_1 + g_2 + g_3)
//
// for any three pairs (i_m, a_m).
type TLaplace struct {
	epsOcc    mat.Vector
	epsVir    mat.Vector
	delta     float64
	nvector   int
	converged bool

	quad Quadrature
	occ  *mat.Dense
	vir  *mat.Dense

	log     *zap.SugaredLogger
	workers int
}

// NewTLaplace validates the energies and decomposes the denominator with
// the configured Fitter.
func NewTLaplace(epsOcc, epsVir mat.Vector, delta float64, opts ...Option) (*TLaplace, error) {
	const label = "triples " + AlgorithmLaplace
	s, err := checkSpectrum(label, epsOcc, epsVir)
	if err != nil {
		return nil, err
	}
	if err := checkDelta(label, delta); err != nil {
		return nil, err
	}
	o := gatherOptions(opts)
	d := &TLaplace{
		epsOcc:  epsOcc,
		epsVir:  epsVir,
		delta:   delta,
		log:     o.log,
		workers: o.workers,
	}
	if err := d.decompose(s, o.fitter); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *TLaplace) decompose(s spectrum, f Fitter) error {
	q, err := fitQuadrature(f, s.minGap(), s.maxGap(), d.delta, sampleGaps(d.epsOcc, d.epsVir))
	if err != nil {
		return errors.Wrap(err, "triples LAPLACE")
	}
	d.quad = q
	d.nvector = q.Len()
	d.converged = q.Converged
	d.occ, d.vir = splitFactors(q, d.epsOcc, d.epsVir, s.midpoint(), triplesOrder, d.workers)

	if !q.Converged {
		d.log.Debugw("triples laplace fit stopped at the term ceiling",
			"delta", d.delta, "max_error", q.MaxError, "nvector", d.nvector)
	}
	return nil
}

func (d *TLaplace) Delta() float64         { return d.delta }
func (d *TLaplace) NVector() int           { return d.nvector }
func (d *TLaplace) Converged() bool        { return d.converged }
func (d *TLaplace) Quadrature() Quadrature { return d.quad.clone() }

// DenominatorOcc is the NVector × nocc occupied factor.
func (d *TLaplace) DenominatorOcc() mat.Matrix { return d.occ }

// DenominatorVir is the NVector × nvir virtual factor.
func (d *TLaplace) DenominatorVir() mat.Matrix { return d.vir }

// Debug logs the error of the triples reconstruction. Every triple of pairs
// is checked for small systems, otherwise only triples of one pair.
func (d *TLaplace) Debug() {
	e := outerRows(d.occ, d.vir, d.workers)
	g := pairGaps(d.epsOcc, d.epsVir)
	n := len(g)
	full := n <= fullTriplesPairs

	rowMax := make([]float64, n)
	rowMS := make([]float64, n)
	parallelRange(n, d.workers, func(lo, hi int) {
		for p := lo; p < hi; p++ {
			if !full {
				dev := math.Abs(tripleValue(e, p, p, p) - 1/g[p])
				rowMax[p], rowMS[p] = dev, dev*dev
				continue
			}
			var worst, ss float64
			for q := 0; q < n; q++ {
				for r := 0; r < n; r++ {
					dev := math.Abs(tripleValue(e, p, q, r) - 3/(g[p]+g[q]+g[r]))
					worst = math.Max(worst, dev)
					ss += dev * dev
				}
			}
			rowMax[p], rowMS[p] = worst, ss/float64(n*n)
		}
	})

	acc := accuracy{
		MaxError: floats.Max(rowMax),
		RMSError: math.Sqrt(stat.Mean(rowMS, nil)),
		Kernel:   kernelDiagonal,
		Entries:  n,
	}
	if full {
		acc.Kernel = kernelFull
		acc.Entries = n * n * n
	}
	logAccuracy(d.log, "triples laplace denominator accuracy", acc,
		"nvector", d.nvector,
		"delta", d.delta,
		"fit_error", d.quad.MaxError,
		"converged", d.converged)
}

func tripleValue(e *mat.Dense, p, q, r int) float64 {
	n, _ := e.Dims()
	var s float64
	for k := 0; k < n; k++ {
		s += e.At(k, p) * e.At(k, q) * e.At(k, r)
	}
	return s
}
