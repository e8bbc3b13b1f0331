// laplace.go --  This file is part of goHF project.
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
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/MirzaevaIV/goHF/errors"
)

// Laplace is the Laplace-transform decomposition. It stores the occupied
// and virtual factors; the full tensor is their term-wise outer product.
type Laplace struct {
	base
	quad Quadrature
	occ  *mat.Dense
	vir  *mat.Dense
	once sync.Once
}

// NewLaplace validates the energies and decomposes the denominator.
func NewLaplace(epsOcc, epsVir mat.Vector, delta float64, opts ...Option) (*Laplace, error) {
	s, err := checkSpectrum(AlgorithmLaplace, epsOcc, epsVir)
	if err != nil {
		return nil, err
	}
	if err := checkDelta(AlgorithmLaplace, delta); err != nil {
		return nil, err
	}
	o := gatherOptions(opts)
	d := &Laplace{base: newBase(AlgorithmLaplace, epsOcc, epsVir, delta, o)}
	if err := d.decompose(s, o.fitter); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Laplace) decompose(s spectrum, f Fitter) error {
	q, err := fitQuadrature(f, s.minGap(), s.maxGap(), d.delta, sampleGaps(d.epsOcc, d.epsVir))
	if err != nil {
		return errors.Wrapf(err, "%s", AlgorithmLaplace)
	}
	d.quad = q
	d.nvector = q.Len()
	d.converged = q.Converged
	d.occ, d.vir = splitFactors(q, d.epsOcc, d.epsVir, s.midpoint(), pairOrder, d.workers)

	if !q.Converged {
		d.log.Debugw("laplace fit stopped at the term ceiling",
			"delta", d.delta, "max_error", q.MaxError, "nvector", d.nvector)
	}
	return nil
}

// fitQuadrature runs f and rejects empty or inconsistent results.
func fitQuadrature(f Fitter, lo, hi, delta float64, gaps []float64) (Quadrature, error) {
	q, err := f.Fit(lo, hi, delta, gaps)
	if err != nil {
		return Quadrature{}, err
	}
	if q.Len() == 0 || len(q.Weights) != len(q.Nodes) {
		return Quadrature{}, errors.Newf("quadrature has %d nodes and %d weights", len(q.Nodes), len(q.Weights))
	}
	return q, nil
}

// Denominator returns the full tensor, built from the split factors on the
// first call.
func (d *Laplace) Denominator() mat.Matrix {
	d.once.Do(func() {
		d.denominator = outerRows(d.occ, d.vir, d.workers)
	})
	return d.denominator
}

// DenominatorOcc is the NVector × nocc occupied factor.
func (d *Laplace) DenominatorOcc() mat.Matrix { return d.occ }

// DenominatorVir is the NVector × nvir virtual factor.
func (d *Laplace) DenominatorVir() mat.Matrix { return d.vir }

// Quadrature returns a copy of the fitted nodes and weights.
func (d *Laplace) Quadrature() Quadrature { return d.quad.clone() }

func (d *Laplace) Debug() {
	full := outerRows(d.occ, d.vir, d.workers)
	g := pairGaps(d.epsOcc, d.epsVir)
	acc := kernelAccuracy(full, g, full, g, d.workers)
	logAccuracy(d.log, "laplace denominator accuracy", acc,
		"algorithm", d.algorithm,
		"nvector", d.nvector,
		"delta", d.delta,
		"fit_error", d.quad.MaxError,
		"converged", d.converged)
	dumpTensor(d.log, "denominator", full)
}
