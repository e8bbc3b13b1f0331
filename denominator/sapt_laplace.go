// sapt_laplace.go --  This file is part of goHF project.
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
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/MirzaevaIV/goHF/errors"
)

// SAPTLaplace fits one quadrature on the union of the monomer gap ranges
// and splits it per monomer.
type SAPTLaplace struct {
	saptBase
	quad       Quadrature
	occA, virA *mat.Dense
	occB, virB *mat.Dense
	once       sync.Once
}

func NewSAPTLaplace(epsOccA, epsVirA, epsOccB, epsVirB mat.Vector, delta float64, debug bool, opts ...Option) (*SAPTLaplace, error) {
	sA, sB, err := checkMonomers(AlgorithmLaplace, epsOccA, epsVirA, epsOccB, epsVirB, delta)
	if err != nil {
		return nil, err
	}
	o := gatherOptions(opts)
	d := &SAPTLaplace{saptBase: newSAPTBase(AlgorithmLaplace, epsOccA, epsVirA, epsOccB, epsVirB, delta, debug, o)}
	if err := d.decompose(sA, sB, o.fitter); err != nil {
		return nil, err
	}
	if debug {
		d.CheckDenom()
		d.CheckSplit()
	}
	return d, nil
}

func (d *SAPTLaplace) decompose(sA, sB spectrum, f Fitter) error {
	lo := math.Min(sA.minGap(), sB.minGap())
	hi := math.Max(sA.maxGap(), sB.maxGap())
	gaps := append(sampleGaps(d.epsOccA, d.epsVirA), sampleGaps(d.epsOccB, d.epsVirB)...)

	q, err := fitQuadrature(f, lo, hi, d.delta, gaps)
	if err != nil {
		return errors.Wrapf(err, "%s SAPT", AlgorithmLaplace)
	}
	d.quad = q
	d.nvector = q.Len()
	d.converged = q.Converged
	d.occA, d.virA = splitFactors(q, d.epsOccA, d.epsVirA, sA.midpoint(), pairOrder, d.workers)
	d.occB, d.virB = splitFactors(q, d.epsOccB, d.epsVirB, sB.midpoint(), pairOrder, d.workers)

	if !q.Converged {
		d.log.Debugw("sapt laplace fit stopped at the term ceiling",
			"delta", d.delta, "max_error", q.MaxError, "nvector", d.nvector)
	}
	return nil
}

func (d *SAPTLaplace) materialize() {
	d.once.Do(func() {
		d.denominatorA = outerRows(d.occA, d.virA, d.workers)
		d.denominatorB = outerRows(d.occB, d.virB, d.workers)
	})
}

func (d *SAPTLaplace) DenominatorA() mat.Matrix {
	d.materialize()
	return d.denominatorA
}

func (d *SAPTLaplace) DenominatorB() mat.Matrix {
	d.materialize()
	return d.denominatorB
}

func (d *SAPTLaplace) DenominatorOccA() mat.Matrix { return d.occA }
func (d *SAPTLaplace) DenominatorVirA() mat.Matrix { return d.virA }
func (d *SAPTLaplace) DenominatorOccB() mat.Matrix { return d.occB }
func (d *SAPTLaplace) DenominatorVirB() mat.Matrix { return d.virB }

// Quadrature returns a copy of the shared nodes and weights.
func (d *SAPTLaplace) Quadrature() Quadrature { return d.quad.clone() }

func (d *SAPTLaplace) CheckDenom() {
	d.materialize()
	d.checkDenom(d.denominatorA, d.denominatorB)
}

// CheckSplit logs, per monomer, the deviation of occ⊗vir from the stored
// tensor and the error of that reconstruction against the exact kernel.
func (d *SAPTLaplace) CheckSplit() {
	d.materialize()
	for _, m := range []struct {
		name     string
		occ, vir *mat.Dense
		den      *mat.Dense
		g        []float64
	}{
		{"A", d.occA, d.virA, d.denominatorA, pairGaps(d.epsOccA, d.epsVirA)},
		{"B", d.occB, d.virB, d.denominatorB, pairGaps(d.epsOccB, d.epsVirB)},
	} {
		full := outerRows(m.occ, m.vir, d.workers)
		acc := kernelAccuracy(full, m.g, full, m.g, d.workers)
		logAccuracy(d.log, "sapt split accuracy", acc,
			"algorithm", d.algorithm,
			"monomer", m.name,
			"split_deviation", splitDeviation(m.occ, m.vir, m.den),
			"nvector", d.nvector,
			"delta", d.delta)
	}
}
