// sapt_cholesky.go --  This file is part of goHF project.
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
	"gonum.org/v1/gonum/mat"
)

// SAPTCholesky decomposes the kernel over the pairs of A followed by the
// pairs of B, so both tensors share every Cholesky vector.
type SAPTCholesky struct {
	saptBase
	residual float64
}

func NewSAPTCholesky(epsOccA, epsVirA, epsOccB, epsVirB mat.Vector, delta float64, debug bool, opts ...Option) (*SAPTCholesky, error) {
	if _, _, err := checkMonomers(AlgorithmCholesky, epsOccA, epsVirA, epsOccB, epsVirB, delta); err != nil {
		return nil, err
	}
	o := gatherOptions(opts)
	d := &SAPTCholesky{saptBase: newSAPTBase(AlgorithmCholesky, epsOccA, epsVirA, epsOccB, epsVirB, delta, debug, o)}
	d.decompose()
	if debug {
		d.CheckDenom()
	}
	return d, nil
}

func (d *SAPTCholesky) decompose() {
	gA := pairGaps(d.epsOccA, d.epsVirA)
	gB := pairGaps(d.epsOccB, d.epsVirB)
	nA := len(gA)

	rows, residual := pivotedCholesky(append(gA, gB...), d.delta, d.workers)
	d.denominatorA = rowsToDense(rows, 0, nA)
	d.denominatorB = rowsToDense(rows, nA, nA+len(gB))
	d.nvector = len(rows)
	d.residual = residual
	d.converged = true
	d.log.Debugw("sapt cholesky decomposition done",
		"nvector", d.nvector, "npair_a", nA, "npair_b", len(gB), "residual", residual)
}

func (d *SAPTCholesky) DenominatorA() mat.Matrix { return d.denominatorA }
func (d *SAPTCholesky) DenominatorB() mat.Matrix { return d.denominatorB }

func (d *SAPTCholesky) CheckDenom() {
	d.checkDenom(d.denominatorA, d.denominatorB)
}
