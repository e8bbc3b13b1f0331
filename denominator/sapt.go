// sapt.go --  This file is part of goHF project.
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
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// SAPT is a pair of monomer denominators decomposed on one shared grid:
// both tensors have NVector rows, and for LAPLACE the same nodes and
// weights.
type SAPT interface {
	Algorithm() string
	Delta() float64
	NVector() int
	// DenominatorA is NVector × (noccA·nvirA).
	DenominatorA() mat.Matrix
	// DenominatorB is NVector × (noccB·nvirB).
	DenominatorB() mat.Matrix
	Converged() bool
	// CheckDenom logs the reconstruction accuracy of both monomers and of
	// the A–B cross kernel.
	CheckDenom()
}

// BuildSAPT decomposes the denominators of monomers A and B with the named
// algorithm. With debug set the reconstruction checks run right after
// decomposition.
func BuildSAPT(algorithm string, epsOccA, epsVirA, epsOccB, epsVirB mat.Vector, delta float64, debug bool, opts ...Option) (SAPT, error) {
	switch algorithm {
	case AlgorithmLaplace:
		d, err := NewSAPTLaplace(epsOccA, epsVirA, epsOccB, epsVirB, delta, debug, opts...)
		if err != nil {
			return nil, err
		}
		return d, nil
	case AlgorithmCholesky:
		d, err := NewSAPTCholesky(epsOccA, epsVirA, epsOccB, epsVirB, delta, debug, opts...)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, unknownAlgorithm(algorithm)
}

type saptBase struct {
	algorithm string
	epsOccA   mat.Vector
	epsVirA   mat.Vector
	epsOccB   mat.Vector
	epsVirB   mat.Vector
	delta     float64
	debug     bool
	nvector   int
	converged bool

	denominatorA *mat.Dense
	denominatorB *mat.Dense

	log     *zap.SugaredLogger
	workers int
}

// checkMonomers validates both eigenvalue pairs and delta. Errors name the
// algorithm and the monomer.
func checkMonomers(algorithm string, epsOccA, epsVirA, epsOccB, epsVirB mat.Vector, delta float64) (spectrum, spectrum, error) {
	sA, err := checkSpectrum(algorithm+" monomer A", epsOccA, epsVirA)
	if err != nil {
		return sA, spectrum{}, err
	}
	sB, err := checkSpectrum(algorithm+" monomer B", epsOccB, epsVirB)
	if err != nil {
		return sA, sB, err
	}
	return sA, sB, checkDelta(algorithm, delta)
}

func newSAPTBase(algorithm string, epsOccA, epsVirA, epsOccB, epsVirB mat.Vector, delta float64, debug bool, o options) saptBase {
	return saptBase{
		algorithm: algorithm,
		epsOccA:   epsOccA,
		epsVirA:   epsVirA,
		epsOccB:   epsOccB,
		epsVirB:   epsVirB,
		delta:     delta,
		debug:     debug,
		log:       o.log,
		workers:   o.workers,
	}
}

func (b *saptBase) Algorithm() string { return b.algorithm }
func (b *saptBase) Delta() float64    { return b.delta }
func (b *saptBase) NVector() int      { return b.nvector }
func (b *saptBase) Converged() bool   { return b.converged }

// checkDenom reports a, b and the cross kernel between them.
func (b *saptBase) checkDenom(denA, denB *mat.Dense) {
	gA := pairGaps(b.epsOccA, b.epsVirA)
	gB := pairGaps(b.epsOccB, b.epsVirB)
	for _, c := range []struct {
		name       string
		a, b       *mat.Dense
		gapA, gapB []float64
	}{
		{"A", denA, denA, gA, gA},
		{"B", denB, denB, gB, gB},
		{"AB", denA, denB, gA, gB},
	} {
		acc := kernelAccuracy(c.a, c.gapA, c.b, c.gapB, b.workers)
		logAccuracy(b.log, "sapt denominator accuracy", acc,
			"algorithm", b.algorithm,
			"monomer", c.name,
			"nvector", b.nvector,
			"delta", b.delta)
	}
}
