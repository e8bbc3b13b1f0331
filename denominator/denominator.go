// denominator.go --  This file is part of goHF project.
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
	"gonum.org/v1/gonum/mat"

	"github.com/MirzaevaIV/goHF/errors"
)

// Algorithm names accepted by Build and BuildSAPT. Matching is case-sensitive.
const (
	AlgorithmLaplace  = "LAPLACE"
	AlgorithmCholesky = "CHOLESKY"
)

// Denominator is a decomposed single-system denominator.
type Denominator interface {
	Algorithm() string
	// Delta is the requested maximum error.
	Delta() float64
	// NVector is the number of rows of the tensor.
	NVector() int
	// Denominator is the NVector × (nocc·nvir) tensor.
	Denominator() mat.Matrix
	// Converged is false when Delta could not be reached; the best
	// decomposition found is kept.
	Converged() bool
	// Debug logs an accuracy report.
	Debug()
}

// Build decomposes the denominator of epsOcc and epsVir with the named
// algorithm, LAPLACE or CHOLESKY.
func Build(algorithm string, epsOcc, epsVir mat.Vector, delta float64, opts ...Option) (Denominator, error) {
	switch algorithm {
	case AlgorithmLaplace:
		d, err := NewLaplace(epsOcc, epsVir, delta, opts...)
		if err != nil {
			return nil, err
		}
		return d, nil
	case AlgorithmCholesky:
		d, err := NewCholesky(epsOcc, epsVir, delta, opts...)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, unknownAlgorithm(algorithm)
}

func unknownAlgorithm(algorithm string) error {
	return errors.WithHint(
		errors.Configurationf("unknown denominator algorithm %q", algorithm),
		"algorithm should be LAPLACE or CHOLESKY")
}

type base struct {
	algorithm string
	epsOcc    mat.Vector
	epsVir    mat.Vector
	delta     float64
	nvector   int
	converged bool

	// denominator is nil until built for Laplace.
	denominator *mat.Dense

	log     *zap.SugaredLogger
	workers int
}

func newBase(algorithm string, epsOcc, epsVir mat.Vector, delta float64, o options) base {
	return base{
		algorithm: algorithm,
		epsOcc:    epsOcc,
		epsVir:    epsVir,
		delta:     delta,
		log:       o.log,
		workers:   o.workers,
	}
}

func (b *base) Algorithm() string { return b.algorithm }
func (b *base) Delta() float64    { return b.delta }
func (b *base) NVector() int      { return b.nvector }
func (b *base) Converged() bool   { return b.converged }

// spectrum is the range of one occupied/virtual eigenvalue pair.
type spectrum struct {
	nocc, nvir int
	// homo is the largest occupied energy, lumo the smallest virtual one.
	homo, lumo     float64
	minOcc, maxVir float64
}

func (s spectrum) minGap() float64   { return s.lumo - s.homo }
func (s spectrum) maxGap() float64   { return s.maxVir - s.minOcc }
func (s spectrum) midpoint() float64 { return 0.5 * (s.homo + s.lumo) }
func (s spectrum) npair() int        { return s.nocc * s.nvir }

func checkDelta(label string, delta float64) error {
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta <= 0 {
		return errors.Preconditionf("%s: delta must be a positive number, got %g", label, delta)
	}
	return nil
}

// checkSpectrum validates one eigenvalue pair. label names the algorithm
// (and monomer) in error messages.
func checkSpectrum(label string, epsOcc, epsVir mat.Vector) (spectrum, error) {
	var s spectrum
	if epsOcc == nil || epsOcc.Len() == 0 {
		return s, errors.Preconditionf("%s: no occupied orbital energies", label)
	}
	if epsVir == nil || epsVir.Len() == 0 {
		return s, errors.Preconditionf("%s: no virtual orbital energies", label)
	}
	s.nocc, s.nvir = epsOcc.Len(), epsVir.Len()

	s.homo, s.minOcc = math.Inf(-1), math.Inf(1)
	for i := 0; i < s.nocc; i++ {
		e := epsOcc.AtVec(i)
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return s, errors.Preconditionf("%s: occupied energy %d is not finite (%g)", label, i, e)
		}
		s.homo = math.Max(s.homo, e)
		s.minOcc = math.Min(s.minOcc, e)
	}
	s.lumo, s.maxVir = math.Inf(1), math.Inf(-1)
	for a := 0; a < s.nvir; a++ {
		e := epsVir.AtVec(a)
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return s, errors.Preconditionf("%s: virtual energy %d is not finite (%g)", label, a, e)
		}
		s.lumo = math.Min(s.lumo, e)
		s.maxVir = math.Max(s.maxVir, e)
	}

	if s.lumo < s.homo {
		return s, errors.WithHint(
			errors.Preconditionf("%s: virtual energy %g below occupied energy %g", label, s.lumo, s.homo),
			"check the occupied/virtual partition of the orbital energies")
	}
	if s.lumo == s.homo {
		return s, errors.Preconditionf("%s: virtual energy %g equals occupied energy %g", label, s.lumo, s.homo)
	}
	return s, nil
}
