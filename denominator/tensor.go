// tensor.go --  This file is part of goHF project.
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

	"gonum.org/v1/gonum/mat"
)

// Orders of the Laplace split: pair (MP2, SAPT) and triples.
const (
	pairOrder    = 2
	triplesOrder = 3
)

// pairGaps returns ε_a − ε_i for p = i·nvir + a.
func pairGaps(epsOcc, epsVir mat.Vector) []float64 {
	nocc, nvir := epsOcc.Len(), epsVir.Len()
	g := make([]float64, nocc*nvir)
	for i := 0; i < nocc; i++ {
		ei := epsOcc.AtVec(i)
		for a := 0; a < nvir; a++ {
			g[i*nvir+a] = epsVir.AtVec(a) - ei
		}
	}
	return g
}

// sampleGaps is pairGaps limited to systems small enough to use every gap
// as a fit sample.
func sampleGaps(epsOcc, epsVir mat.Vector) []float64 {
	if epsOcc.Len()*epsVir.Len() > maxGapSamples {
		return nil
	}
	return pairGaps(epsOcc, epsVir)
}

// splitFactors evaluates the occupied and virtual factors of q:
//
//	occ[k][i] = w_k^{1/(2m)} exp( t_k (ε_i − μ)/m)
//	vir[k][a] = w_k^{1/(2m)} exp(−t_k (ε_a − μ)/m)
//
// for order m. The product over m pairs gives w_k exp(−t_k · mean gap).
// μ lies between HOMO and LUMO, so no factor exceeds w_k^{1/(2m)}.
func splitFactors(q Quadrature, epsOcc, epsVir mat.Vector, mu float64, order, workers int) (*mat.Dense, *mat.Dense) {
	n, nocc, nvir := q.Len(), epsOcc.Len(), epsVir.Len()
	occ := mat.NewDense(n, nocc, nil)
	vir := mat.NewDense(n, nvir, nil)
	m := float64(order)

	parallelRange(n, workers, func(lo, hi int) {
		for k := lo; k < hi; k++ {
			t := q.Nodes[k]
			scale := math.Pow(q.Weights[k], 1/(2*m))
			row := occ.RawRowView(k)
			for i := range row {
				row[i] = scale * math.Exp(t*(epsOcc.AtVec(i)-mu)/m)
			}
			row = vir.RawRowView(k)
			for a := range row {
				row[a] = scale * math.Exp(-t*(epsVir.AtVec(a)-mu)/m)
			}
		}
	})
	return occ, vir
}

// outerRows builds D[k][i·nvir+a] = occ[k][i]·vir[k][a].
func outerRows(occ, vir *mat.Dense, workers int) *mat.Dense {
	n, nocc := occ.Dims()
	_, nvir := vir.Dims()
	d := mat.NewDense(n, nocc*nvir, nil)

	parallelRange(n, workers, func(lo, hi int) {
		for k := lo; k < hi; k++ {
			o, v, row := occ.RawRowView(k), vir.RawRowView(k), d.RawRowView(k)
			for i, oi := range o {
				for a, va := range v {
					row[i*nvir+a] = oi * va
				}
			}
		}
	})
	return d
}

// rowsToDense copies columns [from, to) of rows into a dense matrix.
func rowsToDense(rows [][]float64, from, to int) *mat.Dense {
	d := mat.NewDense(len(rows), to-from, nil)
	for k, r := range rows {
		d.SetRow(k, r[from:to])
	}
	return d
}
