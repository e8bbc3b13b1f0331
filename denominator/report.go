// report.go --  This file is part of goHF project.
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
)

// fullKernelPairs is the largest pair count checked against the full
// kernel; larger systems are checked on one entry per column.
const fullKernelPairs = 2048

// dumpEntries is the largest tensor printed by Debug.
const dumpEntries = 64

// Kernel coverage reported by Debug.
const (
	kernelFull     = "full"
	kernelDiagonal = "diagonal"
)

type accuracy struct {
	Entries  int
	MaxError float64
	RMSError float64
	Kernel   string
}

// kernelAccuracy compares Σ_k a[k][p]·b[k][q] with 2/(gA[p] + gB[q]).
// When either side has more than fullKernelPairs columns only the entries
// q = p mod len(gB) are compared, which is the diagonal when a is b.
func kernelAccuracy(a *mat.Dense, gA []float64, b *mat.Dense, gB []float64, workers int) accuracy {
	na, nb := len(gA), len(gB)
	full := na <= fullKernelPairs && nb <= fullKernelPairs
	rowMax := make([]float64, na)
	rowMS := make([]float64, na)

	parallelRange(na, workers, func(lo, hi int) {
		colA := make([]float64, a.RawMatrix().Rows)
		colB := make([]float64, b.RawMatrix().Rows)
		for p := lo; p < hi; p++ {
			mat.Col(colA, p, a)
			if !full {
				q := p % nb
				mat.Col(colB, q, b)
				d := math.Abs(floats.Dot(colA, colB) - 2/(gA[p]+gB[q]))
				rowMax[p], rowMS[p] = d, d*d
				continue
			}
			var worst, ss float64
			for q := 0; q < nb; q++ {
				mat.Col(colB, q, b)
				d := math.Abs(floats.Dot(colA, colB) - 2/(gA[p]+gB[q]))
				worst = math.Max(worst, d)
				ss += d * d
			}
			rowMax[p], rowMS[p] = worst, ss/float64(nb)
		}
	})

	acc := accuracy{
		MaxError: floats.Max(rowMax),
		RMSError: math.Sqrt(stat.Mean(rowMS, nil)),
		Kernel:   kernelDiagonal,
		Entries:  na,
	}
	if full {
		acc.Kernel = kernelFull
		acc.Entries = na * nb
	}
	return acc
}

// splitDeviation is the largest |occ[k][i]·vir[k][a] − d[k][i·nvir+a]|.
func splitDeviation(occ, vir, d *mat.Dense) float64 {
	n, nocc := occ.Dims()
	_, nvir := vir.Dims()
	var worst float64
	for k := 0; k < n; k++ {
		o, v, row := occ.RawRowView(k), vir.RawRowView(k), d.RawRowView(k)
		for i := 0; i < nocc; i++ {
			for a := 0; a < nvir; a++ {
				worst = math.Max(worst, math.Abs(o[i]*v[a]-row[i*nvir+a]))
			}
		}
	}
	return worst
}

func logAccuracy(log *zap.SugaredLogger, msg string, acc accuracy, fields ...interface{}) {
	kv := append([]interface{}{
		"max_error", acc.MaxError,
		"rms_error", acc.RMSError,
		"entries", acc.Entries,
		"kernel", acc.Kernel,
	}, fields...)
	log.Infow(msg, kv...)
}

func dumpTensor(log *zap.SugaredLogger, name string, d mat.Matrix) {
	r, c := d.Dims()
	if r*c > dumpEntries {
		return
	}
	log.Debugf("%s =\n%v", name, mat.Formatted(d, mat.Prefix("  "), mat.Squeeze()))
}
