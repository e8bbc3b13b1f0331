// plot.go --  This file is part of goHF project.
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
package report

import (
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/MirzaevaIV/goHF/denominator"
	"github.com/MirzaevaIV/goHF/errors"
)

const (
	plotSamples = 400
	// errors below this are drawn at this value on the log axis
	plotFloor = 1e-18
)

// FitErrorPoints samples |1/x − q(x)| at n log-spaced points of q's domain.
// A single-point domain is widened by 10% on each side.
func FitErrorPoints(q denominator.Quadrature, n int) plotter.XYs {
	lo, hi := q.Lo, q.Hi
	if hi <= lo {
		lo, hi = lo/1.1, hi*1.1
	}
	xs := floats.LogSpan(make([]float64, n), lo, hi)
	pts := make(plotter.XYs, n)
	for i, x := range xs {
		pts[i].X = x
		pts[i].Y = math.Max(math.Abs(1/x-q.Eval(x)), plotFloor)
	}
	return pts
}

// PlotFitError saves a log-log PNG of the quadrature error with the
// requested delta as a dashed line.
func PlotFitError(q denominator.Quadrature, path string) error {
	if q.Len() == 0 || !(q.Lo > 0) {
		return errors.New("nothing to plot: empty quadrature")
	}
	pts := FitErrorPoints(q, plotSamples)

	p := plot.New()
	p.Title.Text = "Laplace quadrature error, " + plotTitle(q)
	p.X.Label.Text = "orbital energy gap"
	p.Y.Label.Text = "absolute error"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	fit, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "fit error line")
	}
	fit.LineStyle.Width = vg.Points(1.5)
	p.Add(fit)
	p.Legend.Add("error", fit)

	if q.Delta > 0 {
		first, last := pts[0].X, pts[len(pts)-1].X
		target, err := plotter.NewLine(plotter.XYs{{X: first, Y: q.Delta}, {X: last, Y: q.Delta}})
		if err != nil {
			return errors.Wrap(err, "delta line")
		}
		target.LineStyle.Color = color.RGBA{R: 200, A: 255}
		target.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(target)
		p.Legend.Add("delta", target)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}

func plotTitle(q denominator.Quadrature) string {
	if q.Len() == 1 {
		return "1 term"
	}
	return strconv.Itoa(q.Len()) + " terms"
}
