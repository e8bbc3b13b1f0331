// options.go --  This file is part of goHF project.
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
	"runtime"

	"go.uber.org/zap"

	"github.com/MirzaevaIV/goHF/logger"
)

// DefaultMaxTerms is the iteration ceiling of the adaptive Laplace fit.
const DefaultMaxTerms = 64

// Option configures a decomposer.
type Option func(*options)

type options struct {
	log      *zap.SugaredLogger
	workers  int
	maxTerms int
	fitter   Fitter
}

// WithLogger sets the diagnostic logger. The default is the "denominator"
// component logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) { o.log = log }
}

// WithWorkers sets the number of goroutines filling tensors. Values below 1
// keep the default, runtime.GOMAXPROCS(-1).
func WithWorkers(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.workers = n
		}
	}
}

// WithMaxTerms sets the term ceiling of the default Laplace fitter.
func WithMaxTerms(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.maxTerms = n
		}
	}
}

// WithFitter replaces the Laplace quadrature construction.
func WithFitter(f Fitter) Option {
	return func(o *options) { o.fitter = f }
}

func gatherOptions(opts []Option) options {
	o := options{
		workers:  runtime.GOMAXPROCS(-1),
		maxTerms: DefaultMaxTerms,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.ComponentLogger("denominator")
	}
	if o.fitter == nil {
		o.fitter = LaplaceFitter{MaxTerms: o.maxTerms}
	}
	return o
}
