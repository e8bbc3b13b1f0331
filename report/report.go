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

// Package report renders decomposition results: a text table for the run
// output, a TOML summary and a PNG plot of the Laplace fit error.
package report

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/pterm/pterm"

	"github.com/MirzaevaIV/goHF/denominator"
	"github.com/MirzaevaIV/goHF/errors"
)

// Summary describes one finished decomposition.
type Summary struct {
	Input     string  `toml:"input"`
	Algorithm string  `toml:"algorithm"`
	Delta     float64 `toml:"delta"`
	NVector   int     `toml:"nvector"`
	Converged bool    `toml:"converged"`
	SAPT      bool    `toml:"sapt"`

	// Fit is set for Laplace decompositions.
	Fit *Fit `toml:"fit,omitempty"`
}

// Fit is the quadrature part of a Summary.
type Fit struct {
	Lo       float64   `toml:"lo"`
	Hi       float64   `toml:"hi"`
	MaxError float64   `toml:"max_error"`
	Nodes    []float64 `toml:"nodes"`
	Weights  []float64 `toml:"weights"`
}

// NewFit copies the quadrature fields of q.
func NewFit(q denominator.Quadrature) *Fit {
	return &Fit{
		Lo:       q.Lo,
		Hi:       q.Hi,
		MaxError: q.MaxError,
		Nodes:    append([]float64(nil), q.Nodes...),
		Weights:  append([]float64(nil), q.Weights...),
	}
}

// Table renders s as a plain two-column table.
func Table(s Summary) (string, error) {
	data := pterm.TableData{
		{"Quantity", "Value"},
		{"Algorithm", s.Algorithm},
		{"Delta", strconv.FormatFloat(s.Delta, 'e', 2, 64)},
		{"Vectors", strconv.Itoa(s.NVector)},
		{"Converged", strconv.FormatBool(s.Converged)},
	}
	if s.SAPT {
		data = append(data, []string{"System", "dimer"})
	}
	if s.Fit != nil {
		data = append(data,
			[]string{"Fit domain", fmt.Sprintf("[%.4f, %.4f]", s.Fit.Lo, s.Fit.Hi)},
			[]string{"Fit error", strconv.FormatFloat(s.Fit.MaxError, 'e', 3, 64)},
		)
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return "", errors.Wrap(err, "render summary table")
	}
	return pterm.RemoveColorFromString(out), nil
}

// WriteSummary writes s as TOML to path.
func WriteSummary(path string, s Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create summary")
	}
	if err := toml.NewEncoder(f).Encode(s); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode summary %s", path)
	}
	return errors.Wrap(f.Close(), "close summary")
}

// ReadSummary reads a summary written by WriteSummary.
func ReadSummary(path string) (Summary, error) {
	var s Summary
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Summary{}, errors.Wrapf(err, "decode summary %s", path)
	}
	return s, nil
}
