// main.go --  This file is part of goHF project.
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

// Command godenom decomposes orbital-energy denominators read from a goHF
// run file and writes the report next to it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MirzaevaIV/goHF/errors"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

type rootFlags struct {
	config  string
	debug   bool
	plot    string
	summary string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "godenom",
		Short: "Laplace and Cholesky decompositions of orbital-energy denominators",
		Long: `godenom factorizes the energy denominators of MP2-like and SAPT
expressions from occupied and virtual orbital energies.

Examples:
  godenom run h2o.inp                 # single system, report in h2o.out
  godenom sapt dimer.inp --debug      # two monomers on one shared grid
  godenom run h2o.inp --plot fit.png  # also plot the Laplace fit error`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "TOML settings file (GOHF_* variables also apply)")
	pf.BoolVar(&flags.debug, "debug", false, "log accuracy reports after decomposition")
	pf.StringVar(&flags.plot, "plot", "", "write a PNG of the Laplace fit error to this file")
	pf.StringVar(&flags.summary, "summary", "", "write a TOML summary to this file")

	root.AddCommand(newRunCmd(flags, false))
	root.AddCommand(newRunCmd(flags, true))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "godenom", version)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}
