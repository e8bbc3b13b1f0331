// run.go --  This file is part of goHF project.
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
package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/MirzaevaIV/goHF/config"
	"github.com/MirzaevaIV/goHF/denominator"
	"github.com/MirzaevaIV/goHF/errors"
	"github.com/MirzaevaIV/goHF/input"
	"github.com/MirzaevaIV/goHF/logger"
	"github.com/MirzaevaIV/goHF/report"
)

func newRunCmd(flags *rootFlags, sapt bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <input>",
		Short: "Decompose the denominator of one system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, flags, args[0], sapt)
		},
	}
	if sapt {
		cmd.Use = "sapt <input>"
		cmd.Short = "Decompose the denominators of two monomers on a shared grid"
	}
	return cmd
}

func appInfo() {
	logger.Output.Info("\n              __  __  ____      |\n             /\\ \\/\\ \\/\\  __\\    |" +
		" Author: Mirzaeva Irina Valerievna\n   __     ___\\ \\ \\_\\ \\ \\ \\_/    | email: dairdre@gmail.com\n" +
		" /'_ `\\  / __`\\ \\  _  \\ \\  _\\   | Nikolaev Institute of Inorganic Chemistry SB RAS" +
		" (http://niic.nsc.ru/)\n/\\ \\L\\ \\/\\ \\L\\ \\ \\ \\ \\ \\ \\ \\/   | Novosibirsk, Russia" +
		"\n\\ \\____ \\ \\____/\\ \\_\\ \\_\\ \\_\\   | godenom: energy denominator factorization\n \\/___L\\" +
		" \\/___/  \\/_/\\/_/\\/_/   | Have Fun!!!\n   /\\____/                      |\n   \\_/__/                       |\n")
}

func printOutputDelimiter() {
	logger.Output.Info(strings.Repeat("-", 70))
}

// settings merges the config file, the run file and the command flags, in
// increasing priority.
func settings(cmd *cobra.Command, flags *rootFlags, job *input.Job) (*config.Config, error) {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return nil, err
	}
	if job.Algorithm != "" {
		cfg.Denominator.Algorithm = job.Algorithm
	}
	if job.Delta != 0 {
		cfg.Denominator.Delta = job.Delta
	}
	if job.NProcs != 0 {
		cfg.Runtime.NProcs = job.NProcs
	}
	if job.Debug {
		cfg.Denominator.Debug = true
	}

	pf := cmd.Flags()
	if pf.Changed("debug") {
		cfg.Denominator.Debug = flags.debug
	}
	if pf.Changed("plot") {
		cfg.Output.Plot = flags.plot
	}
	if pf.Changed("summary") {
		cfg.Output.Summary = flags.summary
	}
	return cfg, cfg.Validate()
}

func execute(cmd *cobra.Command, flags *rootFlags, inpFname string, sapt bool) error {
	job, err := input.Read(inpFname)
	if err != nil {
		return err
	}
	if job.IsSAPT() != sapt {
		return systemMismatch(inpFname, sapt)
	}
	cfg, err := settings(cmd, flags, job)
	if err != nil {
		return err
	}

	outFname := input.OutputName(inpFname)
	fmt.Fprintln(cmd.OutOrStdout(), "Output file: ", outFname)
	if err := logger.Initialize(logger.Config{
		File:      outFname,
		Level:     cfg.Log.Level,
		JSON:      cfg.Log.JSON,
		MaxSizeMB: cfg.Log.MaxSizeMB,
	}); err != nil {
		return err
	}
	defer logger.Sync()
	runtime.GOMAXPROCS(cfg.Runtime.NProcs)

	logger.Logger.Info("Starting godenom...")
	appInfo()
	logger.Output.Info("Input file content:")
	printOutputDelimiter()
	for _, line := range job.Lines {
		logger.Output.Info(line)
	}
	printOutputDelimiter()

	opts := []denominator.Option{
		denominator.WithWorkers(cfg.Runtime.NProcs),
		denominator.WithMaxTerms(cfg.Denominator.MaxTerms),
	}
	var (
		summary report.Summary
		quad    *denominator.Quadrature
	)
	if sapt {
		summary, quad, err = decomposeSAPT(job, cfg, opts)
	} else {
		summary, quad, err = decompose(job, cfg, opts)
	}
	if err != nil {
		logger.Logger.Errorw("decomposition failed", "error", err)
		return err
	}
	summary.Input = inpFname

	if err := writeReports(summary, quad, cfg); err != nil {
		return err
	}

	logger.LogMemStats(logger.Logger)
	logger.Logger.Info("Exiting godenom...")
	fmt.Fprintln(cmd.OutOrStdout(), "godenom done.")
	return nil
}

func systemMismatch(inpFname string, sapt bool) error {
	if sapt {
		return errors.WithHint(
			errors.Preconditionf("%s holds no dimer blocks", inpFname),
			"dimer runs need OccupiedA, VirtualA, OccupiedB and VirtualB blocks")
	}
	return errors.WithHint(
		errors.Preconditionf("%s holds dimer blocks", inpFname),
		"use the sapt command for dimer input")
}

func decompose(job *input.Job, cfg *config.Config, opts []denominator.Option) (report.Summary, *denominator.Quadrature, error) {
	occ, err := job.Vector(input.Occupied)
	if err != nil {
		return report.Summary{}, nil, err
	}
	vir, err := job.Vector(input.Virtual)
	if err != nil {
		return report.Summary{}, nil, err
	}

	d, err := denominator.Build(cfg.Denominator.Algorithm, occ, vir, cfg.Denominator.Delta, opts...)
	if err != nil {
		return report.Summary{}, nil, err
	}
	if cfg.Denominator.Debug {
		d.Debug()
	}

	s := report.Summary{
		Algorithm: d.Algorithm(),
		Delta:     d.Delta(),
		NVector:   d.NVector(),
		Converged: d.Converged(),
	}
	if l, ok := d.(*denominator.Laplace); ok {
		q := l.Quadrature()
		s.Fit = report.NewFit(q)
		return s, &q, nil
	}
	return s, nil, nil
}

func decomposeSAPT(job *input.Job, cfg *config.Config, opts []denominator.Option) (report.Summary, *denominator.Quadrature, error) {
	var eps [4]*mat.VecDense
	for k, name := range []string{input.OccupiedA, input.VirtualA, input.OccupiedB, input.VirtualB} {
		v, err := job.Vector(name)
		if err != nil {
			return report.Summary{}, nil, err
		}
		eps[k] = v
	}

	d, err := denominator.BuildSAPT(cfg.Denominator.Algorithm, eps[0], eps[1], eps[2], eps[3],
		cfg.Denominator.Delta, cfg.Denominator.Debug, opts...)
	if err != nil {
		return report.Summary{}, nil, err
	}

	s := report.Summary{
		Algorithm: d.Algorithm(),
		Delta:     d.Delta(),
		NVector:   d.NVector(),
		Converged: d.Converged(),
		SAPT:      true,
	}
	if l, ok := d.(*denominator.SAPTLaplace); ok {
		q := l.Quadrature()
		s.Fit = report.NewFit(q)
		return s, &q, nil
	}
	return s, nil, nil
}

func writeReports(s report.Summary, quad *denominator.Quadrature, cfg *config.Config) error {
	table, err := report.Table(s)
	if err != nil {
		return err
	}
	logger.Output.Info("Denominator decomposition:")
	logger.Output.Info(table)
	printOutputDelimiter()

	if path := cfg.Output.Plot; path != "" {
		if quad == nil {
			logger.Logger.Warnw("fit error plot needs a LAPLACE decomposition, skipped", "algorithm", s.Algorithm)
		} else if err := report.PlotFitError(*quad, path); err != nil {
			return err
		} else {
			logger.Logger.Infow("fit error plot written", "file", path)
		}
	}
	if path := cfg.Output.Summary; path != "" {
		if err := report.WriteSummary(path, s); err != nil {
			return err
		}
		logger.Logger.Infow("summary written", "file", path)
	}
	return nil
}
