package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MirzaevaIV/goHF/errors"
	"github.com/MirzaevaIV/goHF/logger"
	"github.com/MirzaevaIV/goHF/report"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	procs := runtime.GOMAXPROCS(0)
	t.Cleanup(func() {
		runtime.GOMAXPROCS(procs)
		logger.Logger = zap.NewNop().Sugar()
		logger.Output = zap.NewNop().Sugar()
	})

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_Laplace(t *testing.T) {
	inp := writeInput(t, "h2o.inp", `Algorithm LAPLACE
Delta 1e-6
nprocs 2
Occupied
  -0.61 -0.49
end
Virtual
  0.19 0.66 1.42
end
`)
	dir := filepath.Dir(inp)
	summary := filepath.Join(dir, "h2o.toml")
	plot := filepath.Join(dir, "fit.png")

	stdout, err := runCLI(t, "run", inp, "--summary", summary, "--plot", plot, "--debug")
	require.NoError(t, err)
	assert.Contains(t, stdout, "godenom done.")

	s, err := report.ReadSummary(summary)
	require.NoError(t, err)
	assert.Equal(t, "LAPLACE", s.Algorithm)
	assert.Equal(t, inp, s.Input)
	assert.True(t, s.Converged)
	require.NotNil(t, s.Fit)
	assert.Len(t, s.Fit.Nodes, s.NVector)
	assert.FileExists(t, plot)

	logger.Sync()
	out, err := os.ReadFile(filepath.Join(dir, "h2o.out"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "Input file content:")
	assert.Contains(t, string(out), "Denominator decomposition:")
	assert.Contains(t, string(out), "laplace denominator accuracy")
}

func TestSAPT_Cholesky(t *testing.T) {
	inp := writeInput(t, "dimer.inp", `Algorithm CHOLESKY
OccupiedA
  -0.5
end
VirtualA
  0.3 0.6
end
OccupiedB
  -0.7 -0.4
end
VirtualB
  0.2
end
`)
	summary := filepath.Join(filepath.Dir(inp), "dimer.toml")
	_, err := runCLI(t, "sapt", inp, "--summary", summary)
	require.NoError(t, err)

	s, err := report.ReadSummary(summary)
	require.NoError(t, err)
	assert.True(t, s.SAPT)
	assert.Equal(t, "CHOLESKY", s.Algorithm)
	assert.Nil(t, s.Fit)
	assert.GreaterOrEqual(t, s.NVector, 1)
}

func TestRun_PreconditionError(t *testing.T) {
	inp := writeInput(t, "bad.inp", "Occupied\n-0.1\nend\nVirtual\n-0.2\nend\n")
	_, err := runCLI(t, "run", inp)
	require.Error(t, err)
	assert.True(t, errors.IsPrecondition(err))
	assert.Contains(t, err.Error(), "virtual energy -0.2 below occupied energy -0.1")
}

func TestRun_RejectsDimerInput(t *testing.T) {
	inp := writeInput(t, "dimer.inp", "OccupiedA\n-0.5\nend\nVirtualA\n0.3\nend\n")
	_, err := runCLI(t, "run", inp)
	require.Error(t, err)
	assert.True(t, errors.IsPrecondition(err))
	assert.Contains(t, err.Error(), "holds dimer blocks")
	assert.Contains(t, errors.GetAllHints(err), "use the sapt command for dimer input")
}

func TestSAPT_RejectsMonomerInput(t *testing.T) {
	inp := writeInput(t, "h2.inp", "Occupied\n-0.58\nend\nVirtual\n0.67\nend\n")
	_, err := runCLI(t, "sapt", inp)
	require.Error(t, err)
	assert.True(t, errors.IsPrecondition(err))
	assert.Contains(t, err.Error(), "holds no dimer blocks")
}

func TestRun_AlgorithmIsCaseSensitive(t *testing.T) {
	inp := writeInput(t, "h2.inp", "Algorithm laplace\nOccupied\n-0.58\nend\nVirtual\n0.67\nend\n")
	_, err := runCLI(t, "run", inp)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
	assert.Contains(t, err.Error(), `"laplace"`)
}

func TestRun_UnknownAlgorithm(t *testing.T) {
	inp := writeInput(t, "bad.inp", "Algorithm QR\nOccupied\n-0.5\nend\nVirtual\n0.5\nend\n")
	_, err := runCLI(t, "run", inp)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestRun_ConfigFile(t *testing.T) {
	inp := writeInput(t, "h2.inp", "Occupied\n-0.58\nend\nVirtual\n0.67\nend\n")
	dir := filepath.Dir(inp)
	summary := filepath.Join(dir, "h2.toml")
	cfg := filepath.Join(dir, "godenom.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(`[denominator]
algorithm = "CHOLESKY"
delta = 1e-9

[output]
summary = "`+filepath.ToSlash(summary)+`"
`), 0644))

	_, err := runCLI(t, "run", inp, "--config", cfg)
	require.NoError(t, err)
	s, err := report.ReadSummary(summary)
	require.NoError(t, err)
	assert.Equal(t, "CHOLESKY", s.Algorithm)
	assert.Equal(t, 1e-9, s.Delta)
	assert.Equal(t, 1, s.NVector)
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "godenom "+version)
}
