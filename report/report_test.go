package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/MirzaevaIV/goHF/denominator"
)

func laplace(t *testing.T) *denominator.Laplace {
	t.Helper()
	d, err := denominator.NewLaplace(
		mat.NewVecDense(2, []float64{-0.6, -0.45}),
		mat.NewVecDense(3, []float64{0.2, 0.7, 1.5}),
		1e-6)
	require.NoError(t, err)
	return d
}

func TestSummaryRoundTrip(t *testing.T) {
	d := laplace(t)
	s := Summary{
		Input:     "h2o.inp",
		Algorithm: d.Algorithm(),
		Delta:     d.Delta(),
		NVector:   d.NVector(),
		Converged: d.Converged(),
		Fit:       NewFit(d.Quadrature()),
	}
	path := filepath.Join(t.TempDir(), "h2o.toml")
	require.NoError(t, WriteSummary(path, s))

	got, err := ReadSummary(path)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `algorithm = "LAPLACE"`)
	assert.Contains(t, string(data), "[fit]")
}

func TestSummaryWithoutFit(t *testing.T) {
	s := Summary{Algorithm: "CHOLESKY", Delta: 1e-6, NVector: 5, Converged: true, SAPT: true}
	path := filepath.Join(t.TempDir(), "dimer.toml")
	require.NoError(t, WriteSummary(path, s))

	got, err := ReadSummary(path)
	require.NoError(t, err)
	assert.Nil(t, got.Fit)
	assert.Equal(t, s, got)
}

func TestReadSummary_Missing(t *testing.T) {
	_, err := ReadSummary(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestTable(t *testing.T) {
	d := laplace(t)
	out, err := Table(Summary{
		Algorithm: d.Algorithm(),
		Delta:     d.Delta(),
		NVector:   d.NVector(),
		Converged: d.Converged(),
		Fit:       NewFit(d.Quadrature()),
	})
	require.NoError(t, err)
	assert.Contains(t, out, "LAPLACE")
	assert.Contains(t, out, "1.00e-06")
	assert.Contains(t, out, "Fit domain")
	assert.NotContains(t, out, "dimer")
}

func TestFitErrorPoints(t *testing.T) {
	q := laplace(t).Quadrature()
	pts := FitErrorPoints(q, 50)
	require.Len(t, pts, 50)
	assert.InDelta(t, q.Lo, pts[0].X, 1e-12)
	assert.InDelta(t, q.Hi, pts[49].X, 1e-12)
	for _, p := range pts {
		assert.GreaterOrEqual(t, p.Y, plotFloor)
		assert.LessOrEqual(t, p.Y, 2*q.Delta)
	}
}

func TestPlotFitError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fit.png")
	require.NoError(t, PlotFitError(laplace(t).Quadrature(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, PlotFitError(denominator.Quadrature{}, path))
}
