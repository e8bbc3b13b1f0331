package denominator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MirzaevaIV/goHF/errors"
)

type fixedFitter struct {
	q   Quadrature
	err error
}

func (f fixedFitter) Fit(lo, hi, delta float64, gaps []float64) (Quadrature, error) {
	return f.q, f.err
}

func TestTLaplace_TriplesReconstruction(t *testing.T) {
	const delta = 1e-6
	occ, vir := vec(-0.55, -0.41), vec(0.26, 0.74)
	d, err := NewTLaplace(occ, vir, delta)
	require.NoError(t, err)
	require.True(t, d.Converged())
	assert.Equal(t, delta, d.Delta())

	o, v := d.DenominatorOcc(), d.DenominatorVir()
	r, _ := o.Dims()
	assert.Equal(t, d.NVector(), r)

	g := pairGaps(occ, vir)
	nvir := vir.Len()
	value := func(p, q, s int) float64 {
		var sum float64
		for k := 0; k < r; k++ {
			sum += o.At(k, p/nvir) * v.At(k, p%nvir) *
				o.At(k, q/nvir) * v.At(k, q%nvir) *
				o.At(k, s/nvir) * v.At(k, s%nvir)
		}
		return sum
	}
	for p := range g {
		assert.InDelta(t, 1/g[p], value(p, p, p), delta)
		for q := range g {
			for s := range g {
				assert.InDelta(t, 3/(g[p]+g[q]+g[s]), value(p, q, s), 2*delta)
			}
		}
	}
}

func TestTLaplace_Preconditions(t *testing.T) {
	_, err := NewTLaplace(vec(-0.1), vec(-0.2), 1e-6)
	require.Error(t, err)
	assert.True(t, errors.IsPrecondition(err))
	assert.Contains(t, err.Error(), "virtual energy -0.2 below occupied energy -0.1")

	_, err = NewTLaplace(vec(-0.5), vec(0.5), -1)
	require.Error(t, err)
	assert.True(t, errors.IsPrecondition(err))
}

func TestTLaplace_CustomFitter(t *testing.T) {
	f := fixedFitter{q: Quadrature{Nodes: []float64{1.5}, Weights: []float64{2}, Converged: true}}
	d, err := NewTLaplace(vec(-1, -0.5), vec(0.5), 1e-3, WithFitter(f))
	require.NoError(t, err)
	assert.Equal(t, 1, d.NVector())
	assert.Equal(t, []float64{1.5}, d.Quadrature().Nodes)

	// μ = 0, so occ = 2^{1/6}·exp(1.5·ε/3)
	assert.InDelta(t, math.Pow(2, 1.0/6)*math.Exp(-0.5), d.DenominatorOcc().At(0, 0), 1e-15)
	assert.InDelta(t, math.Pow(2, 1.0/6)*math.Exp(-0.25), d.DenominatorVir().At(0, 0), 1e-15)
}

func TestTLaplace_FitterError(t *testing.T) {
	_, err := NewTLaplace(vec(-1), vec(1), 1e-6, WithFitter(fixedFitter{err: errors.New("no grid")}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no grid")

	_, err = NewTLaplace(vec(-1), vec(1), 1e-6, WithFitter(fixedFitter{}))
	require.Error(t, err)
}

func TestTLaplace_Debug(t *testing.T) {
	opt, logs := observed(zap.InfoLevel)
	d, err := NewTLaplace(vec(-0.55, -0.41), vec(0.26, 0.74), 1e-6, opt)
	require.NoError(t, err)

	d.Debug()
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, kernelFull, fields["kernel"])
	assert.EqualValues(t, 64, fields["entries"])
	assert.LessOrEqual(t, fields["max_error"].(float64), 2e-6)
}
