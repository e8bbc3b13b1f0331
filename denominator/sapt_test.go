package denominator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/MirzaevaIV/goHF/errors"
)

var (
	occA = vec(-0.62, -0.48)
	virA = vec(0.18, 0.55, 1.30)
	occB = vec(-0.91, -0.44, -0.37)
	virB = vec(0.25, 0.80)
)

func TestBuildSAPT_Dispatch(t *testing.T) {
	d, err := BuildSAPT(AlgorithmLaplace, occA, virA, occB, virB, 1e-6, false)
	require.NoError(t, err)
	assert.IsType(t, &SAPTLaplace{}, d)

	d, err = BuildSAPT(AlgorithmCholesky, occA, virA, occB, virB, 1e-6, false)
	require.NoError(t, err)
	assert.IsType(t, &SAPTCholesky{}, d)

	_, err = BuildSAPT("SAPT", occA, virA, occB, virB, 1e-6, false)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestBuildSAPT_Preconditions(t *testing.T) {
	for _, algo := range algorithms {
		_, err := BuildSAPT(algo, vec(-0.1), vec(-0.2), occB, virB, 1e-6, false)
		require.Error(t, err)
		assert.True(t, errors.IsPrecondition(err))
		assert.Contains(t, err.Error(), algo+" monomer A")
		assert.Contains(t, err.Error(), "virtual energy -0.2 below occupied energy -0.1")

		_, err = BuildSAPT(algo, occA, virA, vec(-0.1), vec(-0.2), 1e-6, false)
		require.Error(t, err)
		assert.True(t, errors.IsPrecondition(err))
		assert.Contains(t, err.Error(), "monomer B")

		_, err = BuildSAPT(algo, occA, virA, &mat.VecDense{}, virB, 1e-6, false)
		require.Error(t, err)
		assert.True(t, errors.IsPrecondition(err))

		_, err = BuildSAPT(algo, occA, virA, occB, virB, 0, false)
		require.Error(t, err)
		assert.True(t, errors.IsPrecondition(err))
	}
}

func TestBuildSAPT_SharedRank(t *testing.T) {
	gA, gB := pairGaps(occA, virA), pairGaps(occB, virB)
	const delta = 1e-6
	for _, algo := range algorithms {
		t.Run(algo, func(t *testing.T) {
			d, err := BuildSAPT(algo, occA, virA, occB, virB, delta, false)
			require.NoError(t, err)
			require.True(t, d.Converged())

			rA, cA := d.DenominatorA().Dims()
			rB, cB := d.DenominatorB().Dims()
			assert.Equal(t, d.NVector(), rA)
			assert.Equal(t, d.NVector(), rB)
			assert.Equal(t, len(gA), cA)
			assert.Equal(t, len(gB), cB)

			for p := range gA {
				assert.InDelta(t, 1/gA[p], kernel(d.DenominatorA(), d.DenominatorA(), p, p), delta)
				for q := range gB {
					assert.InDelta(t, 2/(gA[p]+gB[q]), kernel(d.DenominatorA(), d.DenominatorB(), p, q), 2*delta)
				}
			}
			for q := range gB {
				assert.InDelta(t, 1/gB[q], kernel(d.DenominatorB(), d.DenominatorB(), q, q), delta)
			}
		})
	}
}

func TestSAPTLaplace_SharesQuadrature(t *testing.T) {
	d, err := NewSAPTLaplace(occA, virA, occB, virB, 1e-6, false)
	require.NoError(t, err)

	q := d.Quadrature()
	assert.Equal(t, d.NVector(), q.Len())
	assert.InDelta(t, 0.25+0.37, q.Lo, 1e-15)
	assert.InDelta(t, 1.30+0.62, q.Hi, 1e-15)

	for _, f := range []mat.Matrix{d.DenominatorOccA(), d.DenominatorVirA(), d.DenominatorOccB(), d.DenominatorVirB()} {
		r, _ := f.Dims()
		assert.Equal(t, q.Len(), r)
	}

	// occ·vir of one orbital pair is √w·exp(−t·gap/2) for both monomers.
	for k := range q.Nodes {
		gapA := 0.18 + 0.48
		gotA := d.DenominatorOccA().At(k, 1) * d.DenominatorVirA().At(k, 0)
		gapB := 0.25 + 0.37
		gotB := d.DenominatorOccB().At(k, 2) * d.DenominatorVirB().At(k, 0)
		assert.InEpsilon(t, sqrtWeightExp(q, k, gapA), gotA, 1e-12)
		assert.InEpsilon(t, sqrtWeightExp(q, k, gapB), gotB, 1e-12)
	}
}

func TestSAPTLaplace_CheckSplit(t *testing.T) {
	opt, logs := observed(zap.InfoLevel)
	d, err := NewSAPTLaplace(occA, virA, occB, virB, 1e-6, false, opt)
	require.NoError(t, err)
	require.Equal(t, 0, logs.Len())

	d.CheckSplit()
	entries := logs.FilterMessage("sapt split accuracy").All()
	require.Len(t, entries, 2)
	for _, e := range entries {
		fields := e.ContextMap()
		assert.InDelta(t, 0, fields["split_deviation"].(float64), 1e-15)
		assert.LessOrEqual(t, fields["max_error"].(float64), 2e-6)
	}
}

func TestBuildSAPT_DebugRunsChecks(t *testing.T) {
	opt, logs := observed(zap.InfoLevel)
	_, err := BuildSAPT(AlgorithmLaplace, occA, virA, occB, virB, 1e-6, true, opt)
	require.NoError(t, err)
	assert.Equal(t, 3, logs.FilterMessage("sapt denominator accuracy").Len())
	assert.Equal(t, 2, logs.FilterMessage("sapt split accuracy").Len())

	opt, logs = observed(zap.InfoLevel)
	_, err = BuildSAPT(AlgorithmCholesky, occA, virA, occB, virB, 1e-6, true, opt)
	require.NoError(t, err)
	assert.Equal(t, 3, logs.FilterMessage("sapt denominator accuracy").Len())
	for _, e := range logs.All() {
		assert.LessOrEqual(t, e.ContextMap()["max_error"].(float64), 1e-6+1e-12)
	}
}

func TestSAPTCholesky_IdenticalMonomers(t *testing.T) {
	d, err := NewSAPTCholesky(occA, virA, occA, virA, 1e-8, false)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(d.DenominatorA(), d.DenominatorB(), 1e-12))
}

func sqrtWeightExp(q Quadrature, k int, gap float64) float64 {
	return math.Sqrt(q.Weights[k]) * math.Exp(-q.Nodes[k]*gap/2)
}
