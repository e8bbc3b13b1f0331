package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkedSentinels(t *testing.T) {
	err := Preconditionf("LAPLACE: virtual energy %g below occupied energy %g", -0.2, -0.1)
	assert.True(t, IsPrecondition(err))
	assert.False(t, IsConfiguration(err))
	assert.Contains(t, err.Error(), "virtual energy -0.2 below occupied energy -0.1")

	err = Configurationf("unknown denominator algorithm %q", "laplace")
	assert.True(t, IsConfiguration(err))
	assert.False(t, IsPrecondition(err))
}

func TestWrappedSentinelStillMatches(t *testing.T) {
	err := Wrap(Preconditionf("delta must be positive"), "monomer A")
	assert.True(t, Is(err, ErrPrecondition))
	assert.Contains(t, err.Error(), "monomer A")
}

func TestNilIsNeither(t *testing.T) {
	assert.False(t, IsPrecondition(nil))
	assert.False(t, IsConfiguration(nil))
}

func TestHintsSurvive(t *testing.T) {
	err := WithHint(Configurationf("bad algorithm"), "use LAPLACE or CHOLESKY")
	assert.Equal(t, []string{"use LAPLACE or CHOLESKY"}, GetAllHints(err))
	assert.True(t, IsConfiguration(err))
}
