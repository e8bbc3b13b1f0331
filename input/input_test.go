package input

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MirzaevaIV/goHF/errors"
)

const singleRun = `# water, HF/cc-pVDZ orbital energies
Algorithm CHOLESKY
Delta 1e-8
nprocs 4
Occupied
  -20.55 -1.34
  -0.70
end
Virtual
  0.18 0.25
end
`

func TestParse_Single(t *testing.T) {
	job, err := Parse(strings.Split(singleRun, "\n"))
	require.NoError(t, err)
	assert.Equal(t, "CHOLESKY", job.Algorithm)
	assert.Equal(t, 1e-8, job.Delta)
	assert.Equal(t, 4, job.NProcs)
	assert.False(t, job.Debug)
	assert.False(t, job.IsSAPT())

	occ, err := job.Vector(Occupied)
	require.NoError(t, err)
	assert.Equal(t, []float64{-20.55, -1.34, -0.70}, occ.RawVector().Data)
	vir, err := job.Vector("Virtual")
	require.NoError(t, err)
	assert.Equal(t, 2, vir.Len())
}

func TestParse_SAPT(t *testing.T) {
	lines := []string{
		"OccupiedA", "-0.5", "end",
		"VIRTUALA", "0.3 0.6", "End",
		"OccupiedB", "-0.7 -0.4", "end",
		"VirtualB", "0.2", "end",
		"Debug",
	}
	job, err := Parse(lines)
	require.NoError(t, err)
	assert.True(t, job.IsSAPT())
	assert.True(t, job.Debug)
	assert.Empty(t, job.Algorithm)

	for _, name := range []string{OccupiedA, VirtualA, OccupiedB, VirtualB} {
		_, err := job.Vector(name)
		assert.NoError(t, err, name)
	}
	_, err = job.Vector(Occupied)
	require.Error(t, err)
	assert.True(t, errors.IsPrecondition(err))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		msg   string
	}{
		{"unterminated block", []string{"Occupied", "-0.5"}, "no end of block Occupied"},
		{"bad energy", []string{"Virtual", "0.1 x", "end"}, "bad energy"},
		{"bad delta", []string{"Delta tiny"}, "bad delta"},
		{"missing value", []string{"Algorithm"}, "needs a value"},
		{"bad nprocs", []string{"nprocs 0"}, "bad nprocs"},
		{"unknown keyword", []string{"Basis sto-3g"}, "unknown keyword"},
		{"duplicate block", []string{"Virtual", "0.1", "end", "Virtual", "0.2", "end"}, "given twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.lines)
			require.Error(t, err)
			assert.True(t, errors.IsPrecondition(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestEmptyBlockGivesEmptyVector(t *testing.T) {
	job, err := Parse([]string{"Occupied", "end"})
	require.NoError(t, err)
	v, err := job.Vector(Occupied)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Len())
}

func TestParse_AlgorithmKeptAsWritten(t *testing.T) {
	job, err := Parse([]string{"ALGORITHM laplace"})
	require.NoError(t, err)
	assert.Equal(t, "laplace", job.Algorithm)
}

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h2o.inp")
	require.NoError(t, os.WriteFile(path, []byte(singleRun), 0644))

	job, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "CHOLESKY", job.Algorithm)
	assert.Equal(t, strings.Split(strings.TrimSuffix(singleRun, "\n"), "\n"), job.Lines)

	_, err = Read(filepath.Join(t.TempDir(), "absent.inp"))
	assert.Error(t, err)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "h2o.out", OutputName("h2o.inp"))
	assert.Equal(t, "runs/h2o.dimer.out", OutputName("runs/h2o.dimer.inp"))
	assert.Equal(t, "runs.d/h2o.out", OutputName("runs.d/h2o"))
	assert.Equal(t, "h2o.out", OutputName("h2o"))
}
