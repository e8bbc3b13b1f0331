// input.go --  This file is part of goHF project.
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

// Package input reads goHF run files. A run file is a list of keyword lines
// and blocks closed by "end":
//
//	Algorithm LAPLACE
//	Delta 1e-8
//	nprocs 4
//	Occupied
//	  -0.57 -0.31
//	end
//	Virtual
//	  0.12 0.55 1.3
//	end
//
// Dimer runs use OccupiedA, VirtualA, OccupiedB and VirtualB blocks.
// Keywords are not case-sensitive, values are.
package input

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"

	"github.com/MirzaevaIV/goHF/errors"
	"github.com/MirzaevaIV/goHF/logger"
)

// Energy blocks.
const (
	Occupied  = "occupied"
	Virtual   = "virtual"
	OccupiedA = "occupieda"
	VirtualA  = "virtuala"
	OccupiedB = "occupiedb"
	VirtualB  = "virtualb"
)

var blockNames = []string{Occupied, Virtual, OccupiedA, VirtualA, OccupiedB, VirtualB}

// Job is a parsed run file. Unset scalars are zero.
type Job struct {
	// Algorithm is kept as written; names are matched case-sensitively
	// when the job is run.
	Algorithm string
	Delta     float64
	NProcs    int
	Debug     bool

	// Blocks maps a lower-case block name to its energies.
	Blocks map[string][]float64
	// Lines is the file content as read.
	Lines []string
}

// ReadFileLines returns the lines of fname.
func ReadFileLines(fname string) ([]string, error) {
	file, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read input file")
	}
	defer file.Close()

	var result []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		result = append(result, scanner.Text())
	}
	return result, errors.Wrapf(scanner.Err(), "reading %s", fname)
}

// Read reads and parses a run file.
func Read(fname string) (*Job, error) {
	lines, err := ReadFileLines(fname)
	if err != nil {
		return nil, err
	}
	return Parse(lines)
}

// Parse parses run file lines.
func Parse(data []string) (*Job, error) {
	log := logger.ComponentLogger("input")
	job := &Job{Blocks: make(map[string][]float64), Lines: data}

	for i := 0; i < len(data); i++ {
		words := strings.Fields(data[i])
		if len(words) == 0 || strings.HasPrefix(words[0], "#") {
			continue
		}
		key := strings.ToLower(words[0])

		if slices.Contains(blockNames, key) {
			end, err := findBlockEnd(i, data, words[0])
			if err != nil {
				return nil, err
			}
			if _, dup := job.Blocks[key]; dup {
				return nil, errors.Preconditionf("block %s given twice", words[0])
			}
			values, err := parseBlock(data[i+1:end], words[0])
			if err != nil {
				return nil, err
			}
			job.Blocks[key] = values
			log.Debugf("Parsing input. %s block found at lines %d -- %d.", words[0], i, end)
			i = end
			continue
		}

		switch key {
		case "algorithm":
			v, err := value(words, i)
			if err != nil {
				return nil, err
			}
			job.Algorithm = v
		case "delta":
			v, err := value(words, i)
			if err != nil {
				return nil, err
			}
			if job.Delta, err = strconv.ParseFloat(v, 64); err != nil {
				return nil, errors.Preconditionf("line %d: bad delta %q", i+1, v)
			}
		case "nprocs":
			v, err := value(words, i)
			if err != nil {
				return nil, err
			}
			if job.NProcs, err = strconv.Atoi(v); err != nil || job.NProcs < 1 {
				return nil, errors.Preconditionf("line %d: bad nprocs %q", i+1, v)
			}
		case "debug":
			job.Debug = true
		default:
			return nil, errors.WithHint(
				errors.Preconditionf("line %d: unknown keyword %q", i+1, words[0]),
				"known keywords: Algorithm, Delta, nprocs, Debug and the energy blocks")
		}
	}
	return job, nil
}

// IsSAPT reports whether the job holds a dimer.
func (j *Job) IsSAPT() bool {
	for _, name := range []string{OccupiedA, VirtualA, OccupiedB, VirtualB} {
		if _, ok := j.Blocks[name]; ok {
			return true
		}
	}
	return false
}

// Vector returns the energies of block name, or an error naming the missing
// block. An empty block gives an empty vector.
func (j *Job) Vector(name string) (*mat.VecDense, error) {
	values, ok := j.Blocks[strings.ToLower(name)]
	if !ok {
		return nil, errors.Preconditionf("no %s block in input", name)
	}
	if len(values) == 0 {
		return &mat.VecDense{}, nil
	}
	return mat.NewVecDense(len(values), slices.Clone(values)), nil
}

// OutputName derives the output file name: the input name with its
// extension replaced by "out".
func OutputName(inpFname string) string {
	dot := strings.LastIndex(inpFname, ".")
	if dot <= strings.LastIndex(inpFname, string(os.PathSeparator)) {
		return inpFname + ".out"
	}
	return inpFname[:dot] + ".out"
}

func value(words []string, line int) (string, error) {
	if len(words) < 2 {
		return "", errors.Preconditionf("line %d: %s needs a value", line+1, words[0])
	}
	return words[1], nil
}

func findBlockEnd(n int, data []string, bname string) (int, error) {
	for i := n + 1; i < len(data); i++ {
		words := strings.Fields(data[i])
		if len(words) > 0 && strings.ToLower(words[0]) == "end" {
			return i, nil
		}
	}
	return 0, errors.Preconditionf("no end of block %s", bname)
}

func parseBlock(lines []string, bname string) ([]float64, error) {
	var values []float64
	for _, line := range lines {
		for _, w := range strings.Fields(line) {
			x, err := strconv.ParseFloat(w, 64)
			if err != nil {
				return nil, errors.Preconditionf("block %s: bad energy %q", bname, w)
			}
			values = append(values, x)
		}
	}
	return values, nil
}
