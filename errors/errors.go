// errors.go --  This file is part of goHF project.
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

// Package errors re-exports github.com/cockroachdb/errors for goHF and
// defines the sentinel errors of the denominator engine.
//
// Check errors with Is:
//
//	if errors.Is(err, errors.ErrPrecondition) {
//	    // bad eigenvalues or delta
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

var (
	New   = crdb.New
	Newf  = crdb.Newf
	Wrap  = crdb.Wrap
	Wrapf = crdb.Wrapf
	Mark  = crdb.Mark
)

var (
	WithHint    = crdb.WithHint
	GetAllHints = crdb.GetAllHints
)

var (
	Is = crdb.Is
	As = crdb.As
)

// Sentinels of the denominator engine. Wrap them to add context; callers
// match with Is.
var (
	// ErrConfiguration is returned for an unknown algorithm name or an
	// invalid option value.
	ErrConfiguration = New("configuration error")

	// ErrPrecondition is returned for empty or non-finite eigenvalues,
	// a non-positive delta or a non-positive orbital-energy gap.
	ErrPrecondition = New("precondition violated")
)

// Configurationf returns an ErrConfiguration-marked error with a formatted message.
func Configurationf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrConfiguration)
}

// Preconditionf returns an ErrPrecondition-marked error with a formatted message.
func Preconditionf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrPrecondition)
}

// IsConfiguration reports whether err is or wraps ErrConfiguration.
func IsConfiguration(err error) bool {
	return err != nil && Is(err, ErrConfiguration)
}

// IsPrecondition reports whether err is or wraps ErrPrecondition.
func IsPrecondition(err error) bool {
	return err != nil && Is(err, ErrPrecondition)
}
