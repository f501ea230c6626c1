package version

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

var ErrInvalidVersion = errors.New("invalid migration version")
var ErrOverflow = errors.New("migration version overflow")

const (
	// Width is the fixed number of digits in a rendered version.
	Width = 4

	Zero Version = 0
	Max  Version = 9999
)

// Version is a schema version in the range 0..9999. The zero value
// means no migrations have been applied.
type Version int

// Parse converts a 4-digit decimal string into a Version.
func Parse(s string) (Version, error) {
	if len(s) != Width {
		return Zero, errors.Wrapf(ErrInvalidVersion, "[%s] must be exactly %d digits", s, Width)
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return Zero, errors.Wrapf(ErrInvalidVersion, "[%s] is not a decimal number", s)
	}

	return Version(n), nil
}

// FromPrefix parses the leading digits of a migration filename.
func FromPrefix(filename string) (Version, error) {
	if len(filename) < Width {
		return Zero, errors.Wrapf(ErrInvalidVersion, "[%s] is too short to carry a version prefix", filename)
	}

	return Parse(filename[:Width])
}

func (v Version) String() string {
	return fmt.Sprintf("%0*d", Width, int(v))
}

// Next returns the following version or ErrOverflow past Max.
func (v Version) Next() (Version, error) {
	if v >= Max {
		return Zero, errors.Wrapf(ErrOverflow, "cannot increment version beyond %s", Max)
	}

	return v + 1, nil
}

// Prev returns the preceding version, stopping at Zero.
func (v Version) Prev() Version {
	if v <= Zero {
		return Zero
	}

	return v - 1
}

// Ascending lists the versions to pass through when upgrading from
// current to target: current+1..target inclusive. Empty when target
// does not exceed current.
func Ascending(current, target Version) []Version {
	var result []Version
	for v := current + 1; v <= target; v++ {
		result = append(result, v)
	}

	return result
}

// Descending lists the versions to pass through when downgrading from
// current to target: current down to target+1 inclusive. Empty when
// target is not below current.
func Descending(current, target Version) []Version {
	var result []Version
	for v := current; v > target; v-- {
		result = append(result, v)
	}

	return result
}
