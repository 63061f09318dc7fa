// Package semver is a thin wrapper around github.com/Masterminds/semver/v3 that
// adds the loose coercion and validation rules used for framework monikers and
// package specifiers.
package semver

import (
	"regexp"
	"strconv"
	"strings"

	mm "github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

var (
	ErrInvalidVersion          = errors.New("invalid version")
	ErrBuildMetadataNotAllowed = errors.New("build metadata not allowed")
	ErrPrereleaseNotAllowed    = errors.New("prerelease versions not allowed")
)

var coerceRegex = regexp.MustCompile(`(\d+)(?:\.(\d+))?(?:\.(\d+))?`)

// Version is an immutable semantic version. The zero value sorts before every
// parsed version.
type Version struct {
	v *mm.Version
}

// Options controls which optional components Validate accepts.
type Options struct {
	AllowBuild      bool
	AllowPrerelease bool
}

var DefaultOptions = Options{AllowBuild: true, AllowPrerelease: true}

// Parse reads a full major.minor.patch version, optionally followed by
// prerelease and build identifiers. A single leading "=", "v" or "=v" is
// tolerated.
func Parse(raw string) (Version, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "=")
	s = strings.TrimPrefix(s, "v")
	v, err := mm.StrictNewVersion(s)
	if err != nil {
		return Version{}, errors.Wrapf(ErrInvalidVersion, "parse %q: %v", raw, err)
	}
	return Version{v: v}, nil
}

// Coerce extracts the first numeric version found in raw, padding a missing
// minor or patch with zeroes. Prerelease and build identifiers are dropped.
func Coerce(raw string) (Version, error) {
	m := coerceRegex.FindStringSubmatch(raw)
	if m == nil {
		return Version{}, errors.Wrapf(ErrInvalidVersion, "coerce %q", raw)
	}

	var parts [3]uint64
	for i := range parts {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseUint(m[i+1], 10, 64)
		if err != nil {
			return Version{}, errors.Wrapf(ErrInvalidVersion, "coerce %q: %v", raw, err)
		}
		parts[i] = n
	}
	return Version{v: mm.New(parts[0], parts[1], parts[2], "", "")}, nil
}

// ParseValid parses raw and validates it against opts.
func ParseValid(raw string, opts Options) (Version, error) {
	v, err := Parse(raw)
	if err != nil {
		return Version{}, err
	}
	if err := Validate(v, opts); err != nil {
		return Version{}, errors.Wrapf(err, "version %q", raw)
	}
	return v, nil
}

func Validate(v Version, opts Options) error {
	if !opts.AllowBuild && len(v.Build()) > 0 {
		return ErrBuildMetadataNotAllowed
	}
	if !opts.AllowPrerelease && len(v.Prerelease()) > 0 {
		return ErrPrereleaseNotAllowed
	}
	return nil
}

func MustParse(raw string) Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func MustCoerce(raw string) Version {
	v, err := Coerce(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare compares a and b, returning:
// -1 if a < b
//
//	0 if a == b
//	1 if a > b
//
// Build metadata does not take part in the comparison.
func Compare(a, b Version) int {
	if a.v == nil && b.v == nil {
		return 0
	}
	if a.v == nil {
		return -1
	}
	if b.v == nil {
		return 1
	}
	return a.v.Compare(b.v)
}

// Latest returns the greatest of vs. If several are equal the first one wins.
func Latest(vs []Version) (Version, bool) {
	var best Version
	found := false
	for _, v := range vs {
		if !found || Compare(v, best) > 0 {
			best = v
			found = true
		}
	}
	return best, found
}

func (v Version) Compare(other Version) int {
	return Compare(v, other)
}

func (v Version) LessThan(other Version) bool {
	return Compare(v, other) < 0
}

func (v Version) GreaterThan(other Version) bool {
	return Compare(v, other) > 0
}

func (v Version) Equal(other Version) bool {
	return Compare(v, other) == 0
}

func (v Version) IsZero() bool {
	return v.v == nil
}

func (v Version) Major() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Major()
}

func (v Version) Minor() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Minor()
}

func (v Version) Patch() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Patch()
}

func (v Version) Prerelease() []string {
	if v.v == nil {
		return nil
	}
	return splitIdentifiers(v.v.Prerelease())
}

func (v Version) Build() []string {
	if v.v == nil {
		return nil
	}
	return splitIdentifiers(v.v.Metadata())
}

// Original returns the string the version was parsed from.
func (v Version) Original() string {
	if v.v == nil {
		return ""
	}
	return v.v.Original()
}

func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}

func splitIdentifiers(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}
