// Package tfm models .NET target framework monikers (TFMs) and the rules that
// decide which framework build of a package a consumer can load and prefers.
package tfm

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/vtex/netweaver-setup/semver"
)

type Framework string

const (
	FrameworkNetStandard  Framework = "NetStandard"
	FrameworkNetCore      Framework = "NetCore"
	FrameworkNetFramework Framework = "NetFramework"
)

var (
	ErrUnrecognizedMoniker   = errors.New("not a valid target framework moniker")
	ErrMissingVersionCapture = errors.New("invalid target framework moniker pattern: missing version capture")
	ErrIncomparableTargets   = errors.New("incomparable target frameworks")
)

// Moniker is implemented by exactly three types: *NetStandard, *NetCore and
// *NetFramework. Monikers are immutable.
type Moniker interface {
	fmt.Stringer

	Framework() Framework
	Raw() string
	Version() semver.Version

	// SupportedNetStandardTarget returns the highest netstandard surface the
	// framework implements, or nil when it is unknown.
	SupportedNetStandardTarget() *NetStandard

	// CanConsume reports whether binaries built for other can be loaded by a
	// consumer targeting this moniker.
	CanConsume(other Moniker) bool

	// IsPreferableTo returns a negative number if this moniker is less
	// preferable than other, a positive one if it is more preferable and zero
	// if both are equally preferable. A nil other is always less preferable.
	IsPreferableTo(other Moniker) (int, error)

	// MostPreferableForConsumption returns the most preferable of the
	// candidates this moniker can consume, or nil if there is none.
	MostPreferableForConsumption(candidates []Moniker) (Moniker, error)

	moniker()
}

type base struct {
	raw     string
	version semver.Version
}

func newBase(raw, version string) (base, error) {
	v, err := semver.Coerce(version)
	if err != nil {
		return base{}, errors.Wrapf(err, "couldn't coerce target framework moniker version %q of %q", version, raw)
	}
	return base{raw: raw, version: v}, nil
}

func (m *base) Raw() string {
	return m.raw
}

func (m *base) String() string {
	return m.raw
}

func (m *base) Version() semver.Version {
	return m.version
}

func (m *base) moniker() {}

// New builds the moniker of the given framework. The version of a
// NetFramework moniker is given as bare digits ("48", "472") and a dot is
// inserted between each of them before coercion.
func New(framework Framework, raw, version string) (Moniker, error) {
	switch framework {
	case FrameworkNetStandard:
		return NewNetStandard(raw, version)
	case FrameworkNetCore:
		return NewNetCore(raw, version)
	case FrameworkNetFramework:
		return NewNetFramework(raw, version)
	}
	return nil, errors.Wrapf(ErrUnrecognizedMoniker, "unknown framework %q", framework)
}

func dotDigits(version string) string {
	return strings.Join(strings.Split(version, ""), ".")
}

// isNil also catches interfaces holding a nil pointer, which is what a
// missing SupportedNetStandardTarget turns into once converted to a Moniker.
func isNil(m Moniker) bool {
	switch m := m.(type) {
	case nil:
		return true
	case *NetStandard:
		return m == nil
	case *NetCore:
		return m == nil
	case *NetFramework:
		return m == nil
	}
	return false
}

func asMoniker(ns *NetStandard) Moniker {
	if ns == nil {
		return nil
	}
	return ns
}

func sameFramework(a, b Moniker) bool {
	return a.Framework() == b.Framework()
}

// canConsume holds the rules shared by the concrete (non-netstandard)
// frameworks.
func canConsume(self, other Moniker) bool {
	if isNil(other) {
		return false
	}
	if sameFramework(self, other) {
		return self.Version().Compare(other.Version()) >= 0
	}
	if ns, ok := other.(*NetStandard); ok {
		surface := self.SupportedNetStandardTarget()
		if surface == nil {
			return false
		}
		return surface.CanConsume(ns)
	}
	return false
}

func isPreferableTo(self, other Moniker) (int, error) {
	if isNil(other) {
		return 1, nil
	}
	if sameFramework(self, other) {
		return self.Version().Compare(other.Version()), nil
	}
	if ns, ok := other.(*NetStandard); ok {
		cmp, err := ns.IsPreferableTo(asMoniker(self.SupportedNetStandardTarget()))
		return -cmp, err
	}
	return 0, errors.Wrapf(ErrIncomparableTargets,
		"cannot compare preferability of %s (%s) and %s (%s) targets",
		self.Framework(), self.Raw(), other.Framework(), other.Raw())
}
