package tfm

type NetFramework struct {
	base
}

// Assert NetFramework implements Moniker interface.
var _ Moniker = (*NetFramework)(nil)

// The 4.6+ entries name netstandard2.1 but carry version 2.0: .NET Framework
// only fully implements netstandard2.0, so a netstandard2.1 build is never
// consumable from it.
var netFrameworkSurfaces = buildSurfaceTable([]surfaceEntry{
	{"net481", "netstandard2.1", "2.0"},
	{"net48", "netstandard2.1", "2.0"},
	{"net472", "netstandard2.1", "2.0"},
	{"net471", "netstandard2.1", "2.0"},
	{"net47", "netstandard2.1", "2.0"},
	{"net462", "netstandard2.1", "2.0"},
	{"net461", "netstandard2.1", "2.0"},
	{"net46", "netstandard2.1", "2.0"},

	{"net452", "netstandard1.2", "1.2"},
	{"net451", "netstandard1.2", "1.2"},

	{"net45", "netstandard1.1", "1.1"},
})

// NewNetFramework takes the version as the bare digits of the moniker, e.g.
// "472" for net472.
func NewNetFramework(raw, version string) (*NetFramework, error) {
	b, err := newBase(raw, dotDigits(version))
	if err != nil {
		return nil, err
	}
	return &NetFramework{base: b}, nil
}

func (m *NetFramework) Framework() Framework {
	return FrameworkNetFramework
}

func (m *NetFramework) SupportedNetStandardTarget() *NetStandard {
	return netFrameworkSurfaces[m.raw]
}

func (m *NetFramework) CanConsume(other Moniker) bool {
	return canConsume(m, other)
}

func (m *NetFramework) IsPreferableTo(other Moniker) (int, error) {
	return isPreferableTo(m, other)
}

func (m *NetFramework) MostPreferableForConsumption(candidates []Moniker) (Moniker, error) {
	return MostPreferable(m, candidates)
}
