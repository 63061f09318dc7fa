package tfm

type NetCore struct {
	base
}

// Assert NetCore implements Moniker interface.
var _ Moniker = (*NetCore)(nil)

var netCoreSurfaces = buildSurfaceTable([]surfaceEntry{
	{"net8.0", "netstandard2.1", "2.1"},
	{"net7.0", "netstandard2.1", "2.1"},
	{"net6.0", "netstandard2.1", "2.1"},
	{"net5.0", "netstandard2.1", "2.1"},
	{"net3.1", "netstandard2.1", "2.1"},
	{"net3.0", "netstandard2.1", "2.1"},

	{"net2.2", "netstandard2.0", "2.0"},
	{"net2.1", "netstandard2.0", "2.0"},
	{"net2.0", "netstandard2.0", "2.0"},

	{"net1.1", "netstandard1.6", "1.6"},
	{"net1.0", "netstandard1.6", "1.6"},
})

func NewNetCore(raw, version string) (*NetCore, error) {
	b, err := newBase(raw, version)
	if err != nil {
		return nil, err
	}
	return &NetCore{base: b}, nil
}

func (m *NetCore) Framework() Framework {
	return FrameworkNetCore
}

func (m *NetCore) SupportedNetStandardTarget() *NetStandard {
	return netCoreSurfaces[m.raw]
}

func (m *NetCore) CanConsume(other Moniker) bool {
	return canConsume(m, other)
}

func (m *NetCore) IsPreferableTo(other Moniker) (int, error) {
	return isPreferableTo(m, other)
}

func (m *NetCore) MostPreferableForConsumption(candidates []Moniker) (Moniker, error) {
	return MostPreferable(m, candidates)
}
