package tfm

type NetStandard struct {
	base
}

// Assert NetStandard implements Moniker interface.
var _ Moniker = (*NetStandard)(nil)

func NewNetStandard(raw, version string) (*NetStandard, error) {
	b, err := newBase(raw, version)
	if err != nil {
		return nil, err
	}
	return &NetStandard{base: b}, nil
}

func mustNetStandard(raw, version string) *NetStandard {
	m, err := NewNetStandard(raw, version)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *NetStandard) Framework() Framework {
	return FrameworkNetStandard
}

func (m *NetStandard) SupportedNetStandardTarget() *NetStandard {
	return m
}

// CanConsume only accepts other netstandard targets; a netstandard library can
// never reference a concrete framework build.
func (m *NetStandard) CanConsume(other Moniker) bool {
	ns, ok := other.(*NetStandard)
	if !ok || ns == nil {
		return false
	}
	return m.version.Compare(ns.version) >= 0
}

// IsPreferableTo compares against another framework through the netstandard
// surface that framework implements.
func (m *NetStandard) IsPreferableTo(other Moniker) (int, error) {
	if isNil(other) {
		return 1, nil
	}
	if ns, ok := other.(*NetStandard); ok {
		return m.version.Compare(ns.version), nil
	}
	return m.IsPreferableTo(asMoniker(other.SupportedNetStandardTarget()))
}

func (m *NetStandard) MostPreferableForConsumption(candidates []Moniker) (Moniker, error) {
	return MostPreferable(m, candidates)
}
