package tfm

type surfaceEntry struct {
	raw        string
	surfaceRaw string
	version    string
}

func buildSurfaceTable(entries []surfaceEntry) map[string]*NetStandard {
	table := make(map[string]*NetStandard, len(entries))
	for _, e := range entries {
		table[e.raw] = mustNetStandard(e.surfaceRaw, e.version)
	}
	return table
}

// CompatibilityTable returns a copy of the raw moniker to netstandard surface
// mapping of framework. NetStandard has no table and yields an empty map.
func CompatibilityTable(framework Framework) map[string]*NetStandard {
	var src map[string]*NetStandard
	switch framework {
	case FrameworkNetCore:
		src = netCoreSurfaces
	case FrameworkNetFramework:
		src = netFrameworkSurfaces
	}

	table := make(map[string]*NetStandard, len(src))
	for raw, surface := range src {
		table[raw] = surface
	}
	return table
}
