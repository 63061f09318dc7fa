package tfm

import (
	"sort"
	"strings"
)

// MostPreferable filters candidates down to those consumer can consume and
// returns the most preferable one. When several are equally preferable the
// last one in input order wins. It returns nil, nil if nothing is consumable.
func MostPreferable(consumer Moniker, candidates []Moniker) (Moniker, error) {
	consumable := make([]Moniker, 0, len(candidates))
	for _, c := range candidates {
		if !isNil(c) && consumer.CanConsume(c) {
			consumable = append(consumable, c)
		}
	}
	if len(consumable) == 0 {
		return nil, nil
	}

	byPreference := &ByPreference{Monikers: consumable}
	sort.Stable(byPreference)
	if byPreference.Err != nil {
		return nil, byPreference.Err
	}
	return consumable[len(consumable)-1], nil
}

// ByPreference sorts monikers from least to most preferable. Comparing two
// monikers may fail; the first failure is kept in Err and the pair is then
// treated as equal.
type ByPreference struct {
	Monikers []Moniker
	Err      error
}

func (s *ByPreference) Len() int {
	return len(s.Monikers)
}

func (s *ByPreference) Swap(i, j int) {
	s.Monikers[i], s.Monikers[j] = s.Monikers[j], s.Monikers[i]
}

func (s *ByPreference) Less(i, j int) bool {
	cmp, err := s.Monikers[i].IsPreferableTo(s.Monikers[j])
	if err != nil {
		if s.Err == nil {
			s.Err = err
		}
		return false
	}
	return cmp < 0
}

// Join renders monikers as a separated list, e.g. for log and error messages.
func Join(monikers []Moniker, separator string) string {
	raws := make([]string, len(monikers))
	for i, m := range monikers {
		raws[i] = m.Raw()
	}
	return strings.Join(raws, separator)
}
