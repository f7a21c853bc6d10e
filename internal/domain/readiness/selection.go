package readiness

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// CountrySet is the engaged country filter.  A nil *CountrySet means the
// country control has not been shown yet, which is different from an empty
// set (every country deselected).
type CountrySet struct {
	members map[string]struct{}
	order   []string
	// all marks a set engaged without a choice yet; it stands for every
	// country of the selected regions until WithDefaults resolves it.
	all bool
}

// AllCountries returns an engaged set that defaults to every country of the
// selected regions.
func AllCountries() *CountrySet {
	return &CountrySet{members: map[string]struct{}{}, all: true}
}

// NewCountrySet builds a set preserving the first occurrence order.
func NewCountrySet(countries ...string) *CountrySet {
	s := &CountrySet{members: make(map[string]struct{}, len(countries))}
	for _, c := range countries {
		if _, ok := s.members[c]; ok {
			continue
		}
		s.members[c] = struct{}{}
		s.order = append(s.order, c)
	}
	return s
}

// Contains reports membership.  A nil set contains nothing; an unresolved
// AllCountries set contains everything.
func (s *CountrySet) Contains(country string) bool {
	if s == nil {
		return false
	}
	if s.all {
		return true
	}
	_, ok := s.members[country]
	return ok
}

// IsDefault reports whether s is an unresolved AllCountries set.
func (s *CountrySet) IsDefault() bool { return s != nil && s.all }

// Len returns the number of distinct countries.
func (s *CountrySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Slice returns the countries in insertion order.
func (s *CountrySet) Slice() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Selection is the filter state derived from one interaction.
type Selection struct {
	// Regions to keep.  Nil means every region in the table.
	Regions []string
	// Countries to keep when the country filter is engaged; nil otherwise.
	Countries *CountrySet
	// Influence tier to keep; InfluenceAll or empty disables the predicate.
	Influence InfluenceTier
}

// CountryEngaged reports whether the country predicate is active.
func (s Selection) CountryEngaged() bool { return s.Countries != nil }

// WithDefaults fills Regions from t when the caller did not choose any, and
// resolves an AllCountries set to the countries of those regions.  An
// explicitly empty country set is left empty.
func (s Selection) WithDefaults(t *Table) Selection {
	if s.Regions == nil {
		s.Regions = t.Regions()
	}
	if s.Countries.IsDefault() {
		s.Countries = NewCountrySet(t.Countries(s.Regions)...)
	}
	if s.Influence == "" {
		s.Influence = InfluenceAll
	}
	return s
}

// Key returns a stable digest of the selection, insensitive to the order in
// which regions and countries were picked.
func (s Selection) Key() string {
	var b strings.Builder
	b.WriteString("r=")
	if s.Regions == nil {
		b.WriteString("*")
	} else {
		b.WriteString(joinSorted(s.Regions))
	}
	b.WriteString("|c=")
	switch {
	case s.Countries == nil:
		b.WriteString("*")
	case s.Countries.IsDefault():
		b.WriteString("+")
	default:
		b.WriteString(joinSorted(s.Countries.Slice()))
	}
	b.WriteString("|i=")
	if s.Influence.IsAll() {
		b.WriteString(string(InfluenceAll))
	} else {
		b.WriteString(string(s.Influence))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:12])
}

func joinSorted(values []string) string {
	cp := append([]string(nil), values...)
	sort.Strings(cp)
	return strings.Join(cp, "\x1f")
}

//Personal.AI order the ending
