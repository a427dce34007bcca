package charts

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned for a chart key that is not in the catalogue.
var ErrUnknownKind = errors.New("unknown chart kind")

// Kind identifies one of the dashboard's charts.
type Kind int

const (
	KindGenres Kind = iota
	KindTrend
	KindCountries
	KindYearly
	KindDirectors
	KindDuration90s
	KindReleaseLine
	KindCountType
	KindGenres2000

	kindCount
)

var kindKeys = [kindCount]string{
	KindGenres:      "genres",
	KindTrend:       "trend",
	KindCountries:   "countries",
	KindYearly:      "yearly",
	KindDirectors:   "directors",
	KindDuration90s: "duration_90s",
	KindReleaseLine: "release_line",
	KindCountType:   "count_type",
	KindGenres2000:  "genres_2000",
}

var kindTitles = [kindCount]string{
	KindGenres:      "Top 10 Genres",
	KindTrend:       "Movies vs TV Shows Over the Years",
	KindCountries:   "Top 10 Countries",
	KindYearly:      "Content Added Per Year",
	KindDirectors:   "Top 10 Directors",
	KindDuration90s: "Distribution of Movie Durations (1990s)",
	KindReleaseLine: "Netflix Releases Over the Years",
	KindCountType:   "Count of Movies vs TV Shows",
	KindGenres2000:  "Top 10 Genres of Movies Released in 2000",
}

// Kinds returns every chart kind in menu order.
func Kinds() []Kind {
	kinds := make([]Kind, kindCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// ParseKind resolves a chart key such as "genres_2000".
func ParseKind(key string) (Kind, error) {
	for i, k := range kindKeys {
		if k == key {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, key)
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k >= 0 && k < kindCount }

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindKeys[k]
}

// Title is the human-readable chart name shown in the menu.
func (k Kind) Title() string {
	if !k.Valid() {
		return ""
	}
	return kindTitles[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(kindKeys[k]), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
