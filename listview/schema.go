// Package listview is the shared view-model behind every dashboard
// collection page: one authoritative record set per page, a filter over
// declared fields, summary counters computed from the unfiltered set, and
// fixed-size pagination. Pages declare their fields in a Schema and get
// identical search/filter/stats/paging behavior instead of hand-rolling it.
package listview

// MatchMode selects how a categorical filter value is compared.
type MatchMode int

const (
	// MatchExact requires a case-insensitive equality match.
	MatchExact MatchMode = iota
	// MatchContains requires a case-insensitive substring match.
	MatchContains
)

// AllValues is the sentinel filter value meaning "unconstrained".
// An empty string means the same thing.
const AllValues = "all"

// CategoricalField describes one enum-like field usable as a filter.
type CategoricalField[T any] struct {
	Value func(T) string
	Mode  MatchMode
}

// Schema declares how records of type T are identified, searched,
// filtered, summarized and patched.
type Schema[T any] struct {
	// ID returns the record's unique identifier.
	ID func(T) string

	// Searchable fields are matched by free-text search (case-insensitive
	// substring, OR across fields). A record with every searchable field
	// empty never matches a non-empty search term.
	Searchable []func(T) string

	// Categorical maps filter names to field accessors.
	Categorical map[string]CategoricalField[T]

	// Numeric maps stat names to accessors summed by the aggregator.
	Numeric map[string]func(T) float64

	// Apply merges one field of a patch into the record. It reports
	// whether the field was recognized; unknown fields are skipped so a
	// sparse patch can never corrupt a record.
	Apply func(rec *T, field string, value any) bool
}

// FilterState is the combination of free-text search and categorical
// constraints currently applied to a view.
type FilterState struct {
	Search      string
	Categorical map[string]string
}

func (f FilterState) clone() FilterState {
	out := FilterState{Search: f.Search}
	if len(f.Categorical) > 0 {
		out.Categorical = make(map[string]string, len(f.Categorical))
		for k, v := range f.Categorical {
			out.Categorical[k] = v
		}
	}
	return out
}

// constrained reports whether a selected categorical value actually
// constrains the view.
func constrained(v string) bool {
	return v != "" && v != AllValues
}
