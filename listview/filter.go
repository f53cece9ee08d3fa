package listview

import "strings"

// matches applies the filter conjunction: the search term must hit at
// least one searchable field, and every constrained categorical filter
// must hit its field. Missing values are empty strings and never match a
// non-empty constraint.
func (s *Schema[T]) matches(rec T, f FilterState) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		hit := false
		for _, get := range s.Searchable {
			if v := get(rec); v != "" && strings.Contains(strings.ToLower(v), term) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	for name, selected := range f.Categorical {
		if !constrained(selected) {
			continue
		}
		field, ok := s.Categorical[name]
		if !ok {
			continue
		}
		v := strings.ToLower(field.Value(rec))
		want := strings.ToLower(selected)
		switch field.Mode {
		case MatchContains:
			if v == "" || !strings.Contains(v, want) {
				return false
			}
		default:
			if v != want {
				return false
			}
		}
	}
	return true
}

// filtered returns the order-preserving subset of records matching f.
func (s *Schema[T]) filtered(records []T, f FilterState) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if s.matches(rec, f) {
			out = append(out, rec)
		}
	}
	return out
}
