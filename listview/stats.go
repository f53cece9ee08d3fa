package listview

import "math"

// Stats holds the summary counters for a record set. They are always
// computed from the complete set, never the filtered view, so active
// filters cannot skew the displayed totals.
type Stats struct {
	Total  int                       `json:"total"`
	Counts map[string]map[string]int `json:"counts"`
	Sums   map[string]float64        `json:"sums"`
}

// computeStats makes a single pass over records. Numeric sums are rounded
// to two decimals (currency display); NaN and infinite values count as 0.
func (s *Schema[T]) computeStats(records []T) Stats {
	st := Stats{
		Total:  len(records),
		Counts: make(map[string]map[string]int, len(s.Categorical)),
		Sums:   make(map[string]float64, len(s.Numeric)),
	}
	for name := range s.Categorical {
		st.Counts[name] = make(map[string]int)
	}
	for name := range s.Numeric {
		st.Sums[name] = 0
	}

	for _, rec := range records {
		for name, field := range s.Categorical {
			if v := field.Value(rec); v != "" {
				st.Counts[name][v]++
			}
		}
		for name, get := range s.Numeric {
			v := get(rec)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			st.Sums[name] += v
		}
	}

	for name, sum := range st.Sums {
		st.Sums[name] = math.Round(sum*100) / 100
	}
	return st
}

// Count returns the number of records whose categorical field carries the
// given value, or 0 for unknown fields/values.
func (st Stats) Count(field, value string) int {
	return st.Counts[field][value]
}

// Sum returns the rounded sum for a numeric field, or 0 if undeclared.
func (st Stats) Sum(field string) float64 {
	return st.Sums[field]
}
