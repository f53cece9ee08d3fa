package statcache

import "time"

// Summary is one collection's dashboard stat block: total record count,
// per-field value counts and rounded numeric sums.
type Summary struct {
	Collection string                    `json:"collection"`
	Total      int                       `json:"total"`
	Counts     map[string]map[string]int `json:"counts"`
	Sums       map[string]float64        `json:"sums"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}
