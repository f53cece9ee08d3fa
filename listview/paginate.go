package listview

// PageView is one page of a filtered view plus the numbers the pagination
// strip renders ("Showing X to Y of Z").
type PageView[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	TotalItems  int `json:"total_items"`
	From        int `json:"from"` // 1-based index of the first item, 0 when empty
	To          int `json:"to"`   // 1-based index of the last item, 0 when empty
}

// paginate slices view into fixed-size pages, clamping current into
// [1, totalPages]. An empty view yields one empty page rather than an
// error.
func paginate[T any](view []T, pageSize, current int) PageView[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := (len(view) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	start := (current - 1) * pageSize
	end := start + pageSize
	if start > len(view) {
		start = len(view)
	}
	if end > len(view) {
		end = len(view)
	}

	pv := PageView[T]{
		Items:       view[start:end],
		CurrentPage: current,
		TotalPages:  totalPages,
		TotalItems:  len(view),
	}
	if len(pv.Items) > 0 {
		pv.From = start + 1
		pv.To = end
	}
	return pv
}
