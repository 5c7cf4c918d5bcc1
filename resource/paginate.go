package resource

// Page is one window over a larger result set.
type Page[T any] struct {
	Items      []T
	Page       int // 1-based, clamped into range
	PerPage    int
	TotalItems int
	TotalPages int
}

// Paginate slices items into the requested window. page is 1-based and is
// clamped to the valid range; perPage <= 0 falls back to 10. The returned
// Items slice aliases the input.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = 10
	}
	total := len(items)
	pages := (total + perPage - 1) / perPage
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	lo := (page - 1) * perPage
	hi := lo + perPage
	if lo > total {
		lo = total
	}
	if hi > total {
		hi = total
	}

	return Page[T]{
		Items:      items[lo:hi],
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: pages,
	}
}
