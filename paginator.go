package postlist

// Paginator is a struct that holds information about pagination, such as the total number of pages, the current page,
// the next and previous pages, the page size, whether there are more pages, whether there are post lists,
// and the total number of post lists matched.
type Paginator struct {
	TotalPages  int
	CurrentPage int
	NextPage    int
	PrevPage    int
	PageSize    int
	HasNext     bool
	HasPrev     bool
	HasLists    bool
	TotalLists  int
	PostLists   []*PostList
}

// NewPaginator returns a Paginator struct with the given parameters.
func NewPaginator(lists []*PostList, total, currentPage, pageSize int) Paginator {
	if pageSize < 1 {
		pageSize = 1
	}

	totalPages := (total + pageSize - 1) / pageSize
	nextPage := currentPage + 1
	prevPage := currentPage - 1

	if nextPage > totalPages {
		nextPage = totalPages
	}

	if prevPage < 1 {
		prevPage = 1
	}

	if lists == nil {
		lists = []*PostList{}
	}

	return Paginator{
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		NextPage:    nextPage,
		PrevPage:    prevPage,
		PageSize:    pageSize,
		HasNext:     currentPage < totalPages,
		HasPrev:     currentPage > 1,
		HasLists:    len(lists) > 0,
		TotalLists:  total,
		PostLists:   lists,
	}
}

// PageBounds calculates the start and end indices of a page within totalItems
func PageBounds(pageNum, pageSize, totalItems int) (start, end int) {
	start = (pageNum - 1) * pageSize
	if start > totalItems {
		start = totalItems
	}
	end = start + pageSize
	if end > totalItems {
		end = totalItems
	}
	return start, end
}
