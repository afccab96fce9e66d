package response

import "strconv"

// Paginate slices an in-memory list by the page and page_size query values.
// Invalid values fall back to page 1 and size 10.
func Paginate[T any](items []T, pageRaw, pageSizeRaw string) ([]T, PaginationMeta) {
	page, _ := strconv.Atoi(pageRaw)
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(pageSizeRaw)
	if pageSize < 1 {
		pageSize = 10
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return items[start:end], NewPaginationMeta(int64(len(items)), page, pageSize)
}
