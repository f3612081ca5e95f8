package calllog

// PageSize is the fixed page size used by all log listings.
const PageSize = 10

// Offset converts a 1-based page number into a row offset.
func Offset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}

// TotalPages returns the number of pages needed for total rows; an empty
// collection has zero pages.
func TotalPages(total int64) int {
	return int((total + PageSize - 1) / PageSize)
}

// Paginate slices an already-sorted collection into the given 1-based page.
// Concatenating all pages reconstructs the input with no duplicates or omissions.
func Paginate[T any](items []T, page int) []T {
	start := Offset(page)
	if start >= len(items) {
		return []T{}
	}
	end := start + PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
