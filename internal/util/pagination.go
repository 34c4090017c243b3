package util

const DefaultPageSize = 10

// Calculate clamps page/size to sane bounds and converts them to offset/limit.
// Used by the supplemental list endpoints; the catalog core validates bounds
// strictly instead of clamping.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = DefaultPageSize
	}
	from = (page - 1) * size
	return from, size
}

// TotalPages is ceil(total/limit) for pagination metadata.
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
