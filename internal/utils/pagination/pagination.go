// Package pagination holds the page/size arithmetic shared by listing endpoints.
package pagination

const (
	DefaultPage = 1
	DefaultSize = 1000
	MaxSize     = 1000
)

// Offset converts a 1-based page and page size into a row offset.
func Offset(page, size int) int {
	return (page - 1) * size
}

// Pages returns the total page count for a result set, rounding up.
func Pages(total, size int) int {
	if size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
