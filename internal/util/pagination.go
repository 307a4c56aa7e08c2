package util

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Page struct {
	Number int
	Size   int
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// NewPage clamps out-of-range values rather than rejecting them: a
// negative page becomes the first, an oversized page the maximum.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) Meta(total int64) PageMeta {
	pages := total / int64(p.Size)
	if total%int64(p.Size) != 0 {
		pages++
	}
	return PageMeta{Page: p.Number, Size: p.Size, Total: total, TotalPages: pages}
}
