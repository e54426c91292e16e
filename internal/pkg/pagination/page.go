package pagination

import "math"

// PageRequest is a 0-based page index together with a page size
type PageRequest struct {
	Page int
	Size int
}

// Offset returns the number of rows to skip for the requested page. It
// saturates at math.MaxInt instead of wrapping; callers reject such pages
// up front with MaxPage.
func (r PageRequest) Offset() int {
	if r.Page <= 0 || r.Size <= 0 {
		return 0
	}
	if r.Page > MaxPage(r.Size) {
		return math.MaxInt
	}
	return r.Page * r.Size
}

// MaxPage is the largest page index whose offset fits in an int for the
// given size
func MaxPage(size int) int {
	if size <= 0 {
		return math.MaxInt
	}
	return math.MaxInt / size
}

// Limit returns the maximum number of rows on the requested page
func (r PageRequest) Limit() int {
	if r.Size < 0 {
		return 0
	}
	return r.Size
}

// Page is one slice of an ordered result set plus the metadata needed to
// navigate the rest of it
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Page             int   `json:"page"`
	Size             int   `json:"size"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

// NewPage builds a page envelope. A nil content slice is replaced by an empty
// one so the envelope always serializes "content" as an array.
func NewPage[T any](content []T, req PageRequest, totalElements int64) *Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := TotalPages(totalElements, req.Size)

	return &Page[T]{
		Content:          content,
		TotalElements:    totalElements,
		TotalPages:       totalPages,
		Page:             req.Page,
		Size:             req.Size,
		NumberOfElements: len(content),
		First:            req.Page == 0,
		Last:             req.Page >= totalPages-1,
		Empty:            len(content) == 0,
	}
}

// TotalPages returns ceil(totalElements / size), or 0 for a non-positive size
func TotalPages(totalElements int64, size int) int {
	if size <= 0 || totalElements <= 0 {
		return 0
	}
	return int((totalElements + int64(size) - 1) / int64(size))
}
