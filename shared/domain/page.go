package domain

import "math"

// Page is a 1-indexed slice of a listing together with the size of the whole listing.
type Page[T any] struct {
	Items  []T
	Number int
	Size   int
	Total  int
}

func (p Page[T]) HasPrev() bool {
	return p.Number > 1
}

// HasNext compares by division so a huge page number cannot overflow.
func (p Page[T]) HasNext() bool {
	if p.Size <= 0 || p.Total <= 0 {
		return false
	}
	return p.Number <= (p.Total-1)/p.Size
}

// Offset returns the number of rows preceding the page.
// It saturates at math.MaxInt, which selects an empty page.
func Offset(number, size int) int {
	if size <= 0 {
		return 0
	}
	skipped := max(1, number) - 1
	if skipped > math.MaxInt/size {
		return math.MaxInt
	}
	return skipped * size
}
