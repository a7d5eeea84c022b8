package domain

import "fmt"

// ValidatePage rejects non-positive pagination input before any slicing
// happens. Page is 1-indexed, limit is a positive item count.
func ValidatePage(page, limit int) error {
	if page <= 0 || limit <= 0 {
		return fmt.Errorf("%w: page and limit must be positive", ErrInvalidArgument)
	}
	return nil
}

// Window returns the [lo, hi) slice bounds of a page over n items. Pages
// past the end collapse to an empty window, including pages so large that
// (page-1)*limit wraps around.
func Window(page, limit, n int) (int, int) {
	lo := (page - 1) * limit
	if lo < 0 || lo > n {
		lo = n
	}
	hi := lo + limit
	if hi < lo || hi > n {
		hi = n
	}
	return lo, hi
}
