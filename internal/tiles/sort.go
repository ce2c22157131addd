package tiles

import (
	"cmp"
	"slices"
)

// Compare orders tiles by suit priority, then by sort rank (red five as 0).
// Physical copies of the same kind compare equal.
func Compare(a, b Tile) int {
	if c := cmp.Compare(a.Suit, b.Suit); c != 0 {
		return c
	}
	return cmp.Compare(a.SortRank(), b.SortRank())
}

// Sort puts ts into canonical order in place. The sort is stable, so
// equal tiles keep their relative order and sorting twice is a no-op.
func Sort(ts []Tile) {
	slices.SortStableFunc(ts, Compare)
}

// IsSorted reports whether ts is in canonical order.
func IsSorted(ts []Tile) bool {
	return slices.IsSortedFunc(ts, Compare)
}
