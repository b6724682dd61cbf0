package bucket

import (
	"cmp"
	"slices"
)

// Item is one entry of the working sequence.
//
// Payload is carried along untouched. BucketTag stays empty until Distribute
// assigns it.
type Item struct {
	OriginalOrder int
	DurationMS    int64
	Payload       any
	BucketTag     string
}

// IsBoundary reports whether the item anchors a bucket for threshold.
func (it *Item) IsBoundary(threshold int64) bool {
	return it.DurationMS >= threshold
}

// SortByDuration orders items by duration, longest first. Ties keep their
// relative order.
func SortByDuration(items []*Item) {
	slices.SortStableFunc(items, func(a, b *Item) int {
		return cmp.Compare(b.DurationMS, a.DurationMS)
	})
}
