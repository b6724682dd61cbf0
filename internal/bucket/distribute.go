package bucket

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// Result is the output of Distribute.
type Result struct {
	// Items is the reordered sequence. Every item carries a BucketTag.
	Items []*Item
	// BoundaryPos holds the index in Items of each bucket boundary, in
	// position order.
	BoundaryPos []int
}

// Bucket summarizes one contiguous bucket of a Result.
type Bucket struct {
	Tag      string
	Start    int
	Size     int
	Fillers  int
	Boundary *Item
	TotalMS  int64
}

// Distribute splits items into boundary and filler items, shuffles the
// boundaries, and deals the fillers into the buckets round-robin.
//
// items must already be sorted by duration, longest first (see
// SortByDuration). Unsorted input is accepted but skews bucket play time.
// The returned sequence reuses the item pointers; no item is added or lost.
func Distribute(items []*Item, threshold int64, src Source) (Result, error) {
	if threshold < 0 {
		return Result{}, fmt.Errorf("%w: %d ms", ErrInvalidThreshold, threshold)
	}
	if src == nil {
		return Result{}, errors.New("distribute: random source is required")
	}

	buckets := make([]*Item, 0, len(items))
	for _, item := range items {
		if !item.IsBoundary(threshold) {
			continue
		}
		item.BucketTag = strconv.Itoa(len(buckets))
		buckets = append(buckets, item)
	}

	k := len(buckets)
	if k == 0 {
		return Result{}, fmt.Errorf("%w: none of %d items is %d ms or longer", ErrEmptyBucketSet, len(items), threshold)
	}

	src.Shuffle(k, func(i, j int) {
		buckets[i], buckets[j] = buckets[j], buckets[i]
	})

	boundaryPos := make([]int, k)
	for i := range boundaryPos {
		boundaryPos[i] = i
	}

	cursor := 0
	for _, item := range items {
		if item.IsBoundary(threshold) {
			continue
		}
		at := boundaryPos[cursor]
		item.BucketTag = buckets[at].BucketTag
		buckets = slices.Insert(buckets, at+1, item)

		// Everything right of the insertion point moved one slot.
		for j := cursor + 1; j < k; j++ {
			boundaryPos[j]++
		}
		cursor = (cursor + 1) % k
	}

	return Result{Items: buckets, BoundaryPos: boundaryPos}, nil
}

// Reorder runs Distribute followed by RandomizeBuckets.
func Reorder(items []*Item, threshold int64, src Source) (Result, error) {
	result, err := Distribute(items, threshold, src)
	if err != nil {
		return Result{}, err
	}
	if err := RandomizeBuckets(result.Items, result.BoundaryPos, src); err != nil {
		return Result{}, err
	}
	return result, nil
}

// Buckets returns one summary per bucket in output order.
func (r Result) Buckets() []Bucket {
	out := make([]Bucket, 0, len(r.BoundaryPos))
	for i, start := range r.BoundaryPos {
		end := len(r.Items)
		if i+1 < len(r.BoundaryPos) {
			end = r.BoundaryPos[i+1]
		}
		if start < 0 || start >= end || end > len(r.Items) {
			continue
		}
		b := Bucket{
			Tag:      r.Items[start].BucketTag,
			Start:    start,
			Size:     end - start,
			Fillers:  end - start - 1,
			Boundary: r.Items[start],
		}
		for _, item := range r.Items[start:end] {
			b.TotalMS += item.DurationMS
		}
		out = append(out, b)
	}
	return out
}
