package bucket

import (
	"errors"
	"fmt"
)

// RandomizeBuckets mixes the filler items of each bucket in place.
//
// The scan walks the sequence left to right and swaps every non-boundary
// position with a random position inside the current bucket. This is not a
// uniform shuffle, and it is kept that way so seeded output stays stable.
// The scan stops when it reaches the last boundary, so the final bucket keeps
// the order Distribute gave it. With a single bucket no swap happens.
//
// boundaryPos must list boundary indices in increasing order; anything else
// fails with ErrInvariantViolation before items is touched.
func RandomizeBuckets(items []*Item, boundaryPos []int, src Source) error {
	if err := checkBoundaries(items, boundaryPos); err != nil {
		return err
	}
	if src == nil {
		return errors.New("randomize buckets: random source is required")
	}

	k := len(boundaryPos)
	if k < 2 {
		return nil
	}

	cur, next := 0, 1
	start := 0
	if boundaryPos[cur] == 0 {
		start = boundaryPos[cur] + 1
	}

	for i := start; i < len(items)-1; i++ {
		if i == boundaryPos[next] {
			cur = next
			next++
			if next == k {
				break
			}
			continue
		}
		if i == boundaryPos[cur] {
			// Only reachable when the scan started ahead of the first boundary.
			continue
		}

		first := boundaryPos[cur] + 1
		last := boundaryPos[next] - 1
		if last < first {
			// Leading items ahead of an empty first bucket have nothing to
			// swap with.
			continue
		}
		j := first + src.Intn(last-first+1)
		items[i], items[j] = items[j], items[i]
	}
	return nil
}

// checkBoundaries verifies boundaryPos against items: at least one
// boundary, strictly increasing in-range positions, and when items are
// tagged, one tag per bucket with distinct tags for neighbouring buckets.
func checkBoundaries(items []*Item, boundaryPos []int) error {
	if len(boundaryPos) == 0 {
		return fmt.Errorf("%w: no boundary positions", ErrInvariantViolation)
	}
	for i, pos := range boundaryPos {
		if pos < 0 || pos >= len(items) {
			return fmt.Errorf("%w: boundary %d at index %d outside sequence of %d", ErrInvariantViolation, i, pos, len(items))
		}
		if i > 0 && pos <= boundaryPos[i-1] {
			return fmt.Errorf("%w: boundary positions not increasing (%d after %d)", ErrInvariantViolation, pos, boundaryPos[i-1])
		}
	}

	if !tagged(items) {
		return nil
	}
	for i, start := range boundaryPos {
		end := len(items)
		if i+1 < len(boundaryPos) {
			end = boundaryPos[i+1]
		}
		tag := items[start].BucketTag
		if tag == "" {
			return fmt.Errorf("%w: boundary at index %d has no bucket tag", ErrInvariantViolation, start)
		}
		if start > 0 && items[start-1].BucketTag == tag {
			return fmt.Errorf("%w: index %d is not the first item of bucket %s", ErrInvariantViolation, start, tag)
		}
		for idx := start + 1; idx < end; idx++ {
			if items[idx].BucketTag != tag {
				return fmt.Errorf("%w: index %d tagged %q inside bucket %s", ErrInvariantViolation, idx, items[idx].BucketTag, tag)
			}
		}
	}
	return nil
}

func tagged(items []*Item) bool {
	for _, item := range items {
		if item.BucketTag != "" {
			return true
		}
	}
	return false
}
