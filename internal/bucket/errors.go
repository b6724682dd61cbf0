package bucket

import "errors"

var (
	// ErrEmptyBucketSet indicates no item reached the threshold, so there is
	// nothing to anchor filler items to. Lower the threshold and retry.
	ErrEmptyBucketSet = errors.New("no item meets the bucket threshold")
	// ErrInvalidThreshold rejects negative thresholds.
	ErrInvalidThreshold = errors.New("invalid bucket threshold")
	// ErrInvariantViolation reports boundary positions that do not describe
	// the sequence they are applied to.
	ErrInvariantViolation = errors.New("bucket invariant violated")
)
