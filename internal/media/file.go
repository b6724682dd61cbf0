package media

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"playlisttool/internal/bucket"
	"playlisttool/internal/playlist"
)

// MissingSize marks a file that could not be found on disk.
const MissingSize int64 = -1

// File is one playlist entry together with the metadata gathered for it.
type File struct {
	// OriginalOrder is the zero-based position in the source playlist.
	OriginalOrder int
	Path          string
	CID           string
	TID           string
	SizeBytes     int64
	// Length is the HH:MM:SS display form of DurationMS; empty when no
	// duration was reported.
	Length     string
	DurationMS int64
	// BitRate is a display string such as "705kbps".
	BitRate string
	// Attrs keeps the entry attributes in source order for re-emission.
	Attrs     []playlist.Attr
	BucketTag string
}

// Bad reports whether the file was missing when collected.
func (f *File) Bad() bool {
	return f.SizeBytes < 0
}

// Entry rebuilds the playlist entry for f.
func (f *File) Entry() playlist.Entry {
	return playlist.Entry{Src: f.Path, Attrs: slices.Clone(f.Attrs)}
}

// BucketNumber returns the bucket tag as a number, or -1 when unassigned.
func (f *File) BucketNumber() int {
	n, err := strconv.Atoi(f.BucketTag)
	if err != nil {
		return -1
	}
	return n
}

func (f *File) String() string {
	return fmt.Sprintf("%q [%d] Length:%s (%dms) [%s]", f.Path, f.SizeBytes, f.Length, f.DurationMS, f.BitRate)
}

// FilterBad returns the bad files in files. When remove is set, the second
// result holds files without them; otherwise it is files unchanged.
func FilterBad(files []*File, remove bool) (kept []*File, bad []*File) {
	for _, f := range files {
		if f.Bad() {
			bad = append(bad, f)
		}
	}
	if !remove || len(bad) == 0 {
		return files, bad
	}
	kept = make([]*File, 0, len(files)-len(bad))
	for _, f := range files {
		if !f.Bad() {
			kept = append(kept, f)
		}
	}
	return kept, bad
}

// SortByDuration orders files longest first. Ties keep their relative order.
func SortByDuration(files []*File) {
	slices.SortStableFunc(files, func(a, b *File) int {
		return cmp.Compare(b.DurationMS, a.DurationMS)
	})
}

// SortByOriginalOrder restores playlist order.
func SortByOriginalOrder(files []*File) {
	slices.SortStableFunc(files, func(a, b *File) int {
		return cmp.Compare(a.OriginalOrder, b.OriginalOrder)
	})
}

// ToItems wraps files as bucket items. Each payload is the *File itself.
func ToItems(files []*File) []*bucket.Item {
	items := make([]*bucket.Item, len(files))
	for i, f := range files {
		items[i] = &bucket.Item{
			OriginalOrder: f.OriginalOrder,
			DurationMS:    f.DurationMS,
			Payload:       f,
			BucketTag:     f.BucketTag,
		}
	}
	return items
}

// FromItems unwraps items produced by ToItems, copying each bucket tag back
// onto its file.
func FromItems(items []*bucket.Item) ([]*File, error) {
	files := make([]*File, len(items))
	for i, item := range items {
		f, ok := item.Payload.(*File)
		if !ok {
			return nil, fmt.Errorf("item %d: payload is %T, not *media.File", i, item.Payload)
		}
		f.BucketTag = item.BucketTag
		files[i] = f
	}
	return files, nil
}

// ParseLength converts "HH:MM:SS" (or "MM:SS", or plain seconds) into
// milliseconds.
func ParseLength(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("length %q: too many components", value)
	}
	var seconds int64
	for _, part := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("length %q: invalid component %q", value, part)
		}
		seconds = seconds*60 + n
	}
	return seconds * 1000, nil
}

// FormatLength renders milliseconds as HH:MM:SS, dropping the fraction.
func FormatLength(ms int64) string {
	if ms <= 0 {
		return ""
	}
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}

// FormatBitRate renders bits per second as whole kilobits, e.g. "705kbps".
func FormatBitRate(bps int64) string {
	if bps <= 0 {
		return ""
	}
	return strconv.FormatInt(bps/1000, 10) + "kbps"
}
