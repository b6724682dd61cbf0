package report

import (
	"bytes"
	"strings"
	"testing"

	"playlisttool/internal/media"
)

func sampleFiles() []*media.File {
	return []*media.File{
		{OriginalOrder: 2, Path: `C:\Music\Long, Part 1.mp3`, SizeBytes: 1000, DurationMS: 2_000_000, BucketTag: "1"},
		{OriginalOrder: 0, Path: "short.mp3", SizeBytes: 10, DurationMS: 60_000, BucketTag: "1"},
		{OriginalOrder: 1, Path: "other-long.mp3", SizeBytes: 900, DurationMS: 1_900_000, BucketTag: "0"},
		{OriginalOrder: 3, Path: "missing.mp3", SizeBytes: media.MissingSize},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleFiles()); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}
	want := strings.Join([]string{
		"Index,filename,size,lengthMS,BucketNumber",
		`2,"C:\Music\Long, Part 1.mp3",1000,2000000,1`,
		"0,short.mp3,10,60000,1",
		"1,other-long.mp3,900,1900000,0",
		"3,missing.mp3,-1,0,-1",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected csv:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	files := []*media.File{{Path: "a.mp3", SizeBytes: 5, Length: "00:01:00", DurationMS: 60_000, BitRate: "128kbps"}}
	if err := WriteText(&buf, files); err != nil {
		t.Fatalf("WriteText returned error: %v", err)
	}
	if got := buf.String(); got != "\"a.mp3\" [5] Length:00:01:00 (60000ms) [128kbps]\n" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleFiles())
	if len(summary) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(summary))
	}
	first := summary[0]
	if first.Tag != "1" || first.Files != 2 || first.Fillers != 1 || first.TotalMS != 2_060_000 {
		t.Fatalf("unexpected first bucket %+v", first)
	}
	if first.Boundary != `C:\Music\Long, Part 1.mp3` {
		t.Fatalf("unexpected boundary %q", first.Boundary)
	}
	if got := media.FormatLength(first.TotalMS); got != "00:34:20" {
		t.Fatalf("unexpected bucket length %q", got)
	}
	if second := summary[1]; second.Tag != "0" || second.Fillers != 0 {
		t.Fatalf("unexpected second bucket %+v", second)
	}

	count, total := Totals(sampleFiles())
	if count != 4 || total != 3_960_000 {
		t.Fatalf("Totals = %d, %d", count, total)
	}
}
