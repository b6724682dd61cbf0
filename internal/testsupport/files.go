package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WritePlaylist writes a minimal WPL document listing srcs and returns its
// path.
func WritePlaylist(t testing.TB, path, title string, srcs ...string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("<?wpl version=\"1.0\"?>\n<smil>\n    <head>\n")
	b.WriteString("        <meta name=\"Generator\" content=\"Microsoft Windows Media Player -- 12.0.19041.1266\"/>\n")
	b.WriteString("        <meta name=\"ItemCount\" content=\"")
	b.WriteString(strconv.Itoa(len(srcs)))
	b.WriteString("\"/>\n        <author/>\n        <title>")
	b.WriteString(title)
	b.WriteString("</title>\n    </head>\n    <body>\n        <seq>\n")
	for _, src := range srcs {
		b.WriteString("            <media src=\"")
		b.WriteString(strings.NewReplacer("&", "&amp;", "'", "&apos;", "\"", "&quot;").Replace(src))
		b.WriteString("\"/>\n")
	}
	b.WriteString("        </seq>\n    </body>\n</smil>\n")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write playlist %s: %v", path, err)
	}
	return path
}
