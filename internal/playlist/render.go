package playlist

import (
	"bufio"
	"io"
	"strings"
)

const indent = "    "

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"'", "&apos;",
	"\"", "&quot;",
	"<", "&lt;",
	">", "&gt;",
)

// Render writes pl with its entries replaced by entries. The ItemCount meta,
// when present, is updated to len(entries). The document starts with the WPL
// processing instruction rather than an XML declaration and is indented with
// four spaces per level.
func Render(w io.Writer, pl *Playlist, entries []Entry) error {
	bw := bufio.NewWriter(w)
	line := func(depth int, parts ...string) {
		for range depth {
			bw.WriteString(indent)
		}
		for _, p := range parts {
			bw.WriteString(p)
		}
		bw.WriteByte('\n')
	}

	line(0, `<?wpl version="1.0"?>`)
	line(0, "<smil>")
	line(1, "<head>")
	for _, m := range pl.metaFor(len(entries)) {
		line(2, `<meta name="`, xmlEscaper.Replace(m.Name), `" content="`, xmlEscaper.Replace(m.Content), `"/>`)
	}
	if author := strings.TrimSpace(pl.Author); author != "" {
		line(2, "<author>", xmlEscaper.Replace(author), "</author>")
	} else {
		line(2, "<author/>")
	}
	line(2, "<title>", xmlEscaper.Replace(strings.TrimSpace(pl.Title)), "</title>")
	line(1, "</head>")
	line(1, "<body>")
	line(2, "<seq>")
	for _, entry := range entries {
		line(3, mediaElement(entry))
	}
	line(2, "</seq>")
	line(1, "</body>")
	line(0, "</smil>")
	return bw.Flush()
}

// mediaElement renders one media element with attributes in their original
// order. An entry without attributes gets a single src attribute.
func mediaElement(entry Entry) string {
	attrs := entry.Attrs
	if len(attrs) == 0 {
		attrs = []Attr{{Name: "src", Value: entry.Src}}
	}
	var b strings.Builder
	b.WriteString("<media")
	for _, attr := range attrs {
		b.WriteByte(' ')
		b.WriteString(attr.Name)
		b.WriteString(`="`)
		b.WriteString(xmlEscaper.Replace(attr.Value))
		b.WriteByte('"')
	}
	b.WriteString("/>")
	return b.String()
}
