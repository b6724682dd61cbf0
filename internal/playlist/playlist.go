// Package playlist reads and writes Windows Media Player playlists (.wpl).
//
// A WPL file is a small SMIL document: a head with meta, author and title
// elements, and a body holding one seq of media elements. Parse is tolerant
// of the loose markup real players emit; Render writes the canonical layout
// back out with the entry list replaced.
package playlist

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNoMedia is returned when a document has no seq element or no media
// entries inside it.
var ErrNoMedia = errors.New("playlist has no media entries")

const (
	metaGenerator = "Generator"
	metaItemCount = "ItemCount"
)

// Attr is one attribute of a media element, kept in source order.
type Attr struct {
	Name  string
	Value string
}

// Entry is one media element.
type Entry struct {
	Src   string
	Attrs []Attr
}

// Attr returns the value of the named attribute, or "".
func (e Entry) Attr(name string) string {
	for _, attr := range e.Attrs {
		if strings.EqualFold(attr.Name, name) {
			return attr.Value
		}
	}
	return ""
}

// Meta is a head meta element.
type Meta struct {
	Name    string
	Content string
}

// Playlist is a parsed WPL document.
type Playlist struct {
	Title  string
	Author string
	// ItemCount is the value of the ItemCount meta, or -1 when absent.
	ItemCount int
	Generator string
	Meta      []Meta
	Entries   []Entry
}

// MetaValue returns the content of the named meta element.
func (p *Playlist) MetaValue(name string) (string, bool) {
	for _, m := range p.Meta {
		if strings.EqualFold(m.Name, name) {
			return m.Content, true
		}
	}
	return "", false
}

// metaFor returns p.Meta with ItemCount set to count. Other elements are
// kept as they were.
func (p *Playlist) metaFor(count int) []Meta {
	out := make([]Meta, len(p.Meta))
	copy(out, p.Meta)
	for i := range out {
		if strings.EqualFold(out[i].Name, metaItemCount) {
			out[i].Content = strconv.Itoa(count)
		}
	}
	return out
}
