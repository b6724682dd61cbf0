package playlist

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ParseFile reads and parses the playlist at path.
func ParseFile(path string) (*Playlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("playlist %q not found: %w", path, err)
		}
		return nil, fmt.Errorf("read playlist: %w", err)
	}
	pl, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse playlist %s: %w", path, err)
	}
	return pl, nil
}

// Parse reads a WPL document from r.
//
// Media elements are collected in document order from the first seq
// element. Attribute names are lower-cased and entity references decoded.
func Parse(r io.Reader) (*Playlist, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	pl := &Playlist{
		Title:     strings.TrimSpace(doc.Find("title").First().Text()),
		Author:    ownText(doc.Find("author").First()),
		ItemCount: -1,
	}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok {
			return
		}
		content, _ := s.Attr("content")
		pl.Meta = append(pl.Meta, Meta{Name: name, Content: content})
		switch {
		case strings.EqualFold(name, metaGenerator):
			pl.Generator = content
		case strings.EqualFold(name, metaItemCount):
			if n, err := strconv.Atoi(strings.TrimSpace(content)); err == nil {
				pl.ItemCount = n
			}
		}
	})

	seq := doc.Find("seq").First()
	if seq.Length() == 0 {
		return nil, fmt.Errorf("%w: no seq element", ErrNoMedia)
	}
	seq.Find("media").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		entry := Entry{Attrs: make([]Attr, 0, len(node.Attr))}
		for _, attr := range node.Attr {
			entry.Attrs = append(entry.Attrs, Attr{Name: attr.Key, Value: attr.Val})
			if attr.Key == "src" {
				entry.Src = attr.Val
			}
		}
		if strings.TrimSpace(entry.Src) == "" {
			return
		}
		pl.Entries = append(pl.Entries, entry)
	})
	if len(pl.Entries) == 0 {
		return nil, ErrNoMedia
	}
	return pl, nil
}

// ownText returns the text directly inside the selected element, ignoring
// descendants. Players often write <author/>, which an HTML tokenizer does
// not treat as self-closing.
func ownText(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	var b strings.Builder
	for child := s.Get(0).FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			b.WriteString(child.Data)
		}
	}
	return strings.TrimSpace(b.String())
}
