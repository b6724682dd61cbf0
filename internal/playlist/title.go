package playlist

import (
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleStampLayout formats the timestamp appended to regenerated titles.
const TitleStampLayout = "20060102-150405"

// ResolveTitle picks the title for a regenerated playlist. A non-blank
// override wins. Otherwise the source title gets a " (YYYYMMDD-HHMMSS)"
// suffix so the copy is distinguishable in the player; a source without a
// title borrows one from its file name.
func ResolveTitle(pl *Playlist, override string, now time.Time, sourcePath string) string {
	if title := strings.TrimSpace(override); title != "" {
		return title
	}
	base := ""
	if pl != nil {
		base = strings.TrimSpace(pl.Title)
	}
	if base == "" {
		base = TitleFromFileName(sourcePath)
	}
	stamp := now.Format(TitleStampLayout)
	if base == "" {
		return stamp
	}
	return base + " (" + stamp + ")"
}

// TitleFromFileName turns "road_trip-mix.wpl" into "Road Trip Mix".
func TitleFromFileName(path string) string {
	name := filepath.Base(strings.TrimSpace(path))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	}), " ")
	return cases.Title(language.English).String(name)
}
