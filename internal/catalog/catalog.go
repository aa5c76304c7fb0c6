// Package catalog provides the shared map catalog: the reference list of
// all playable maps and their metadata, fetched from the game's releases
// endpoint and cached process-wide.
package catalog

import (
	"strings"
	"time"
)

// BonusTile marks maps with an optional secondary objective. Such maps are
// excluded from some slowest-completion displays.
const BonusTile = "BONUS"

// Map is one entry of the global map catalog.
type Map struct {
	Name       string   `json:"name"`
	Website    string   `json:"website"`
	Thumbnail  string   `json:"thumbnail"`
	WebPreview string   `json:"web_preview"`
	Type       string   `json:"type"`
	Points     int      `json:"points"`
	Difficulty int      `json:"difficulty"`
	Mapper     string   `json:"mapper"`
	Release    string   `json:"release"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Tiles      []string `json:"tiles"`
}

// releaseLayouts are the timestamp formats seen in the releases feed, all
// recorded without a zone suffix and interpreted as UTC.
var releaseLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ReleaseUnix parses the release timestamp as UTC unix seconds. Maps with
// a missing or unparsable release date report 0, which sorts them before
// any real year window.
func (m Map) ReleaseUnix() int64 {
	for _, layout := range releaseLayouts {
		if t, err := time.ParseInLocation(layout, m.Release, time.UTC); err == nil {
			return t.Unix()
		}
	}
	return 0
}

// ReleaseYear returns the leading year of the release string, or 0 when it
// is absent. The mapper-attribution card matches on this literal prefix.
func (m Map) ReleaseYear() int {
	if len(m.Release) < 4 {
		return 0
	}
	year := 0
	for _, c := range m.Release[:4] {
		if c < '0' || c > '9' {
			return 0
		}
		year = year*10 + int(c-'0')
	}
	return year
}

// Mappers splits the attribution string into individual mapper names.
// Upstream joins collaborators with "," and "&".
func (m Map) Mappers() []string {
	var names []string
	for _, part := range strings.Split(m.Mapper, ",") {
		for _, name := range strings.Split(part, "&") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				names = append(names, trimmed)
			}
		}
	}
	return names
}

// HasBonus reports whether the map carries the bonus tile flag.
func (m Map) HasBonus() bool {
	for _, tile := range m.Tiles {
		if tile == BonusTile {
			return true
		}
	}
	return false
}

// Lookup builds a name-keyed index over a catalog snapshot.
func Lookup(maps []Map) map[string]Map {
	index := make(map[string]Map, len(maps))
	for _, m := range maps {
		index[m.Name] = m
	}
	return index
}
