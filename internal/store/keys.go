package store

import (
	"strings"
	"unicode"
)

// Keys holds the storage keys for one site, prefixed so that several
// instances can share a database.
type Keys struct {
	Progress   string
	LastPlayed string
	Muted      string
	OpenAIKey  string
}

// NewKeys derives the key set from a site name: lower-cased, with every run
// of whitespace replaced by an underscore.
func NewKeys(siteName string) Keys {
	prefix := sitePrefix(siteName)
	return Keys{
		Progress:   prefix + "_progress",
		LastPlayed: prefix + "_last_played",
		Muted:      prefix + "_muted",
		OpenAIKey:  prefix + "_openai_key",
	}
}

// All returns every key in the set.
func (k Keys) All() []string {
	return []string{k.Progress, k.LastPlayed, k.Muted, k.OpenAIKey}
}

func sitePrefix(name string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('_')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
