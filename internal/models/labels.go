package models

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"strings"
)

// Humanize turns a descriptor token such as "public_relations" into "Public Relations".
func Humanize(token string) string {
	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(token))
	// A Caser keeps state, so every call gets its own.
	return cases.Title(language.English).String(strings.Join(words, " "))
}
