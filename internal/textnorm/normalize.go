// Package textnorm provides the accent-insensitive normalization used to
// match GTA categories against price-list descriptions and to build file names.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	bovinosPattern  = regexp.MustCompile(`\bBOVINOS\b`)
	namePunctuation = regexp.MustCompile(`[\\/.,:;()\[\]\-]`)
)

// Normalize upper-cases s, strips diacritics and collapses whitespace.
// "Olho D'Água" becomes "OLHO D'AGUA".
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, strings.ToUpper(s))
	if err != nil {
		stripped = strings.ToUpper(s)
	}
	return strings.Join(strings.Fields(stripped), " ")
}

// NormalizeDescription prepares a livestock description for price-list
// matching: the plural species name is singularized before Normalize.
func NormalizeDescription(s string) string {
	return Normalize(bovinosPattern.ReplaceAllString(strings.ToUpper(s), "BOVINO"))
}

// CleanName turns s into a file-name fragment: normalized, without
// punctuation and with words joined by underscores.
func CleanName(s string) string {
	cleaned := namePunctuation.ReplaceAllString(Normalize(s), "")
	return strings.Join(strings.Fields(cleaned), "_")
}
