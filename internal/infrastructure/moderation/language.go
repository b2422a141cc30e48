package moderation

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// minLanguageEvidence is the number of function-word hits needed before a
// language guess is trusted.
const minLanguageEvidence = 2

// LanguageDetector guesses a language from function-word hits. Short or
// content-only text yields no guess and is never blocked by the language gate.
type LanguageDetector struct {
	words map[string][]string
	codes []string
}

func NewLanguageDetector(languages map[string][]string) *LanguageDetector {
	d := &LanguageDetector{words: make(map[string][]string)}
	for code, words := range languages {
		d.codes = append(d.codes, code)
		for _, w := range words {
			w = norm.NFC.String(strings.ToLower(strings.TrimSpace(w)))
			if w == "" {
				continue
			}
			d.words[w] = append(d.words[w], code)
		}
	}
	sort.Strings(d.codes)
	return d
}

// LanguageGuess holds per-language hit counts and the winning code, if any.
type LanguageGuess struct {
	Language string
	Hits     map[string]int
}

func (d *LanguageDetector) Detect(tokens []string) LanguageGuess {
	hits := make(map[string]int, len(d.codes))
	for _, tok := range tokens {
		for _, code := range d.words[tok] {
			hits[code]++
		}
	}
	guess := LanguageGuess{Hits: hits}
	best := 0
	// codes are sorted, so ties resolve alphabetically.
	for _, code := range d.codes {
		if hits[code] > best {
			best = hits[code]
			guess.Language = code
		}
	}
	if best < minLanguageEvidence {
		guess.Language = ""
	}
	return guess
}

// UnsupportedScore is the share of evidence held by the strongest language
// outside allowed, or zero when that language does not clearly win.
func (g LanguageGuess) UnsupportedScore(allowed map[string]struct{}) float64 {
	supported, other := 0, 0
	for code, n := range g.Hits {
		if _, ok := allowed[code]; ok {
			supported = max(supported, n)
		} else {
			other = max(other, n)
		}
	}
	if other < minLanguageEvidence || other <= supported {
		return 0
	}
	return float64(other) / float64(other+supported)
}

// normalizeText trims and applies NFKC so visually equal input scores equally.
func normalizeText(text string) string {
	return norm.NFKC.String(strings.TrimSpace(text))
}

// lowerText folds case; a Caser is stateful, so one is built per call.
func lowerText(text string) string {
	return cases.Lower(language.Und).String(text)
}

// tokenize splits lowered text into letter/digit runs.
func tokenize(lowered string) []string {
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
