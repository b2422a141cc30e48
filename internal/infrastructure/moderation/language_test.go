package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageDetector(t *testing.T) {
	lex, err := ParseLexicon(defaultLexicon)
	if err != nil {
		t.Fatal(err)
	}
	d := NewLanguageDetector(lex.Languages)
	allowed := map[string]struct{}{"en": {}, "it": {}}

	tests := []struct {
		name      string
		text      string
		language  string
		blockable bool
	}{
		{"english", "The professor is very clear and the labs are useful", "en", false},
		{"italian", "Il corso è molto utile e le lezioni sono sempre chiare", "it", false},
		{"spanish", "Este profesor explica muy bien la materia", "es", true},
		{"german", "Der Kurs ist sehr gut und die Übungen sind nicht schwer", "de", true},
		{"no evidence", "Fantastic lectures", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guess := d.Detect(tokenize(lowerText(normalizeText(tt.text))))
			assert.Equal(t, tt.language, guess.Language)
			assert.Equal(t, tt.blockable, guess.UnsupportedScore(allowed) >= DefaultThreshold)
		})
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"rossi", "s", "lezioni", "è", "ok"}, tokenize(lowerText("Rossi's LEZIONI: è ok!")))
}
