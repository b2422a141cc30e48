package moderation

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// Lexicon is the declarative word list behind the heuristic evaluator.
type Lexicon struct {
	OffensiveKeywords      []string            `yaml:"offensive_keywords"`
	PersonalAttackPatterns []string            `yaml:"personal_attack_patterns"`
	SubjectInsults         []string            `yaml:"subject_insults"`
	IrrelevantKeywords     []string            `yaml:"irrelevant_keywords"`
	Languages              map[string][]string `yaml:"languages"`
}

// LoadLexicon reads the lexicon at path, or the embedded one when path is empty.
func LoadLexicon(path string) (*Lexicon, error) {
	data := defaultLexicon
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read lexicon %s: %w", path, err)
		}
		data = b
	}
	return ParseLexicon(data)
}

func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	if len(lex.OffensiveKeywords) == 0 || len(lex.PersonalAttackPatterns) == 0 {
		return nil, fmt.Errorf("parse lexicon: offensive_keywords and personal_attack_patterns are required")
	}
	return &lex, nil
}

// compiledLexicon is immutable after construction and shared by all requests.
type compiledLexicon struct {
	offensive      []string
	attackPatterns []*regexp.Regexp
	subjectInsults []string
	irrelevant     []string
}

func (l *Lexicon) compile() (*compiledLexicon, error) {
	c := &compiledLexicon{
		offensive:  lowerAll(l.OffensiveKeywords),
		irrelevant: lowerAll(l.IrrelevantKeywords),
	}
	for _, p := range l.PersonalAttackPatterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("compile attack pattern %q: %w", p, err)
		}
		c.attackPatterns = append(c.attackPatterns, re)
	}
	c.subjectInsults = lowerAll(l.SubjectInsults)
	return c, nil
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}
