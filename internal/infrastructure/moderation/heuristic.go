// Package moderation provides the local heuristic implementation of the
// review moderation gate.
package moderation

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	moderationDomain "github.com/unical-dimes/professors/internal/domain/moderation"
)

const (
	DefaultThreshold    = 0.55
	DefaultModelVersion = "local-heuristic-v1"

	offensiveWeight     = 0.25
	irrelevantWeight    = 0.2
	genericAttackScore  = 0.7
	subjectAttackScore  = 0.8
	shortTextLength     = 25
	minSuggestionWords  = 5
	fallbackSubjectName = "the professor"
	fallbackTopicName   = "the course"
)

const (
	messageAllowed  = "Thanks! Your review looks constructive."
	messageFallback = "We could not approve this review. Please make it about the teaching experience."
)

var categoryMessages = map[moderationDomain.Category]string{
	moderationDomain.CategoryUnsupportedLanguage: "Please write your review in English or Italian.",
	moderationDomain.CategoryOffensiveLanguage:   "Please remove offensive language and focus on the teaching experience.",
	moderationDomain.CategoryPersonalAttack:      "Keep the feedback about teaching quality instead of personal attacks.",
	moderationDomain.CategoryIrrelevantContent:   "Please focus on course and teaching details to help other students.",
}

var punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

type Options struct {
	Threshold        float64
	ModelVersion     string
	LexiconPath      string
	AllowedLanguages []string
}

// HeuristicEvaluator scores text with keyword counts and regular expressions.
// It holds no mutable state and is safe for concurrent use.
type HeuristicEvaluator struct {
	threshold    float64
	modelVersion string
	lexicon      *compiledLexicon
	detector     *LanguageDetector
	allowed      map[string]struct{}
}

var _ moderationDomain.Evaluator = (*HeuristicEvaluator)(nil)

func NewHeuristicEvaluator(opts Options) (*HeuristicEvaluator, error) {
	lex, err := LoadLexicon(opts.LexiconPath)
	if err != nil {
		return nil, err
	}
	return NewHeuristicEvaluatorWithLexicon(lex, opts)
}

func NewHeuristicEvaluatorWithLexicon(lex *Lexicon, opts Options) (*HeuristicEvaluator, error) {
	compiled, err := lex.compile()
	if err != nil {
		return nil, err
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.ModelVersion == "" {
		opts.ModelVersion = DefaultModelVersion
	}
	if len(opts.AllowedLanguages) == 0 {
		opts.AllowedLanguages = []string{"en", "it"}
	}
	allowed := make(map[string]struct{}, len(opts.AllowedLanguages))
	for _, code := range opts.AllowedLanguages {
		allowed[strings.ToLower(code)] = struct{}{}
	}
	return &HeuristicEvaluator{
		threshold:    opts.Threshold,
		modelVersion: opts.ModelVersion,
		lexicon:      compiled,
		detector:     NewLanguageDetector(lex.Languages),
		allowed:      allowed,
	}, nil
}

func (e *HeuristicEvaluator) Threshold() float64 {
	return e.threshold
}

func (e *HeuristicEvaluator) Evaluate(_ context.Context, in moderationDomain.Input) moderationDomain.Verdict {
	text := normalizeText(in.Text)
	lowered := lowerText(text)
	tokens := tokenize(lowered)
	subject := strings.TrimSpace(in.SubjectName)
	topic := strings.TrimSpace(in.TopicName)

	scores := map[moderationDomain.Category]float64{
		moderationDomain.CategoryUnsupportedLanguage: e.detector.Detect(tokens).UnsupportedScore(e.allowed),
		moderationDomain.CategoryOffensiveLanguage:   e.scoreOffensive(tokens),
		moderationDomain.CategoryPersonalAttack:      e.scorePersonalAttack(text, lowered, subject),
		moderationDomain.CategoryIrrelevantContent:   e.scoreIrrelevant(text, lowered, tokens, subject, topic),
	}

	verdict := moderationDomain.Verdict{
		BlockedReasons: []moderationDomain.Category{},
		Scores:         make(map[moderationDomain.Category]float64, len(scores)+1),
		ModelVersion:   e.modelVersion,
	}
	highest := 0.0
	for _, c := range moderationDomain.RiskCategories {
		s := round2(scores[c])
		verdict.Scores[c] = s
		highest = math.Max(highest, s)
		if s >= e.threshold {
			verdict.BlockedReasons = append(verdict.BlockedReasons, c)
		}
	}
	verdict.Scores[moderationDomain.CategorySafe] = round2(math.Max(0, 1-highest))
	verdict.Allowed = len(verdict.BlockedReasons) == 0
	verdict.Message = buildMessage(verdict.BlockedReasons)
	if !verdict.Allowed {
		s := buildSuggestion(text, subject, topic)
		verdict.Suggestion = &s
	}
	return verdict
}

// scoreOffensive counts distinct keywords present as a token or token prefix.
func (e *HeuristicEvaluator) scoreOffensive(tokens []string) float64 {
	return math.Min(1, float64(countKeywordHits(tokens, e.lexicon.offensive))*offensiveWeight)
}

// scorePersonalAttack takes the maximum over generic patterns and the
// name-aware rule. An insult in the same sentence after the teacher's name
// outranks the generic patterns.
func (e *HeuristicEvaluator) scorePersonalAttack(text, lowered, subject string) float64 {
	score := 0.0
	for _, re := range e.lexicon.attackPatterns {
		if re.MatchString(text) {
			score = math.Max(score, genericAttackScore)
			break
		}
	}
	if subject != "" && insultFollowsName(lowered, lowerText(subject), e.lexicon.subjectInsults) {
		score = math.Max(score, subjectAttackScore)
	}
	return math.Min(1, score)
}

// insultFollowsName reports whether a whole-word mention of name is followed
// by an insult before the sentence ends.
func insultFollowsName(lowered, name string, insults []string) bool {
	if len(insults) == 0 {
		return false
	}
	for from := 0; from < len(lowered); {
		i := strings.Index(lowered[from:], name)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(name)
		if isWordEdge(lowered, start, end) {
			rest := lowered[end:]
			if stop := strings.IndexAny(rest, ".!?"); stop >= 0 {
				rest = rest[:stop]
			}
			for _, w := range insults {
				if strings.Contains(rest, w) {
					return true
				}
			}
		}
		_, size := utf8.DecodeRuneInString(lowered[start:])
		from = start + size
	}
	return false
}

func isWordEdge(s string, start, end int) bool {
	if before, _ := utf8.DecodeLastRuneInString(s[:start]); start > 0 && isWordRune(before) {
		return false
	}
	if after, _ := utf8.DecodeRuneInString(s[end:]); end < len(s) && isWordRune(after) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func (e *HeuristicEvaluator) scoreIrrelevant(text, lowered string, tokens []string, subject, topic string) float64 {
	hits := countKeywordHits(tokens, e.lexicon.irrelevant)
	if utf8.RuneCountInString(text) < shortTextLength {
		hits++
	}
	// Only a review that names neither the teacher nor the course is off
	// topic; with a name missing there is nothing to compare against.
	if subject != "" && topic != "" &&
		!strings.Contains(lowered, lowerText(subject)) && !strings.Contains(lowered, lowerText(topic)) {
		hits++
	}
	return math.Min(1, float64(hits)*irrelevantWeight)
}

func countKeywordHits(tokens, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		for _, tok := range tokens {
			if strings.HasPrefix(tok, kw) {
				hits++
				break
			}
		}
	}
	return hits
}

func buildMessage(blocked []moderationDomain.Category) string {
	if len(blocked) == 0 {
		return messageAllowed
	}
	for _, c := range moderationDomain.RiskCategories {
		for _, b := range blocked {
			if b == c {
				if msg, ok := categoryMessages[c]; ok {
					return msg
				}
			}
		}
	}
	return messageFallback
}

func buildSuggestion(text, subject, topic string) string {
	if subject == "" {
		subject = fallbackSubjectName
	}
	if topic == "" {
		topic = fallbackTopicName
	}
	words := strings.Fields(punctuation.ReplaceAllString(text, ""))
	if len(words) < minSuggestionWords {
		return fmt.Sprintf("Share what worked well in %s's approach during %s.", subject, topic)
	}
	return fmt.Sprintf("Focus on specific teaching aspects. For example: '%s explained key concepts clearly in %s and the assignments matched the lectures.'", subject, topic)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
