package reddit

import (
	_ "embed"
	"fmt"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// Sentiment labels.
const (
	LabelPositive = "positive"
	LabelNeutral  = "neutral"
	LabelNegative = "negative"
)

// labelThreshold is the absolute score below which sentiment is neutral.
const labelThreshold = 0.15

// Lexicon scores text by weighted keyword matches.
type Lexicon struct {
	weights  map[string]float64
	negators map[string]bool
}

type lexiconFile struct {
	Positive map[string]float64 `yaml:"positive"`
	Negative map[string]float64 `yaml:"negative"`
	Negators []string           `yaml:"negators"`
}

// DefaultLexicon parses the embedded lexicon.
func DefaultLexicon() (*Lexicon, error) {
	return ParseLexicon(defaultLexicon)
}

// ParseLexicon parses a YAML lexicon with positive, negative, and
// negators sections.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lf lexiconFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parsing lexicon: %w", err)
	}

	l := &Lexicon{
		weights:  make(map[string]float64, len(lf.Positive)+len(lf.Negative)),
		negators: make(map[string]bool, len(lf.Negators)),
	}
	for w, v := range lf.Positive {
		l.weights[normalize(w)] = math.Abs(v)
	}
	for w, v := range lf.Negative {
		l.weights[normalize(w)] = -math.Abs(v)
	}
	for _, n := range lf.Negators {
		l.negators[normalize(n)] = true
	}

	return l, nil
}

// Score returns the mean weight of matched words across texts, in
// [-1, 1], and the number of matches. A negator directly before a word
// flips its sign.
func (l *Lexicon) Score(texts ...string) (float64, int) {
	var sum float64
	matched := 0

	for _, text := range texts {
		words := tokenize(text)
		for i, w := range words {
			weight, ok := l.weights[w]
			if !ok {
				continue
			}
			if i > 0 && l.negators[words[i-1]] {
				weight = -weight
			}
			sum += weight
			matched++
		}
	}

	if matched == 0 {
		return 0, 0
	}

	return clamp(sum/float64(matched), -1, 1), matched
}

// Label maps a score to positive, neutral, or negative.
func Label(score float64) string {
	switch {
	case score >= labelThreshold:
		return LabelPositive
	case score <= -labelThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// normalize lowercases, strips diacritics and apostrophes. Chained
// transformers carry state, so one is built per call.
func normalize(s string) string {
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	return strings.NewReplacer("'", "", "’", "").Replace(folded)
}

// tokenize splits normalized text into words. Hyphens stay inside words
// so "must-start" matches as one term.
func tokenize(s string) []string {
	return strings.FieldsFunc(normalize(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
