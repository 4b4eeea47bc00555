package skills

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

const minDiscoveredRunes = 3

// triggerPrefix replaces \b, which is ASCII-only in RE2 and never matches before Cyrillic.
const triggerPrefix = `(?i)(?:^|[^\p{L}\p{N}_])`

var defaultTriggers = []*regexp.Regexp{
	regexp.MustCompile(triggerPrefix + `(?:знаю|владею|опыт работы с|работал с|использую|применяю|experience with|worked with|proficient in|familiar with)\s+([^,\n]+)`),
	regexp.MustCompile(triggerPrefix + `(?:skills|навыки|технологии|инструменты|умею|умею использовать|key skills)\s*:\s*([^,\n]+)`),
	regexp.MustCompile(triggerPrefix + `(?:programming|development|технологии)\s*:\s*([^,\n]+)`),
	regexp.MustCompile(triggerPrefix + `(?:framework|library|библиотека)\s*:\s*([^,\n]+)`),
	regexp.MustCompile(triggerPrefix + `(?:database|база данных)\s*:\s*([^,\n]+)`),
	regexp.MustCompile(triggerPrefix + `(?:cloud|облачные технологии)\s*:\s*([^,\n]+)`),
	regexp.MustCompile(triggerPrefix + `(?:tool|инструмент)\s*:\s*([^,\n]+)`),
}

// Extractor turns free text into categorized skill terms.
type Extractor struct {
	catalog  *Catalog
	rules    Rules
	triggers []*regexp.Regexp
	logger   *zap.Logger
}

type Option func(*Extractor)

// WithRules overrides the categorization rules used for discovered terms.
func WithRules(rules Rules) Option {
	return func(e *Extractor) {
		e.rules = rules
	}
}

// WithTriggers overrides the trigger patterns. Each pattern must have one capture group.
func WithTriggers(triggers ...*regexp.Regexp) Option {
	return func(e *Extractor) {
		e.triggers = triggers
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func NewExtractor(catalog *Catalog, opts ...Option) *Extractor {
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	e := &Extractor{
		catalog:  catalog,
		rules:    DefaultRules(),
		triggers: defaultTriggers,
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract never fails: empty or blank text yields an empty result.
func (e *Extractor) Extract(text string) *Extracted {
	found := newExtracted(e.catalog.Categories())

	text = Normalize(text)
	if text == "" {
		return found.compact()
	}

	for _, category := range e.catalog.Categories() {
		for _, term := range e.catalog.Terms(category) {
			if containsWord(text, term) {
				found.add(category, term)
			}
		}
	}

	for _, trigger := range e.triggers {
		for _, match := range trigger.FindAllStringSubmatch(text, -1) {
			if len(match) < 2 {
				continue
			}

			term := cleanCapture(match[1])
			if utf8.RuneCountInString(term) < minDiscoveredRunes {
				continue
			}

			category := e.rules.Categorize(term)
			if found.add(category, term) {
				e.logger.Debug("discovered skill",
					zap.String("term", term),
					zap.String("category", string(category)),
				)
			}
		}
	}

	return found.compact()
}

// Normalize applies NFKC, lowercases and trims the text.
func Normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(norm.NFKC.String(s)))
}

// containsWord reports whether term occurs in text without being part of a longer word.
// A boundary is only enforced on the side where the term itself ends in a word rune,
// so terms like "c++" or "ci/cd" still match.
func containsWord(text, term string) bool {
	if term == "" {
		return false
	}

	first, _ := utf8.DecodeRuneInString(term)
	last, _ := utf8.DecodeLastRuneInString(term)

	offset := 0
	for {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(term)

		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])

		leftOK := start == 0 || !isWordRune(first) || !isWordRune(before)
		rightOK := end == len(text) || !isWordRune(last) || !isWordRune(after)
		if leftOK && rightOK {
			return true
		}

		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func cleanCapture(s string) string {
	s = strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) || strings.ContainsRune("-.+#", r) {
			return r
		}
		return -1
	}, s)

	s = strings.TrimFunc(s, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#')
	})

	return strings.Join(strings.Fields(s), " ")
}
