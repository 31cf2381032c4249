package nlp

import (
	"regexp"
	"sort"
	"strings"
)

type MatchResult struct {
	Label     string
	Mentioned bool
}

// Diagnostic text often refers to a class of structures collectively ("the
// metatarsals appear intact") rather than naming each numbered instance, so
// a missed direct match falls back to this category table. The table is a
// hand-curated, closed set; widening it changes output semantics.
var categoryPlurals = map[string]*regexp.Regexp{
	"cuneiform":  regexp.MustCompile(`\bcuneiforms\b`),
	"metatarsal": regexp.MustCompile(`\bmetatarsals\b`),
	"phalanx":    regexp.MustCompile(`\bphalanges\b`),
	"tarsal":     regexp.MustCompile(`\btarsal bones\b`),
	"tendon":     regexp.MustCompile(`\btendons\b`),
	"ligament":   regexp.MustCompile(`\bligaments\b`),
	"joint":      regexp.MustCompile(`\bjoints\b`),
}

var wordSplit = regexp.MustCompile(`\s+`)

// MatchMentions decides, for every labeled region, whether the diagnosis
// text mentions it: first a word-boundary match of the exact label phrase,
// then the plural-category fallback. Regions absent from the label map are
// never matched. The function is pure; identical inputs always produce
// identical results.
func MatchMentions(diagnosis string, labels map[int]string) (map[int]MatchResult, []string) {
	diagnosisLower := strings.ToLower(diagnosis)

	matches := make(map[int]MatchResult, len(labels))
	var mentionedTerms []string

	nums := make([]int, 0, len(labels))
	for n := range labels {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	for _, num := range nums {
		label := labels[num]
		mentioned := labelMentioned(diagnosisLower, label)

		matches[num] = MatchResult{Label: label, Mentioned: mentioned}
		if mentioned {
			mentionedTerms = append(mentionedTerms, label)
		}
	}

	return matches, mentionedTerms
}

func labelMentioned(diagnosisLower, label string) bool {
	direct := regexp.MustCompile(`\b` + regexp.QuoteMeta(label) + `\b`)
	if direct.MatchString(diagnosisLower) {
		return true
	}

	for _, word := range wordSplit.Split(label, -1) {
		plural, ok := categoryPlurals[word]
		if ok && plural.MatchString(diagnosisLower) {
			return true
		}
	}

	return false
}
