// Package rank derives top-N orderings from group statistics and extracts the
// most frequent keywords from course-name text.
package rank

import (
	"sort"
	"strings"
	"unicode"

	"courseval/internal/stats"
)

// RankedEntity is one entry of a top-N list.
type RankedEntity struct {
	Name  string
	Score float64
	Rank  int
}

// Keyword is a course-name token with its occurrence count.
type Keyword struct {
	Token string
	Count int
}

// TopN orders groups by descending mean score and returns the first n, ties
// broken by ascending name so shuffled input yields an identical list.
func TopN(groups []stats.GroupStatistic, n int) []RankedEntity {
	sorted := make([]stats.GroupStatistic, len(groups))
	copy(sorted, groups)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Mean != sorted[j].Mean {
			return sorted[i].Mean > sorted[j].Mean
		}
		return sorted[i].Key < sorted[j].Key
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	result := make([]RankedEntity, 0, n)
	for i := 0; i < n; i++ {
		result = append(result, RankedEntity{
			Name:  sorted[i].Key,
			Score: sorted[i].Mean,
			Rank:  i + 1,
		})
	}
	return result
}

// ForQuestion filters one question's statistics out of a dimension's results
// before ranking.
func ForQuestion(groups []stats.GroupStatistic, question string, n int) []RankedEntity {
	var filtered []stats.GroupStatistic
	for _, g := range groups {
		if g.Question == question {
			filtered = append(filtered, g)
		}
	}
	return TopN(filtered, n)
}

// Keywords extracts the n most frequent tokens from course names. Candidate
// tokens are split on whitespace, punctuation, and digits, lowercased, and
// filtered against the stop-word set; a candidate's frequency is the number
// of course names containing it. Ties keep first-appearance order.
func Keywords(names []string, stopWords []string, n int) []Keyword {
	stop := make(map[string]bool, len(stopWords))
	for _, w := range stopWords {
		stop[strings.ToLower(w)] = true
	}

	lowered := make([]string, len(names))
	for i, name := range names {
		lowered[i] = strings.ToLower(name)
	}

	firstSeen := make(map[string]int)
	var order []string
	for _, name := range lowered {
		for _, token := range tokenize(name) {
			if stop[token] {
				continue
			}
			if _, ok := firstSeen[token]; !ok {
				firstSeen[token] = len(order)
				order = append(order, token)
			}
		}
	}

	counts := make(map[string]int, len(order))
	for _, token := range order {
		for _, name := range lowered {
			if strings.Contains(name, token) {
				counts[token]++
			}
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if n > len(order) {
		n = len(order)
	}
	result := make([]Keyword, 0, n)
	for _, token := range order[:n] {
		result = append(result, Keyword{Token: token, Count: counts[token]})
	}
	return result
}

// tokenize splits on anything that is not a letter, dropping single-rune
// fragments. "영어회화1" yields "영어회화"; "영어1" yields "영어".
func tokenize(name string) []string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
