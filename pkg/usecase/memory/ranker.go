package memory

import (
	"sort"
	"strings"

	"github.com/aura-ai/aura/pkg/model"
)

const (
	// DefaultTopK is the number of records returned when no explicit limit is
	// given.
	DefaultTopK = 3

	// minTokenLen drops short query tokens ("a", "the", "is") that would match
	// almost every record.
	minTokenLen = 4
)

// queryTokens extracts distinct lowercase tokens of at least minTokenLen
// characters from the query.
func queryTokens(query string) []string {
	seen := map[string]struct{}{}
	var tokens []string
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		if len(tok) < minTokenLen {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Rank scores records against the query and returns the texts of the topK best
// matches joined with newlines. The score of a record is the number of distinct
// query tokens its text contains, case-insensitively. Ties break by recency
// (newest CreatedAt first), then by position in the input. Records with score
// zero never appear. A query with no usable tokens, or topK <= 0, yields "".
func Rank(records []*model.MemoryRecord, query string, topK int) string {
	if topK <= 0 {
		return ""
	}
	tokens := queryTokens(query)
	if len(tokens) == 0 {
		return ""
	}

	type scored struct {
		pos   int
		score int
	}
	var hits []scored
	for i, rec := range records {
		text := strings.ToLower(rec.Text)
		score := 0
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{pos: i, score: score})
		}
	}
	if len(hits) == 0 {
		return ""
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		a, b := records[hits[i].pos], records[hits[j].pos]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return hits[i].pos < hits[j].pos
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}

	texts := make([]string, 0, len(hits))
	for _, h := range hits {
		texts = append(texts, records[h.pos].Text)
	}
	return strings.Join(texts, "\n")
}
