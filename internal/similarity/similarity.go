// Package similarity finds announcements that share vocabulary with a target
// announcement.
//
// Every lookup scans the whole candidate set, so cost grows linearly with the
// number of stored announcements. There is no index or cache.
package similarity

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/markjakearzadon/announcements-gobackend/internal/models"
)

// DefaultLimit is the number of similar announcements returned per lookup.
const DefaultLimit = 3

// Order selects how matching candidates are ranked.
type Order string

const (
	// OrderRecency ranks matches newest first. Score only breaks ties between
	// identical timestamps.
	OrderRecency Order = "recency"
	// OrderScore ranks matches by shared token count, newest first on ties.
	OrderScore Order = "score"
)

func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderRecency:
		return OrderRecency, nil
	case OrderScore:
		return OrderScore, nil
	default:
		return "", fmt.Errorf("unknown similarity order %q", s)
	}
}

// TokenSet is a set of lower-cased words.
type TokenSet map[string]struct{}

func isDelimiter(r rune) bool {
	switch r {
	case ' ', ',', '.', '!', '?':
		return true
	}
	return false
}

// Tokenize joins title and description with a space, splits on space, comma,
// period, exclamation mark and question mark, and lower-cases the words.
// Other whitespace such as tabs and newlines is not a delimiter.
func Tokenize(title, description string) TokenSet {
	words := strings.FieldsFunc(title+" "+description, isDelimiter)
	set := make(TokenSet, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

// Score counts the tokens present in both sets.
func Score(a, b TokenSet) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			n++
		}
	}
	return n
}

type match struct {
	announcement *models.Announcement
	score        int
}

// Finder ranks candidates against a target.
type Finder struct {
	limit int
	order Order
}

func NewFinder(limit int, order Order) *Finder {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if order == "" {
		order = OrderRecency
	}
	return &Finder{limit: limit, order: order}
}

// Find returns at most the configured number of candidates sharing at least
// one token with target. The target itself is never part of the result, even
// if it appears in candidates.
func (f *Finder) Find(target *models.Announcement, candidates []*models.Announcement) []models.AnnouncementSummary {
	result := []models.AnnouncementSummary{}

	targetTokens := Tokenize(target.Title, target.Description)
	if len(targetTokens) == 0 {
		return result
	}

	var matches []match
	for _, c := range candidates {
		if c == nil || c.ID == target.ID {
			continue
		}
		score := Score(Tokenize(c.Title, c.Description), targetTokens)
		if score == 0 {
			continue
		}
		matches = append(matches, match{announcement: c, score: score})
	}

	byScore := func(a, b match) int { return cmp.Compare(b.score, a.score) }
	byDate := func(a, b match) int { return b.announcement.CreatedAt.Compare(a.announcement.CreatedAt) }

	switch f.order {
	case OrderScore:
		slices.SortStableFunc(matches, func(a, b match) int {
			if c := byScore(a, b); c != 0 {
				return c
			}
			return byDate(a, b)
		})
	default:
		// two stable passes: the date pass overrides the score pass
		slices.SortStableFunc(matches, byScore)
		slices.SortStableFunc(matches, byDate)
	}

	if len(matches) > f.limit {
		matches = matches[:f.limit]
	}
	for _, m := range matches {
		result = append(result, m.announcement.Summary())
	}
	return result
}
