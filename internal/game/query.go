package game

import (
	"strconv"
	"strings"

	"github.com/ryanm101/gamehub/internal/option"
)

// SortOrder is an upstream ordering value ("" means relevance).
type SortOrder struct {
	Value string
	Label string
}

// SortOrders lists the orderings offered to users.
var SortOrders = []SortOrder{
	{Value: "", Label: "Relevance"},
	{Value: "-added", Label: "Date added"},
	{Value: "name", Label: "Name"},
	{Value: "-released", Label: "Release date"},
	{Value: "-metacritic", Label: "Popularity"},
	{Value: "-rating", Label: "Average rating"},
}

// SortLabel returns the label for an ordering value.
func SortLabel(value string) string {
	for _, o := range SortOrders {
		if o.Value == value {
			return o.Label
		}
	}
	return SortOrders[0].Label
}

// Query is the user-selected filter state. Every field is optional.
type Query struct {
	Genre      option.Value[Genre]
	Platform   option.Value[Platform]
	SortOrder  string
	SearchText string
}

// Key identifies a query for caching. Queries with equal keys fetch the
// same pages.
type Key string

// Key returns the normalized cache key of q.
func (q Query) Key() Key {
	var b strings.Builder
	b.WriteString("genre=")
	if g, ok := q.Genre.Get(); ok {
		b.WriteString(strconv.Itoa(g.ID))
	}
	b.WriteString("|platform=")
	if p, ok := q.Platform.Get(); ok {
		b.WriteString(strconv.Itoa(p.ID))
	}
	b.WriteString("|ordering=")
	b.WriteString(NormalizeOrdering(q.SortOrder))
	b.WriteString("|search=")
	b.WriteString(strings.ToLower(NormalizeSearch(q.SearchText)))
	return Key(b.String())
}

// Heading is the grid title, e.g. "Xbox Action Games".
func (q Query) Heading() string {
	parts := make([]string, 0, 3)
	if p, ok := q.Platform.Get(); ok && p.Name != "" {
		parts = append(parts, p.Name)
	}
	if g, ok := q.Genre.Get(); ok && g.Name != "" {
		parts = append(parts, g.Name)
	}
	parts = append(parts, "Games")
	return strings.Join(parts, " ")
}

// NormalizeOrdering trims and lower-cases an ordering value.
func NormalizeOrdering(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSearch trims search text and collapses inner whitespace.
func NormalizeSearch(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
