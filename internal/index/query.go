package index

import "strings"

// defaultLimit caps result sets when the caller supplies no limit.
const defaultLimit = 50

// SearchParams describes a search request. Empty strings mean "absent";
// a Limit <= 0 falls back to defaultLimit. FromDate and ToDate compare
// against the modified column as strings, so callers must supply a
// consistently sortable date representation.
type SearchParams struct {
	Query    string
	FromDate string
	ToDate   string
	Limit    int
}

// useFullText reports whether the request takes the full-text path.
// A blank search box degrades to an unfiltered recency list, not an
// empty result.
func (p SearchParams) useFullText() bool {
	return strings.TrimSpace(p.Query) != ""
}

// prefixQuery converts a free-text term into an FTS5 match expression:
// whitespace tokens, each a prefix match, implicitly ANDed.
func prefixQuery(q string) string {
	tokens := strings.Fields(q)
	for i, t := range tokens {
		tokens[i] = t + "*"
	}
	return strings.Join(tokens, " ")
}

// appendDateFilters adds the date predicates to an already-open WHERE
// conjunction, so they are always ANDed with whatever full-text
// predicate came before them.
func appendDateFilters(sb *strings.Builder, args []any, p SearchParams) []any {
	if p.FromDate != "" {
		sb.WriteString(" AND modified >= ?")
		args = append(args, p.FromDate)
	}
	if p.ToDate != "" {
		sb.WriteString(" AND modified <= ?")
		args = append(args, p.ToDate)
	}
	return args
}
