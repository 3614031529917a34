// Package normalizer maps arbitrary import-file headers onto the
// canonical employee field set and validates/cleans the mapped values.
package normalizer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cast"

	"hrdesk/internal/reader"
)

// DefaultThreshold is the minimum fuzzy score (0-100) for a header to be
// accepted as a canonical field match.
const DefaultThreshold = 80

// CanonicalFields lists the target field names in declaration order.
// Declaration order breaks fuzzy-score ties: first declared wins.
var CanonicalFields = []string{
	"name", "email", "dob", "job_title",
	"role", "year_start", "year_end", "contract_type",
}

// FieldAliases maps each canonical field to its accepted header spellings.
var FieldAliases = map[string][]string{
	"name":          {"name", "full name", "fullname", "full_name"},
	"email":         {"email", "e-mail", "mail"},
	"dob":           {"dob", "date of birth", "birthdate", "birthday"},
	"job_title":     {"job", "job title", "title", "position"},
	"role":          {"role", "user role", "position type"},
	"year_start":    {"year start", "start year", "joined"},
	"year_end":      {"year end", "end year", "left"},
	"contract_type": {"contract", "contract type"},
}

// Match pairs a header's resolved canonical field with its fuzzy score.
// Field is empty when the header matched nothing. Score is nil for
// exact/alias matches and 0-100 for fuzzy matches.
type Match struct {
	Field string
	Score *int
}

// FieldMapping is the per-file header resolution handed to a human
// reviewer: every original header with its resolved match, plus the
// headers whose canonical field was already claimed by an earlier header.
type FieldMapping struct {
	Matches   map[string]Match
	Conflicts []string
}

var keySepRe = regexp.MustCompile(`[_\s]+`)

// NormalizeKey canonicalizes a header for matching: trim, lowercase,
// collapse underscores and runs of whitespace to single spaces.
func NormalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return keySepRe.ReplaceAllString(k, " ")
}

type candidate struct {
	alias string
	field string
}

// candidates returns every canonical name and alias in declaration order.
func candidates() []candidate {
	var out []candidate
	for _, field := range CanonicalFields {
		seen := false
		for _, a := range FieldAliases[field] {
			if a == field {
				seen = true
			}
			out = append(out, candidate{alias: a, field: field})
		}
		if !seen {
			out = append(out, candidate{alias: field, field: field})
		}
	}
	return out
}

// similarity scores two normalized keys 0-100 via Levenshtein ratio.
func similarity(a, b string) int {
	if a == b {
		return 100
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(longest))))
}

// resolve matches one normalized header against the canonical set.
func resolve(key string, threshold int) Match {
	for _, c := range candidates() {
		if key == c.alias {
			return Match{Field: c.field}
		}
	}
	best := Match{}
	bestScore := -1
	for _, c := range candidates() {
		if sc := similarity(key, c.alias); sc > bestScore {
			bestScore = sc
			best = Match{Field: c.field, Score: &sc}
		}
	}
	if bestScore >= threshold {
		return best
	}
	return Match{}
}

// MapColumns renames a raw record's headers to canonical field names,
// dropping headers that match nothing. When several headers resolve to
// the same canonical field, the first header in sorted order wins.
func MapColumns(rec reader.Record, threshold int) reader.Record {
	out, _ := MapColumnsDebug(rec, threshold)
	return out
}

// MapColumnsDebug is MapColumns plus the full per-header resolution for
// human review.
func MapColumnsDebug(rec reader.Record, threshold int) (reader.Record, *FieldMapping) {
	headers := make([]string, 0, len(rec))
	for k := range rec {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	out := reader.Record{}
	mapping := &FieldMapping{Matches: make(map[string]Match, len(headers))}
	claimed := map[string]string{} // canonical field -> winning header
	for _, h := range headers {
		m := resolve(NormalizeKey(cast.ToString(h)), threshold)
		mapping.Matches[h] = m
		if m.Field == "" {
			continue
		}
		if _, taken := claimed[m.Field]; taken {
			mapping.Conflicts = append(mapping.Conflicts, h)
			continue
		}
		claimed[m.Field] = h
		out[m.Field] = rec[h]
	}
	return out, mapping
}
