package imputer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"hrdesk/internal/domain"
)

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

// Infer fills missing fields across a batch using deterministic
// frequency/median heuristics over the batch itself plus the supplied
// store statistics. Synthesized fields carry a heuristic imputation
// marker. Records that are already complete come back unchanged.
func Infer(batch []domain.ImportRecord, stats Stats) []domain.ImportRecord {
	t := tally(batch)

	globalJob := stats.JobTitleCommon
	if globalJob == "" {
		globalJob = mostCommon(t.globalJobs)
	}
	contractCommon := stats.ContractCommon
	if contractCommon == "" {
		contractCommon = mostCommon(t.contracts)
	}
	globalYear := stats.YearStartMedian
	if globalYear == 0 {
		globalYear = medianInt(t.globalYears)
	}

	seen := make(map[string]bool, len(stats.KnownEmails))
	for _, e := range stats.KnownEmails {
		seen[e] = true
	}
	for _, r := range batch {
		if r.Email != nil && *r.Email != "" {
			seen[*r.Email] = true
		}
	}

	out := make([]domain.ImportRecord, 0, len(batch))
	for _, r := range batch {
		rec := r.Clone()

		if strPresent(rec.Email) == "" && rec.Name != "" {
			email := synthesizeEmail(rec.Name, seen)
			seen[email] = true
			rec.Email = &email
			rec.MarkImputed("email", domain.SourceHeuristic, 0)
		}
		if rec.Name == "" && strPresent(rec.Email) != "" {
			if name := nameFromEmail(*rec.Email); name != "" {
				rec.Name = name
				rec.MarkImputed("name", domain.SourceHeuristic, 0)
			}
		}
		if strPresent(rec.JobTitle) == "" {
			jt := mostCommon(t.jobsByRole[normalizeRole(rec.Role)])
			if jt == "" {
				jt = globalJob
			}
			if jt != "" {
				rec.JobTitle = &jt
				rec.MarkImputed("job_title", domain.SourceHeuristic, 0)
			}
		}
		if rec.YearStart == nil {
			year := 0
			if jt := strPresent(rec.JobTitle); jt != "" {
				year = medianInt(t.yearsByJob[jt])
			}
			if year == 0 {
				year = globalYear
			}
			if year == 0 {
				year = DefaultYearStart
			}
			rec.YearStart = &year
			rec.MarkImputed("year_start", domain.SourceHeuristic, 0)
		}
		if strPresent(rec.DOB) == "" && rec.YearStart != nil {
			dob := fmt.Sprintf("%04d-01-01", *rec.YearStart-DefaultStartAge)
			rec.DOB = &dob
			rec.MarkImputed("dob", domain.SourceHeuristic, 0)
		}
		if strPresent(rec.ContractType) == "" && contractCommon != "" {
			ct := contractCommon
			rec.ContractType = &ct
			rec.MarkImputed("contract_type", domain.SourceHeuristic, 0)
		}
		out = append(out, rec)
	}
	return out
}

type tallies struct {
	jobsByRole  map[string]map[string]int
	globalJobs  map[string]int
	yearsByJob  map[string][]int
	globalYears []int
	contracts   map[string]int
}

func tally(batch []domain.ImportRecord) tallies {
	t := tallies{
		jobsByRole: map[string]map[string]int{},
		globalJobs: map[string]int{},
		yearsByJob: map[string][]int{},
		contracts:  map[string]int{},
	}
	for _, r := range batch {
		job := strPresent(r.JobTitle)
		if job != "" {
			role := normalizeRole(r.Role)
			if t.jobsByRole[role] == nil {
				t.jobsByRole[role] = map[string]int{}
			}
			t.jobsByRole[role][job]++
			t.globalJobs[job]++
			if r.YearStart != nil {
				t.yearsByJob[job] = append(t.yearsByJob[job], *r.YearStart)
			}
		}
		if r.YearStart != nil {
			t.globalYears = append(t.globalYears, *r.YearStart)
		}
		if ct := strPresent(r.ContractType); ct != "" {
			t.contracts[ct]++
		}
	}
	return t
}

// synthesizeEmail derives an address from the first alphanumeric token of
// the lowercased name, appending a numeric suffix on collision.
func synthesizeEmail(name string, seen map[string]bool) string {
	base := "user"
	if toks := tokenRe.FindAllString(strings.ToLower(name), 1); len(toks) > 0 {
		base = toks[0]
	}
	candidate := base + "@example.com"
	for i := 1; seen[candidate]; i++ {
		candidate = fmt.Sprintf("%s%d@example.com", base, i)
	}
	return candidate
}

// nameFromEmail derives a display name from the address local part.
func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	fields := strings.FieldsFunc(local, func(r rune) bool { return r == '.' || r == '_' })
	var parts []string
	for _, f := range fields {
		if f == "" {
			continue
		}
		parts = append(parts, strings.ToUpper(f[:1])+f[1:])
	}
	return strings.Join(parts, " ")
}

// mostCommon returns the highest-count key, smallest key on ties, "" when
// the tally is empty.
func mostCommon(counts map[string]int) string {
	best, bestCount := "", 0
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

// medianInt returns the integer median (mean of the middle pair for even
// counts), 0 for an empty slice.
func medianInt(vals []int) int {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]int(nil), vals...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

func strPresent(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
