package normalizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"

	"hrdesk/internal/domain"
	"hrdesk/internal/reader"
)

var emailShapeRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Clean coerces a header-mapped record into the canonical shape and
// reports validation problems. It is pure and total: invalid input never
// fails, it is reported through the returned problem list. A non-empty
// problem list means the row must not be persisted.
func Clean(rec reader.Record) (domain.ImportRecord, []string) {
	var problems []string
	out := domain.ImportRecord{}

	if name := field(rec, "name"); name != "" {
		out.Name = name
	} else {
		problems = append(problems, "Missing name")
	}

	if email := field(rec, "email"); email != "" {
		if emailShapeRe.MatchString(email) {
			out.Email = &email
		} else {
			problems = append(problems, "Invalid email")
		}
	}

	if dob := field(rec, "dob"); dob != "" {
		if t, err := dateparse.ParseAny(dob); err == nil {
			iso := t.Format("2006-01-02")
			out.DOB = &iso
		} else {
			problems = append(problems, "Invalid dob")
		}
	}

	// job_title also accepts the shorthand "job" source key
	if jt := field(rec, "job_title"); jt != "" {
		out.JobTitle = &jt
	} else if jt := field(rec, "job"); jt != "" {
		out.JobTitle = &jt
	}

	if role := field(rec, "role"); role != "" {
		out.Role = role
	} else {
		out.Role = string(domain.DefaultRole)
	}

	for _, key := range []string{"year_start", "year_end"} {
		val := field(rec, key)
		if val == "" {
			continue
		}
		n, err := cast.ToIntE(val)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Invalid %s", key))
			continue
		}
		if key == "year_start" {
			out.YearStart = &n
		} else {
			out.YearEnd = &n
		}
	}

	if ct := field(rec, "contract_type"); ct != "" {
		out.ContractType = &ct
	}

	return out, problems
}

// field returns the trimmed string form of a record value, "" when the
// key is absent or blank.
func field(rec reader.Record, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}
