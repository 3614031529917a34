package reader

import "regexp"

var (
	emailRe = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)
	nameRe  = regexp.MustCompile(`(?im)^\s*name\s*[:\-]\s*(.+)$`)
	dobRe   = regexp.MustCompile(`(?i)date of birth[:\-]\s*([0-9/\-.]+)`)
	yearRe  = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

// ExtractEntities recovers a best-effort record from free text. It is a
// conservative rule-based scan: an email address, a "Name:" line, a
// "Date of birth:" value and the first plausible year.
func ExtractEntities(text string) Record {
	out := Record{}
	if m := emailRe.FindString(text); m != "" {
		out["email"] = m
	}
	if m := nameRe.FindStringSubmatch(text); m != nil {
		out["name"] = m[1]
	}
	if m := dobRe.FindStringSubmatch(text); m != nil {
		out["dob"] = m[1]
	}
	if m := yearRe.FindString(text); m != "" {
		out["year_start"] = m
	}
	return out
}
