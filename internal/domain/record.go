package domain

// ImputedField marks a field synthesized by the import pipeline.
type ImputedField struct {
	Source     ImputationSource `json:"source"`
	Confidence float64          `json:"confidence,omitempty"`
}

// ImportRecord is a cleaned, canonically-shaped row from an import file.
// Optional fields are pointers; nil means absent. Imputed tracks which
// fields were synthesized rather than read from the source file.
type ImportRecord struct {
	Name         string  `json:"name"`
	Email        *string `json:"email"`
	DOB          *string `json:"dob"`
	JobTitle     *string `json:"job_title"`
	Role         string  `json:"role"`
	YearStart    *int    `json:"year_start"`
	YearEnd      *int    `json:"year_end"`
	ContractType *string `json:"contract_type"`

	Imputed map[string]ImputedField `json:"imputed,omitempty"`
}

// Clone returns a copy that shares no pointers with the receiver.
func (r ImportRecord) Clone() ImportRecord {
	out := r
	out.Email = cloneStr(r.Email)
	out.DOB = cloneStr(r.DOB)
	out.JobTitle = cloneStr(r.JobTitle)
	out.ContractType = cloneStr(r.ContractType)
	out.YearStart = cloneInt(r.YearStart)
	out.YearEnd = cloneInt(r.YearEnd)
	if r.Imputed != nil {
		out.Imputed = make(map[string]ImputedField, len(r.Imputed))
		for k, v := range r.Imputed {
			out.Imputed[k] = v
		}
	}
	return out
}

// MarkImputed tags field as synthesized from the given source.
func (r *ImportRecord) MarkImputed(field string, src ImputationSource, confidence float64) {
	if r.Imputed == nil {
		r.Imputed = make(map[string]ImputedField)
	}
	r.Imputed[field] = ImputedField{Source: src, Confidence: confidence}
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// StrPtr returns a pointer to s. Helper for building optional fields.
func StrPtr(s string) *string { return &s }

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }
