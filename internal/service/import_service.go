package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hrdesk/internal/domain"
	"hrdesk/internal/imputer"
	"hrdesk/internal/normalizer"
	"hrdesk/internal/port"
	"hrdesk/internal/reader"
)

// PreviewEdit is one reviewer correction applied to a cleaned row before
// imputation. Edits land in the audit trail with the import_preview source.
type PreviewEdit struct {
	RowIndex int    `json:"row_index"`
	Field    string `json:"field"`
	Value    string `json:"value"`
}

// ImportOptions is the DTO for a bulk import run.
type ImportOptions struct {
	// Threshold overrides the fuzzy header-match acceptance score.
	// Zero means "use the stored, then configured, default".
	Threshold int `json:"threshold"`
	// MappingOverride pins original headers to canonical fields. Non-empty
	// overrides are persisted for reuse on later runs.
	MappingOverride map[string]string `json:"mapping_override"`
	PreviewEdits    []PreviewEdit     `json:"preview_edits"`
	ActorUserID     *uuid.UUID        `json:"actor_user_id"`
	// DryRun runs the full pipeline but persists no users or employees.
	DryRun bool `json:"dry_run"`
}

// RowError pairs a source row with the reason it was not imported.
type RowError struct {
	RowIndex int      `json:"row_index"`
	Problems []string `json:"problems"`
}

// ImportSummary reports the outcome of a bulk import run.
type ImportSummary struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Errored int `json:"errored"`
	// Errors is a bounded sample of row failures.
	Errors  []RowError               `json:"errors"`
	Mapping *normalizer.FieldMapping `json:"mapping"`
	Records []domain.ImportRecord    `json:"records"`
}

// ImportService defines the bulk-import pipeline contract.
type ImportService interface {
	// ImportFile runs the full pipeline on one file: parse, map headers,
	// clean, impute, audit, and persist valid rows.
	ImportFile(ctx context.Context, path string, opts ImportOptions) (*ImportSummary, error)
	// TrainImputer fits a model artifact from complete store records and
	// writes it to the configured model path.
	TrainImputer(ctx context.Context) error
	// ExportAudit returns the full imputation audit trail.
	ExportAudit(ctx context.Context) ([]domain.ImputationAuditEntry, error)
}

type importService struct {
	users     port.UserRepository
	employees port.EmployeeRepository
	audit     port.ImputationAuditRepository
	stats     port.StatsRepository
	mappings  *normalizer.MappingStore
	modelPath string
	threshold int
	maxErrors int
}

// NewImportService creates a new ImportService implementation.
func NewImportService(
	users port.UserRepository,
	employees port.EmployeeRepository,
	audit port.ImputationAuditRepository,
	stats port.StatsRepository,
	mappings *normalizer.MappingStore,
	modelPath string,
	threshold int,
	maxErrors int,
) ImportService {
	if threshold <= 0 {
		threshold = normalizer.DefaultThreshold
	}
	if maxErrors <= 0 {
		maxErrors = 25
	}
	return &importService{
		users:     users,
		employees: employees,
		audit:     audit,
		stats:     stats,
		mappings:  mappings,
		modelPath: modelPath,
		threshold: threshold,
		maxErrors: maxErrors,
	}
}

func (s *importService) ImportFile(ctx context.Context, path string, opts ImportOptions) (*ImportSummary, error) {
	rows, err := reader.ForPath(path)
	if err != nil {
		return nil, fmt.Errorf("importService.ImportFile: %w", err)
	}

	stored := s.mappings.Load()
	threshold := s.threshold
	if stored.Threshold > 0 {
		threshold = stored.Threshold
	}
	if opts.Threshold > 0 {
		threshold = opts.Threshold
	}

	renames := make(map[string]string, len(stored.Mappings)+len(opts.MappingOverride))
	for k, v := range stored.Mappings {
		renames[k] = v
	}
	for k, v := range opts.MappingOverride {
		renames[k] = v
	}
	if len(opts.MappingOverride) > 0 || opts.Threshold > 0 {
		if err := s.mappings.Save(normalizer.MappingConfig{Threshold: threshold, Mappings: renames}); err != nil {
			log.Printf("service.ImportService: persisting mapping config: %v", err)
		}
	}

	summary := &ImportSummary{}
	edits := editsByRow(opts.PreviewEdits)

	cleaned := make([]domain.ImportRecord, 0, len(rows))
	cleanedRows := make([]int, 0, len(rows))
	for i, row := range rows {
		row = applyRenames(row, renames)
		mapped, mapping := normalizer.MapColumnsDebug(row, threshold)
		if summary.Mapping == nil {
			summary.Mapping = mapping
		}
		edited := s.applyPreviewEdits(ctx, i, mapped, edits[i], opts.ActorUserID)
		rec, problems := normalizer.Clean(mapped)
		for _, f := range edited {
			rec.MarkImputed(f, domain.SourcePreview, 0)
		}
		if len(problems) > 0 {
			summary.Errored++
			if len(summary.Errors) < s.maxErrors {
				summary.Errors = append(summary.Errors, RowError{RowIndex: i, Problems: problems})
			}
			continue
		}
		cleaned = append(cleaned, rec)
		cleanedRows = append(cleanedRows, i)
	}

	batch, err := s.impute(ctx, cleaned)
	if err != nil {
		return nil, fmt.Errorf("importService.ImportFile: %w", err)
	}
	s.auditImputations(ctx, batch, cleanedRows, opts.ActorUserID)
	summary.Records = batch

	if opts.DryRun {
		return summary, nil
	}
	for i, rec := range batch {
		created, err := s.persistRecord(ctx, rec)
		if err != nil {
			summary.Errored++
			if len(summary.Errors) < s.maxErrors {
				summary.Errors = append(summary.Errors, RowError{RowIndex: cleanedRows[i], Problems: []string{err.Error()}})
			}
			continue
		}
		if created {
			summary.Created++
		} else {
			summary.Skipped++
		}
	}
	log.Printf("service.ImportService: imported %s: created=%d skipped=%d errored=%d",
		path, summary.Created, summary.Skipped, summary.Errored)
	return summary, nil
}

// impute runs the model pass (when an artifact exists) and then the
// heuristic pass, seeding both with store-wide statistics.
func (s *importService) impute(ctx context.Context, batch []domain.ImportRecord) ([]domain.ImportRecord, error) {
	stats := imputer.Stats{}
	if s.stats != nil {
		emails, err := s.stats.KnownEmails(ctx)
		if err != nil {
			return nil, err
		}
		stats.KnownEmails = emails
		complete, err := s.stats.CompleteEmployeeRecords(ctx)
		if err != nil {
			return nil, err
		}
		stats.JobTitleCommon, stats.ContractCommon, stats.YearStartMedian = storeSummaries(complete)
	}

	if s.modelPath != "" {
		model, err := imputer.Load(s.modelPath)
		if err != nil {
			log.Printf("service.ImportService: loading model artifact: %v", err)
		} else if model != nil {
			batch = model.Predict(batch)
		}
	}
	return imputer.Infer(batch, stats), nil
}

// applyPreviewEdits mutates the mapped row before validation so corrected
// values clear their problems. It returns the canonical fields edited.
func (s *importService) applyPreviewEdits(ctx context.Context, rowIndex int, mapped reader.Record, edits []PreviewEdit, actorID *uuid.UUID) []string {
	var edited []string
	for _, e := range edits {
		if !canonicalField(e.Field) {
			continue
		}
		old := ""
		if v, ok := mapped[e.Field]; ok {
			old = fmt.Sprintf("%v", v)
		}
		mapped[e.Field] = e.Value
		edited = append(edited, e.Field)
		entry := &domain.ImputationAuditEntry{
			RowIndex:    rowIndex,
			Field:       e.Field,
			OldValue:    old,
			NewValue:    e.Value,
			Source:      domain.SourcePreview,
			ActorUserID: actorID,
			AppliedAt:   time.Now().UTC(),
		}
		if err := s.audit.Record(ctx, entry); err != nil {
			log.Printf("service.ImportService: recording preview edit: %v", err)
		}
	}
	return edited
}

func canonicalField(f string) bool {
	for _, c := range normalizer.CanonicalFields {
		if c == f {
			return true
		}
	}
	return false
}

// auditImputations writes one audit entry per machine-filled field. Preview
// edits are audited at apply time, so they are skipped here.
func (s *importService) auditImputations(ctx context.Context, batch []domain.ImportRecord, rowIndexes []int, actorID *uuid.UUID) {
	for i, rec := range batch {
		fields := make([]string, 0, len(rec.Imputed))
		for f := range rec.Imputed {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			mark := rec.Imputed[f]
			if mark.Source == domain.SourcePreview {
				continue
			}
			entry := &domain.ImputationAuditEntry{
				RowIndex:    rowIndexes[i],
				Field:       f,
				OldValue:    "",
				NewValue:    recordField(rec, f),
				Source:      mark.Source,
				ActorUserID: actorID,
				AppliedAt:   time.Now().UTC(),
			}
			if err := s.audit.Record(ctx, entry); err != nil {
				log.Printf("service.ImportService: recording imputation: %v", err)
			}
		}
	}
}

// persistRecord creates the user account and employee row for one record.
// Returns false when the record was skipped as a duplicate.
func (s *importService) persistRecord(ctx context.Context, rec domain.ImportRecord) (bool, error) {
	if rec.Email == nil || *rec.Email == "" {
		return false, errors.New("record has no email after imputation")
	}
	user, err := s.users.GetByEmail(ctx, *rec.Email)
	switch {
	case err == nil:
		// Account exists; skip when the employee row does too.
		if _, err := s.employees.GetByUser(ctx, user.ID); err == nil {
			return false, nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			return false, err
		}
	case errors.Is(err, domain.ErrNotFound):
		user, err = s.createImportedUser(ctx, rec)
		if err != nil {
			return false, err
		}
	default:
		return false, err
	}

	emp := &domain.Employee{
		ID:        uuid.New(),
		UserID:    &user.ID,
		Name:      rec.Name,
		Role:      rec.Role,
		YearStart: rec.YearStart,
		YearEnd:   rec.YearEnd,
		CreatedAt: time.Now().UTC(),
	}
	if rec.DOB != nil {
		emp.DOB = *rec.DOB
	}
	if rec.JobTitle != nil {
		emp.JobTitle = *rec.JobTitle
	}
	if rec.ContractType != nil {
		emp.ContractType = *rec.ContractType
	}
	if err := s.employees.Create(ctx, emp); err != nil {
		return false, err
	}
	return true, nil
}

func (s *importService) createImportedUser(ctx context.Context, rec domain.ImportRecord) (*domain.User, error) {
	credential, err := randomCredential()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), 12)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	role := domain.UserRole(rec.Role)
	if !domain.ValidUserRoles[role] {
		role = domain.DefaultRole
	}
	user := &domain.User{
		ID:           uuid.New(),
		Email:        *rec.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *importService) TrainImputer(ctx context.Context) error {
	records, err := s.stats.CompleteEmployeeRecords(ctx)
	if err != nil {
		return fmt.Errorf("importService.TrainImputer: %w", err)
	}
	artifact, err := imputer.Train(records)
	if err != nil {
		return fmt.Errorf("importService.TrainImputer: %w", err)
	}
	if err := artifact.Save(s.modelPath); err != nil {
		return fmt.Errorf("importService.TrainImputer: %w", err)
	}
	log.Printf("service.ImportService: trained %s artifact from %d records", artifact.Type, len(records))
	return nil
}

func (s *importService) ExportAudit(ctx context.Context) ([]domain.ImputationAuditEntry, error) {
	entries, err := s.audit.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("importService.ExportAudit: %w", err)
	}
	return entries, nil
}

func applyRenames(row reader.Record, renames map[string]string) reader.Record {
	if len(renames) == 0 {
		return row
	}
	out := make(reader.Record, len(row))
	for k, v := range row {
		if to, ok := renames[k]; ok {
			out[to] = v
			continue
		}
		out[k] = v
	}
	return out
}

func editsByRow(edits []PreviewEdit) map[int][]PreviewEdit {
	byRow := make(map[int][]PreviewEdit, len(edits))
	for _, e := range edits {
		byRow[e.RowIndex] = append(byRow[e.RowIndex], e)
	}
	return byRow
}

func recordField(rec domain.ImportRecord, field string) string {
	switch field {
	case "name":
		return rec.Name
	case "email":
		return strOrEmpty(rec.Email)
	case "dob":
		return strOrEmpty(rec.DOB)
	case "job_title":
		return strOrEmpty(rec.JobTitle)
	case "role":
		return rec.Role
	case "year_start":
		return intOrEmpty(rec.YearStart)
	case "year_end":
		return intOrEmpty(rec.YearEnd)
	case "contract_type":
		return strOrEmpty(rec.ContractType)
	}
	return ""
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intOrEmpty(p *int) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%d", *p)
}

// storeSummaries derives frequency/median context from complete records.
func storeSummaries(records []domain.ImportRecord) (jobCommon, contractCommon string, yearMedian int) {
	jobs := map[string]int{}
	contracts := map[string]int{}
	years := []int{}
	for _, r := range records {
		if r.JobTitle != nil && *r.JobTitle != "" {
			jobs[*r.JobTitle]++
		}
		if r.ContractType != nil && *r.ContractType != "" {
			contracts[*r.ContractType]++
		}
		if r.YearStart != nil {
			years = append(years, *r.YearStart)
		}
	}
	jobCommon = topKey(jobs)
	contractCommon = topKey(contracts)
	if len(years) > 0 {
		sort.Ints(years)
		mid := len(years) / 2
		if len(years)%2 == 0 {
			yearMedian = (years[mid-1] + years[mid]) / 2
		} else {
			yearMedian = years[mid]
		}
	}
	return jobCommon, contractCommon, yearMedian
}

func topKey(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best, bestN := "", 0
	for _, k := range keys {
		if counts[k] > bestN {
			best, bestN = k, counts[k]
		}
	}
	return best
}

func randomCredential() (string, error) {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating credential: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
