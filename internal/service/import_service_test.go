package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/domain"
	"hrdesk/internal/normalizer"
	"hrdesk/internal/service"
	"hrdesk/mocks"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newImportService(t *testing.T, users *mocks.MockUserRepo, employees *mocks.MockEmployeeRepo, audit *mocks.MockImputationAuditRepo, stats *mocks.MockStatsRepo) service.ImportService {
	t.Helper()
	store := normalizer.NewMappingStore(filepath.Join(t.TempDir(), "mappings.json"))
	return service.NewImportService(users, employees, audit, stats, store,
		filepath.Join(t.TempDir(), "model.json"), 0, 10)
}

func stubEmptyStore(users *mocks.MockUserRepo, stats *mocks.MockStatsRepo) {
	stats.On("KnownEmails", mock.Anything).Return([]string{}, nil)
	stats.On("CompleteEmployeeRecords", mock.Anything).Return([]domain.ImportRecord{}, nil)
	users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
}

func TestImportFile_CreatesUsersAndEmployees(t *testing.T) {
	users := new(mocks.MockUserRepo)
	employees := new(mocks.MockEmployeeRepo)
	audit := new(mocks.MockImputationAuditRepo)
	stats := new(mocks.MockStatsRepo)
	svc := newImportService(t, users, employees, audit, stats)

	stubEmptyStore(users, stats)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	employees.On("Create", mock.Anything, mock.Anything).Return(nil)
	audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	path := writeCSV(t, "Full Name,E-Mail,Role\nMaya Chen,maya@example.com,engineer\nRui Alves,rui@example.com,driver\n")
	summary, err := svc.ImportFile(context.Background(), path, service.ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Errored)
	users.AssertNumberOfCalls(t, "Create", 2)
	employees.AssertNumberOfCalls(t, "Create", 2)
}

func TestImportFile_SkipsExistingEmployees(t *testing.T) {
	users := new(mocks.MockUserRepo)
	employees := new(mocks.MockEmployeeRepo)
	audit := new(mocks.MockImputationAuditRepo)
	stats := new(mocks.MockStatsRepo)
	svc := newImportService(t, users, employees, audit, stats)

	existing := &domain.User{ID: uuid.New(), Email: "maya@example.com", Role: domain.RoleEngineer}
	stats.On("KnownEmails", mock.Anything).Return([]string{"maya@example.com"}, nil)
	stats.On("CompleteEmployeeRecords", mock.Anything).Return([]domain.ImportRecord{}, nil)
	users.On("GetByEmail", mock.Anything, "maya@example.com").Return(existing, nil)
	employees.On("GetByUser", mock.Anything, existing.ID).Return(&domain.Employee{ID: uuid.New()}, nil)
	audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	path := writeCSV(t, "Name,Email\nMaya Chen,maya@example.com\n")
	summary, err := svc.ImportFile(context.Background(), path, service.ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	employees.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestImportFile_InvalidRowsReportedNotPersisted(t *testing.T) {
	users := new(mocks.MockUserRepo)
	employees := new(mocks.MockEmployeeRepo)
	audit := new(mocks.MockImputationAuditRepo)
	stats := new(mocks.MockStatsRepo)
	svc := newImportService(t, users, employees, audit, stats)

	stubEmptyStore(users, stats)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	employees.On("Create", mock.Anything, mock.Anything).Return(nil)
	audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	path := writeCSV(t, "Name,Email\n,missing-name@example.com\nRui Alves,rui@example.com\n")
	summary, err := svc.ImportFile(context.Background(), path, service.ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Errored)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 0, summary.Errors[0].RowIndex)
	assert.Contains(t, summary.Errors[0].Problems, "Missing name")
}

func TestImportFile_RowFailureIsolated(t *testing.T) {
	users := new(mocks.MockUserRepo)
	employees := new(mocks.MockEmployeeRepo)
	audit := new(mocks.MockImputationAuditRepo)
	stats := new(mocks.MockStatsRepo)
	svc := newImportService(t, users, employees, audit, stats)

	stubEmptyStore(users, stats)
	boom := errors.New("disk full")
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "maya@example.com"
	})).Return(boom)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	employees.On("Create", mock.Anything, mock.Anything).Return(nil)
	audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	path := writeCSV(t, "Name,Email\nMaya Chen,maya@example.com\nRui Alves,rui@example.com\n")
	summary, err := svc.ImportFile(context.Background(), path, service.ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Errored)
}

func TestImportFile_AuditsImputedFields(t *testing.T) {
	users := new(mocks.MockUserRepo)
	employees := new(mocks.MockEmployeeRepo)
	audit := new(mocks.MockImputationAuditRepo)
	stats := new(mocks.MockStatsRepo)
	svc := newImportService(t, users, employees, audit, stats)

	stubEmptyStore(users, stats)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	employees.On("Create", mock.Anything, mock.Anything).Return(nil)

	var recorded []domain.ImputationAuditEntry
	audit.On("Record", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		recorded = append(recorded, *args.Get(1).(*domain.ImputationAuditEntry))
	}).Return(nil)

	// Only a name: email, job/year/dob context all have to be imputed.
	path := writeCSV(t, "Name\nMaya Chen\n")
	_, err := svc.ImportFile(context.Background(), path, service.ImportOptions{})
	require.NoError(t, err)

	fields := map[string]domain.ImputationSource{}
	for _, e := range recorded {
		fields[e.Field] = e.Source
		assert.Equal(t, 0, e.RowIndex)
		assert.Equal(t, "", e.OldValue)
		assert.NotEqual(t, "", e.NewValue)
	}
	assert.Equal(t, domain.SourceHeuristic, fields["email"])
	assert.Equal(t, domain.SourceHeuristic, fields["year_start"])
	assert.Equal(t, domain.SourceHeuristic, fields["dob"])
}

func TestImportFile_PreviewEditFixesRowAndIsAudited(t *testing.T) {
	users := new(mocks.MockUserRepo)
	employees := new(mocks.MockEmployeeRepo)
	audit := new(mocks.MockImputationAuditRepo)
	stats := new(mocks.MockStatsRepo)
	svc := newImportService(t, users, employees, audit, stats)

	stubEmptyStore(users, stats)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	employees.On("Create", mock.Anything, mock.Anything).Return(nil)

	var previews []domain.ImputationAuditEntry
	audit.On("Record", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		e := args.Get(1).(*domain.ImputationAuditEntry)
		if e.Source == domain.SourcePreview {
			previews = append(previews, *e)
		}
	}).Return(nil)

	actor := uuid.New()
	path := writeCSV(t, "Name,Email\nMaya Chen,broken-address\n")
	summary, err := svc.ImportFile(context.Background(), path, service.ImportOptions{
		ActorUserID: &actor,
		PreviewEdits: []service.PreviewEdit{
			{RowIndex: 0, Field: "email", Value: "maya@example.com"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.Errored)
	require.Len(t, previews, 1)
	assert.Equal(t, "broken-address", previews[0].OldValue)
	assert.Equal(t, "maya@example.com", previews[0].NewValue)
	require.NotNil(t, previews[0].ActorUserID)
	assert.Equal(t, actor, *previews[0].ActorUserID)
}

func TestImportFile_MappingOverridePersisted(t *testing.T) {
	users := new(mocks.MockUserRepo)
	employees := new(mocks.MockEmployeeRepo)
	audit := new(mocks.MockImputationAuditRepo)
	stats := new(mocks.MockStatsRepo)

	mappingPath := filepath.Join(t.TempDir(), "mappings.json")
	store := normalizer.NewMappingStore(mappingPath)
	svc := service.NewImportService(users, employees, audit, stats, store,
		filepath.Join(t.TempDir(), "model.json"), 0, 10)

	stubEmptyStore(users, stats)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	employees.On("Create", mock.Anything, mock.Anything).Return(nil)
	audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	path := writeCSV(t, "Employee,Email\nMaya Chen,maya@example.com\n")
	summary, err := svc.ImportFile(context.Background(), path, service.ImportOptions{
		MappingOverride: map[string]string{"Employee": "name"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)

	saved := normalizer.NewMappingStore(mappingPath).Load()
	assert.Equal(t, "name", saved.Mappings["Employee"])
}

func TestImportFile_DryRunPersistsNothing(t *testing.T) {
	users := new(mocks.MockUserRepo)
	employees := new(mocks.MockEmployeeRepo)
	audit := new(mocks.MockImputationAuditRepo)
	stats := new(mocks.MockStatsRepo)
	svc := newImportService(t, users, employees, audit, stats)

	stats.On("KnownEmails", mock.Anything).Return([]string{}, nil)
	stats.On("CompleteEmployeeRecords", mock.Anything).Return([]domain.ImportRecord{}, nil)
	audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	path := writeCSV(t, "Name,Email\nMaya Chen,maya@example.com\n")
	summary, err := svc.ImportFile(context.Background(), path, service.ImportOptions{DryRun: true})

	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	require.Len(t, summary.Records, 1)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	employees.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestImportFile_ReportsHeaderMapping(t *testing.T) {
	users := new(mocks.MockUserRepo)
	employees := new(mocks.MockEmployeeRepo)
	audit := new(mocks.MockImputationAuditRepo)
	stats := new(mocks.MockStatsRepo)
	svc := newImportService(t, users, employees, audit, stats)

	stubEmptyStore(users, stats)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	employees.On("Create", mock.Anything, mock.Anything).Return(nil)
	audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	path := writeCSV(t, "Full Name,emal\nMaya Chen,maya@example.com\n")
	summary, err := svc.ImportFile(context.Background(), path, service.ImportOptions{})

	require.NoError(t, err)
	require.NotNil(t, summary.Mapping)
	assert.Equal(t, "name", summary.Mapping.Matches["Full Name"].Field)
	assert.Equal(t, "email", summary.Mapping.Matches["emal"].Field)
}

func TestTrainImputer_WritesArtifact(t *testing.T) {
	users := new(mocks.MockUserRepo)
	employees := new(mocks.MockEmployeeRepo)
	audit := new(mocks.MockImputationAuditRepo)
	stats := new(mocks.MockStatsRepo)

	modelPath := filepath.Join(t.TempDir(), "model.json")
	store := normalizer.NewMappingStore(filepath.Join(t.TempDir(), "mappings.json"))
	svc := service.NewImportService(users, employees, audit, stats, store, modelPath, 0, 10)

	stats.On("CompleteEmployeeRecords", mock.Anything).Return([]domain.ImportRecord{
		{Name: "Maya Chen", Role: "engineer", JobTitle: domain.StrPtr("Surveyor"), YearStart: domain.IntPtr(2015)},
	}, nil)

	require.NoError(t, svc.TrainImputer(context.Background()))
	_, err := os.Stat(modelPath)
	assert.NoError(t, err)
}

func TestExportAudit(t *testing.T) {
	users := new(mocks.MockUserRepo)
	employees := new(mocks.MockEmployeeRepo)
	audit := new(mocks.MockImputationAuditRepo)
	stats := new(mocks.MockStatsRepo)
	svc := newImportService(t, users, employees, audit, stats)

	entries := []domain.ImputationAuditEntry{{RowIndex: 3, Field: "email"}}
	audit.On("List", mock.Anything).Return(entries, nil)

	out, err := svc.ExportAudit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entries, out)
}
