package csvexport_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/csvexport"
	"hrdesk/internal/domain"
)

func TestWriter_ExportsAuditEntries(t *testing.T) {
	actor := uuid.New()
	entries := []domain.ImputationAuditEntry{
		{
			RowIndex:    4,
			Field:       "email",
			OldValue:    "",
			NewValue:    "maya@example.com",
			Source:      domain.SourceHeuristic,
			ActorUserID: &actor,
			AppliedAt:   time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC),
		},
		{
			RowIndex:  7,
			Field:     "year_start",
			NewValue:  "2014",
			Source:    domain.SourceModel,
			AppliedAt: time.Date(2026, time.March, 10, 9, 31, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteEntries(entries))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Row Index", "Field", "Old Value", "New Value", "Source", "Actor", "Applied At"}, rows[0])
	assert.Equal(t, []string{"4", "email", "", "maya@example.com", "heuristic", actor.String(), "2026-03-10T09:30:00Z"}, rows[1])
	assert.Equal(t, "", rows[2][5])
	assert.Equal(t, "ml", rows[2][4])
}
