package normalizer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/normalizer"
)

func TestMappingStore_LoadMissingFile(t *testing.T) {
	store := normalizer.NewMappingStore(filepath.Join(t.TempDir(), "missing.json"))
	cfg := store.Load()

	assert.Equal(t, 0, cfg.Threshold)
	assert.Empty(t, cfg.Mappings)
}

func TestMappingStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.json")
	store := normalizer.NewMappingStore(path)

	err := store.Save(normalizer.MappingConfig{
		Threshold: 85,
		Mappings:  map[string]string{"Employee Name": "name"},
	})
	require.NoError(t, err)

	cfg := normalizer.NewMappingStore(path).Load()
	assert.Equal(t, 85, cfg.Threshold)
	assert.Equal(t, "name", cfg.Mappings["Employee Name"])
}

func TestMappingStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	cfg := normalizer.NewMappingStore(path).Load()
	assert.Empty(t, cfg.Mappings)
}
