package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octobees/leads-generator/outreach/internal/dto"
)

func TestFileSink_StageAndCommit(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "leads_output.json")
	require.NoError(t, os.WriteFile(dest, []byte(`[{"company_name":"stale"}]`), 0o644))

	records := []dto.LeadRecord{
		{CompanyName: "Acme", Website: "https://acme.example", EmployeeCount: 42, ScrapedInsights: "shoes", PersonalizedMessage: "Hi"},
		{CompanyName: "Globex", Website: "https://globex.example", ScrapedInsights: "none", PersonalizedMessage: "Hello"},
	}

	sink := NewFileSink(dest)
	staged, err := sink.Stage(records)
	require.NoError(t, err)

	before, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(before), "stale", "destination must be untouched until commit")

	require.NoError(t, staged.Commit())
	staged.Discard()

	raw, err := os.ReadFile(dest)
	require.NoError(t, err)

	var decoded []dto.LeadRecord
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, records, decoded)
	assert.Contains(t, string(raw), "[\n    {\n        \"company_name\": \"Acme\"")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not linger")
}

func TestFileSink_EmptyBatchWritesEmptyArray(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.json")

	staged, err := NewFileSink(dest).Stage(nil)
	require.NoError(t, err)
	require.NoError(t, staged.Commit())

	raw, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestFileSink_DiscardLeavesDestination(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.json")

	staged, err := NewFileSink(dest).Stage([]dto.LeadRecord{{CompanyName: "Acme"}})
	require.NoError(t, err)
	staged.Discard()

	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileSink_StageFailsForMissingDirectory(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "missing", "out.json")

	_, err := NewFileSink(dest).Stage(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create temp file")
}
