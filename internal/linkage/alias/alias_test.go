package alias

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	table := Default()

	t.Run("ships the curated entries", func(t *testing.T) {
		assert.Equal(t, 31, table.Len())
	})

	t.Run("keys are normalized", func(t *testing.T) {
		acronym, ok := table.Lookup("ENVIRONMENTAL PROTECTION AGENCY")
		require.True(t, ok)
		assert.Equal(t, "EPA", acronym)

		_, ok = table.Lookup("environmental protection agency")
		assert.False(t, ok, "lookups expect normalized input")
	})

	t.Run("ampersand and spelled-out variants share an acronym", func(t *testing.T) {
		a, ok := table.Lookup("CENTERS FOR MEDICARE & MEDICAID SERVICES")
		require.True(t, ok)
		b, ok := table.Lookup("CENTERS FOR MEDICARE AND MEDICAID SERVICES")
		require.True(t, ok)
		assert.Equal(t, a, b)
	})
}

func TestNilTable(t *testing.T) {
	var table *Table
	_, ok := table.Lookup("ANYTHING")
	assert.False(t, ok)
	assert.Equal(t, 0, table.Len())
}

func TestMerge(t *testing.T) {
	base := New(map[string]string{"Bureau of Land Management": "BLM"})
	merged := base.Merge(map[string]string{
		"bureau of land management":  "blm2",
		"  Bureau of   Reclamation ": "usbr",
		"":                           "IGNORED",
		"blank acronym":              "  ",
	})

	acronym, ok := merged.Lookup("BUREAU OF LAND MANAGEMENT")
	require.True(t, ok)
	assert.Equal(t, "BLM2", acronym)

	acronym, ok = merged.Lookup("BUREAU OF RECLAMATION")
	require.True(t, ok)
	assert.Equal(t, "USBR", acronym)

	assert.Equal(t, 2, merged.Len())

	original, _ := base.Lookup("BUREAU OF LAND MANAGEMENT")
	assert.Equal(t, "BLM", original, "merge must not mutate the receiver")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	doc := []byte("aliases:\n  \"bureau of ocean energy management\": BOEM\n  \"environmental protection agency\": EPA2\n")
	require.NoError(t, os.WriteFile(path, doc, 0o600))

	table, err := LoadFile(path)
	require.NoError(t, err)

	acronym, ok := table.Lookup("BUREAU OF OCEAN ENERGY MANAGEMENT")
	require.True(t, ok)
	assert.Equal(t, "BOEM", acronym)

	acronym, _ = table.Lookup("ENVIRONMENTAL PROTECTION AGENCY")
	assert.Equal(t, "EPA2", acronym, "file entries override defaults")
	assert.Equal(t, 32, table.Len())
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read alias file")

	_, err = Parse([]byte("aliases: [not, a, map]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse alias file")
}
