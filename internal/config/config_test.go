package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	cfg := Default("Acme LLC", "llc")
	cfg.BankAccounts = []BankAccount{
		{Name: "Chase Checking", LastFour: "1234", Code: "1010"},
	}
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme LLC", got.Business.Name)
	assert.Equal(t, "llc", got.Business.EntityType)
	assert.Equal(t, "bookkeep.db", got.Database.Path)
	assert.Equal(t, "01-01", got.Fiscal.YearStart)
	require.Len(t, got.BankAccounts, 1)
	assert.Equal(t, "1010", got.BankAccounts[0].Code)
	assert.Equal(t, "3000", got.Defaults.OwnerEquityCode)
}

func TestLoad_EnvOverridesDatabasePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Acme LLC", "llc")))

	t.Setenv(dbPathEnv, "/tmp/override.db")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", got.Database.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
