package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /srv/site/data\njournal: false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/site/data", cfg.DataDir)
	assert.False(t, cfg.Journal)
	assert.Equal(t, Default().Addr, cfg.Addr)
	assert.Equal(t, Default().JournalMax, cfg.JournalMax)
}

func TestLoad_MissingFiles(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load("nope.yaml")
	require.Error(t, err)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dri: typo\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"FOLIO_DIR":         "/tmp/x",
		"FOLIO_JOURNAL":     "false",
		"FOLIO_JOURNAL_MAX": "50",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, "/tmp/x", cfg.DataDir)
	assert.False(t, cfg.Journal)
	assert.Equal(t, 50, cfg.JournalMax)

	env["FOLIO_JOURNAL_MAX"] = "many"
	require.Error(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
