// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/crosswalk/internal/store"
	"github.com/pdiddy/crosswalk/pkg/types"
)

func TestDecodeConfig_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := decodeConfig(v)
	require.NoError(t, err)

	assert.Equal(t, defaultURL, cfg.Source.URL)
	assert.Equal(t, "downloads", cfg.Source.CacheDir)
	assert.Equal(t, defaultTimeout, cfg.Source.Timeout)
	assert.Equal(t, defaultUserAgent, cfg.Source.UserAgent)
	assert.Equal(t, 5, cfg.Source.MaxRetries)
	assert.Equal(t, []int{7, 8}, cfg.Extract.Pages)
	assert.Equal(t, filepath.Join("references", "cms_relcd.xlsx"), cfg.Spreadsheet.Path)
	assert.Equal(t, "relcd", cfg.Spreadsheet.Sheet)
	assert.Equal(t, types.StoreConfig{
		Profile:        "pdw",
		ProfilesFile:   "profiles.yaml",
		SecretsDir:     ".secrets",
		Library:        "fmt",
		Table:          "relcd",
		Marker:         "TABLE_EXISTS= 1",
		PollInterval:   time.Second,
		ConfirmTimeout: 2 * time.Minute,
	}, cfg.Store)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestDecodeConfig_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crosswalk.yaml")
	require.NoError(t, writeFile(path, `
source:
  cache_dir: /tmp/pdfs
  timeout: 5s
extract:
  pages: [3]
store:
  profile: local
  confirm_timeout: 30s
`))
	t.Setenv("CROSSWALK_STORE_LIBRARY", "formats")

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("CROSSWALK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	require.NoError(t, v.ReadInConfig())

	cfg, err := decodeConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pdfs", cfg.Source.CacheDir)
	assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
	assert.Equal(t, []int{3}, cfg.Extract.Pages)
	assert.Equal(t, "local", cfg.Store.Profile)
	assert.Equal(t, 30*time.Second, cfg.Store.ConfirmTimeout)
	assert.Equal(t, "formats", cfg.Store.Library)
	assert.Equal(t, "relcd", cfg.Store.Table, "unset keys keep their default")
}

func TestRenderRaw_ShowsCarriageReturns(t *testing.T) {
	var buf bytes.Buffer
	renderRaw(&buf, []types.RawRow{{Code: "G8", CWFCode: "01", Description: "Other\rrelationship", Page: 8}})

	out := buf.String()
	assert.Contains(t, out, `Other\rrelationship`)
	assert.NotContains(t, out, "\r")
	assert.Contains(t, out, "(1 rows)")
}

func TestRenderRows(t *testing.T) {
	var buf bytes.Buffer
	renderRows(&buf, []types.CrosswalkRow{{Start: "01", Label: "Spouse", FmtName: "relcd", Type: "C"}})
	assert.Contains(t, buf.String(), "fmtname")
	assert.Contains(t, buf.String(), "Spouse")

	buf.Reset()
	renderRows(&buf, nil)
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "crosswalk dev\n", buf.String())
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestVerifyCommand_PrintsStoredRows(t *testing.T) {
	dir := t.TempDir()
	profiles := filepath.Join(dir, "profiles.yaml")
	require.NoError(t, writeFile(profiles,
		"profiles:\n  local:\n    driver: sqlite3\n    dsn: "+filepath.Join(dir, "main.db")+"\n    library_dir: "+dir+"\n"))

	ctx := context.Background()
	p, err := store.LoadProfile(profiles, "local")
	require.NoError(t, err)
	s, err := store.Open(ctx, p)
	require.NoError(t, err)
	require.NoError(t, s.WriteTable(ctx, "fmt", "relcd", []types.CrosswalkRow{
		{Start: "01", Label: "Spouse", FmtName: "relcd", Type: "C"},
	}))
	require.NoError(t, s.Close())

	t.Setenv("CROSSWALK_STORE_PROFILES_FILE", profiles)
	t.Setenv("CROSSWALK_STORE_SECRETS_DIR", filepath.Join(dir, ".secrets"))

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"verify", "--profile", "local", "--json"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	var rows []types.CrosswalkRow
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	assert.Equal(t, []types.CrosswalkRow{{Start: "01", Label: "Spouse", FmtName: "relcd", Type: "C"}}, rows)
	assert.Contains(t, errOut.String(), "TABLE_EXISTS= 1")
	assert.Contains(t, errOut.String(), "ended.")
}
