package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Nomadcxx/findedupe/internal/activity"
	"github.com/Nomadcxx/findedupe/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithHome(t, t.TempDir(), args...)
}

func executeWithHome(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	cfgFile, verbose, plansDir = "", false, ""
	t.Setenv("HOME", home)
	t.Setenv("SUDO_USER", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNormalizeCmd(t *testing.T) {
	out, err := execute(t, "normalize", "The Matrix (1999) [1080p]")
	require.NoError(t, err)
	assert.Contains(t, out, "the matrix")
	assert.Contains(t, out, "yes")
}

func TestSimilarityCmd(t *testing.T) {
	out, err := execute(t, "similarity", "The Dark Knight", "Dark Knight The")
	require.NoError(t, err)
	assert.Contains(t, out, "token set")
	assert.Contains(t, out, "100")
}

func TestMatchCmd(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := execute(t, "--config", cfg, "match", "Alien", "Aliens", "--id-a", "tmdb=348", "--id-b", "TMDB=348")
	require.NoError(t, err)
	assert.Contains(t, out, "provider id")

	out, err = execute(t, "--config", cfg, "match", "Heat", "Up")
	require.NoError(t, err)
	assert.Contains(t, out, "no")
}

func TestValidateCmd(t *testing.T) {
	root := t.TempDir()
	good := writeConfig(t, `
[libraries]
roots = ["`+filepath.ToSlash(root)+`"]

[exclusions]
path_prefixes = ["`+filepath.ToSlash(filepath.Join(root, "Trash"))+`"]
glob_patterns = ["*.sample.*"]
`)
	out, err := execute(t, "--config", good, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Valid glob pattern")
	assert.Contains(t, out, "Path does not exist but will be accepted")

	bad := writeConfig(t, `
[exclusions]
glob_patterns = ["[invalid"]
`)
	out, err = execute(t, "--config", bad, "validate")
	assert.ErrorIs(t, err, errInvalidRules)
	assert.Contains(t, out, "Invalid glob pattern")
}

func TestCheckCmd(t *testing.T) {
	cfg := writeConfig(t, `
[libraries]
roots = ["/media/movies"]

[exclusions]
glob_patterns = ["**/extras/**"]
`)
	out, err := execute(t, "--config", cfg, "check",
		"/media/movies/Heat/Heat.mkv",
		"/media/movies/Heat/extras/trailer.mkv",
		"/srv/other/Heat.mkv")
	require.NoError(t, err)
	assert.Contains(t, out, "included")
	assert.Contains(t, out, "excluded glob pattern")
	assert.Contains(t, out, "outside library roots")
}

func TestScanCmd_JSON(t *testing.T) {
	cfg := writeConfig(t, `
[libraries]
roots = ["/media/movies"]
`)
	input := filepath.Join(t.TempDir(), "library.json")
	require.NoError(t, os.WriteFile(input, []byte(`[
  {"library_id": "main", "fingerprint": {
    "key": {"item_id": "6f1c2b9e-4a8d-4a4b-9a51-0f3c2d1e7b10", "kind": "movie"},
    "title": "Heat (1995)", "year": 1995,
    "path": "/media/movies/Heat (1995)/Heat.1995.2160p.BluRay.mkv", "bytes": 4000
  }},
  {"library_id": "main", "fingerprint": {
    "key": {"item_id": "0b6e8c1a-2f4d-4e5a-8b9c-1d2e3f4a5b6c", "kind": "movie"},
    "title": "Heat", "year": 1995,
    "path": "/media/movies/Heat/Heat.720p.mkv", "bytes": 1500
  }},
  {"library_id": "main", "fingerprint": {
    "key": {"item_id": "9a8b7c6d-5e4f-4a3b-9c2d-1e0f9a8b7c6d", "kind": "movie"},
    "title": "Heat", "year": 1995,
    "path": "/downloads/Heat.mkv", "bytes": 900
  }}
]`), 0644))

	home := t.TempDir()
	out, err := executeWithHome(t, home, "--config", cfg, "scan", input, "--json")
	require.NoError(t, err)

	var plans []media.DeletePlan
	require.NoError(t, json.Unmarshal([]byte(out), &plans))
	require.Len(t, plans, 1)
	assert.Equal(t, "6f1c2b9e-4a8d-4a4b-9a51-0f3c2d1e7b10", plans[0].Keeper.ItemID.String())
	assert.Equal(t, int64(1500), plans[0].TotalBytes)
	assert.Equal(t, []string{"/media/movies/Heat"}, plans[0].FoldersToRemovePreview)
	assert.Equal(t, media.DryRun, plans[0].Mode)

	out, err = executeWithHome(t, home, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "planned")
	assert.Contains(t, out, "excluded")
	assert.Contains(t, out, "outside library roots")
}

func TestHistoryCmd(t *testing.T) {
	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No activity recorded")
}

func TestHistoryCmd_Labels(t *testing.T) {
	assert.Equal(t, "excluded glob pattern (*.sample.*)", historyDetail(activity.Entry{
		Action: activity.ActionExcluded, Reason: "excluded glob pattern", Rule: "*.sample.*",
	}))
	assert.Equal(t, "/keep.mkv", historyTarget(activity.Entry{Keeper: "/keep.mkv", Path: "/other.mkv"}))
	assert.Equal(t, "Heat", historyTarget(activity.Entry{Title: "Heat"}))
}

func TestPlansCmd(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "plans", "show", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No saved plans")

	out, err = execute(t, "plans", "clear", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "findedupe", "config.toml")

	out, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = execute(t, "--config", path, "config", "init")
	assert.Error(t, err)

	out, err = execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "conditional_match_threshold = 85")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 GB", formatBytes(2<<30))
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"x"}, {"y", "z"}}, []columnAlignment{alignLeft, alignRight})
	assert.Contains(t, out, "x")
	assert.Contains(t, out, "z")
	assert.Empty(t, renderTable(nil, nil, nil))
}
