package definition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

const validDocument = `[
	{
		"name": "osu!lazer",
		"owner": "ppy",
		"repo": "osu",
		"files": {
			"windows": {"asset_name": "install.zip", "internal_name": "osu!.exe"}
		}
	}
]`

// TestLoadSingleFile checks that a set takes its name from the file base name.
func TestLoadSingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "my-fork.json")
	writeFile(t, path, validDocument)

	set, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "my-fork", set.Name)
	require.False(t, set.Community)
	require.Len(t, set.Definitions, 1)
}

// TestLoadDir checks discovery of the default set plus community files.
func TestLoadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultFilename), validDocument)
	writeFile(t, filepath.Join(dir, CommunitySubdir, "beta.json"), `[
		{
			"name": "beta-fork",
			"owner": "o",
			"repo": "beta",
			"files": {"linux": {"asset_name": "b.AppImage", "type": "appimage"}}
		}
	]`)
	writeFile(t, filepath.Join(dir, CommunitySubdir, "alpha.json"), `[
		{
			"name": "alpha-fork",
			"owner": "o",
			"repo": "alpha",
			"files": {"linux": {"asset_name": "a.AppImage", "type": "appimage"}}
		}
	]`)
	// Non-JSON files in the community directory are ignored.
	writeFile(t, filepath.Join(dir, CommunitySubdir, "README.md"), "ignored")

	sets, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, sets, 3)

	require.Equal(t, "clients", sets[0].Name)
	require.False(t, sets[0].Community)

	// Community sets follow in lexical order.
	require.Equal(t, "alpha", sets[1].Name)
	require.True(t, sets[1].Community)
	require.Equal(t, "beta", sets[2].Name)
	require.True(t, sets[2].Community)
}

// TestLoadDirWithoutCommunity verifies the community directory is optional.
func TestLoadDirWithoutCommunity(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultFilename), validDocument)

	sets, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, sets, 1)
}

// TestLoadDirMissingDefault verifies the default set is required.
func TestLoadDirMissingDefault(t *testing.T) {
	t.Parallel()

	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
}

// TestLoadRejectsSchemaViolation ensures schema failures surface as definition errors.
func TestLoadRejectsSchemaViolation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	writeFile(t, path, `[{"name": "x", "unexpected": true}]`)

	_, err := Load(path)
	require.Error(t, err)

	var defErr *DefinitionError
	require.ErrorAs(t, err, &defErr)
}
