package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GooGuTeam/g0v0-client-versions/internal/definition"
)

func sampleVersions(hash string) PlatformVersions {
	return PlatformVersions{
		definition.PlatformWindows: []VersionEntry{
			{Version: "2.0.0", ReleaseDate: "2025-06-01T12:00:00Z", Hash: hash},
			{Version: "1.0.0", ReleaseDate: "2025-05-01T12:00:00Z", Hash: hash},
		},
	}
}

// TestMerge verifies catalogs combine and totals are reported.
func TestMerge(t *testing.T) {
	t.Parallel()

	first := New()
	require.NoError(t, first.Add("Foo", sampleVersions("aa")))

	second := New()
	require.NoError(t, second.Add("Bar", sampleVersions("bb")))

	merged, err := Merge(first, second)
	require.NoError(t, err)
	require.Equal(t, 2, merged.Clients())
	require.Equal(t, 4, merged.Entries())
}

// TestMergeDuplicateClient ensures a shared client name fails the whole merge.
func TestMergeDuplicateClient(t *testing.T) {
	t.Parallel()

	first := New()
	require.NoError(t, first.Add("Foo", sampleVersions("aa")))

	second := New()
	require.NoError(t, second.Add("Foo", sampleVersions("bb")))

	_, err := Merge(first, second)
	require.Error(t, err)

	var dupErr *DuplicateClientError
	require.ErrorAs(t, err, &dupErr)
	require.Equal(t, "Foo", dupErr.Client)
}

// TestAddDuplicate ensures duplicates are caught within a single catalog too.
func TestAddDuplicate(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.Add("Foo", sampleVersions("aa")))
	require.Error(t, c.Add("Foo", sampleVersions("bb")))
}

// TestWriteRoundtrip checks the serialized shape of a catalog file.
func TestWriteRoundtrip(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.Add("Foo", sampleVersions("aa")))

	path := filepath.Join(t.TempDir(), "nested", CombinedFilename)
	require.NoError(t, Write(path, c))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]map[string][]VersionEntry
	require.NoError(t, json.Unmarshal(contents, &decoded))

	entries := decoded["Foo"]["windows"]
	require.Len(t, entries, 2)
	require.Equal(t, "2.0.0", entries[0].Version)
	require.Equal(t, "aa", entries[0].Hash)
}
