package resolver

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GooGuTeam/g0v0-client-versions/internal/definition"
	"github.com/GooGuTeam/g0v0-client-versions/internal/fingerprint"
	"github.com/GooGuTeam/g0v0-client-versions/internal/source"
)

// fakeSource is an in-memory release source for resolver tests.
type fakeSource struct {
	releases []source.Release
	// assets maps release tag -> asset name -> bytes.
	assets  map[string]map[string][]byte
	listErr error
}

func (f *fakeSource) ListRecentReleases(_ context.Context, _, _ string, count int) ([]source.Release, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	if count > len(f.releases) {
		count = len(f.releases)
	}

	return f.releases[:count], nil
}

func (f *fakeSource) FetchAsset(_ context.Context, release source.Release, assetName string) ([]byte, error) {
	data, ok := f.assets[release.Tag][assetName]
	if !ok {
		return nil, fmt.Errorf("release %s, asset %q: %w", release.Tag, assetName, source.ErrAssetNotFound)
	}

	return data, nil
}

func buildZip(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer

	writer := zip.NewWriter(&buf)
	for name, contents := range entries {
		entry, err := writer.Create(name)
		require.NoError(t, err)

		_, err = entry.Write(contents)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	return buf.Bytes()
}

func release(tag string) source.Release {
	return source.Release{
		Tag:         tag,
		Name:        "release " + tag,
		PublishedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Assets:      map[string]string{},
	}
}

func windowsZipDefinition(count int) definition.Definition {
	return definition.Definition{
		Name:           "X",
		Owner:          "o",
		Repo:           "r",
		Count:          count,
		SupportAndroid: true,
		SupportIOS:     true,
		Files: map[definition.Platform]definition.FileSpec{
			definition.PlatformWindows: {
				AssetName:    "x.zip",
				InternalName: "x.dll",
				Type:         definition.ArchiveZip,
			},
		},
	}
}

// TestResolveEndToEnd walks one release through download, extraction,
// fingerprinting, and the synthetic mobile entries.
func TestResolveEndToEnd(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		releases: []source.Release{release("v1.0.0")},
		assets: map[string]map[string][]byte{
			"v1.0.0": {"x.zip": buildZip(t, map[string][]byte{"x.dll": []byte("ABC")})},
		},
	}

	table, err := New(src, 1).Resolve(context.Background(), windowsZipDefinition(1))
	require.NoError(t, err)

	windows := table[definition.PlatformWindows]
	require.Len(t, windows, 1)
	require.Equal(t, "1.0.0", windows[0].Version)
	require.Equal(t, "2025-06-01T12:00:00Z", windows[0].ReleaseDate)
	require.Equal(t, "b5d4045c3f466fa91fe2cc6abe79232a1a57cdf104f7a26e716e0a1e2789df78", windows[0].Hash)

	// Mobile platforms are derived from the version string.
	android := table[definition.PlatformAndroid]
	require.Len(t, android, 1)
	require.Equal(t, fingerprint.SumString("1.0.0-Android"), android[0].Hash)

	ios := table[definition.PlatformIOS]
	require.Len(t, ios, 1)
	require.Equal(t, fingerprint.SumString("1.0.0-iOS"), ios[0].Hash)
}

// TestResolveShortReleaseList covers repositories with fewer releases
// than requested: the result covers what exists, without error.
func TestResolveShortReleaseList(t *testing.T) {
	t.Parallel()

	archive := buildZip(t, map[string][]byte{"x.dll": []byte("payload")})
	src := &fakeSource{
		releases: []source.Release{release("v2.0.0"), release("v1.0.0")},
		assets: map[string]map[string][]byte{
			"v2.0.0": {"x.zip": archive},
			"v1.0.0": {"x.zip": archive},
		},
	}

	table, err := New(src, 2).Resolve(context.Background(), windowsZipDefinition(3))
	require.NoError(t, err)

	windows := table[definition.PlatformWindows]
	require.Len(t, windows, 2)

	// Newest first.
	require.Equal(t, "2.0.0", windows[0].Version)
	require.Equal(t, "1.0.0", windows[1].Version)
}

// TestResolveMobileGates verifies support flags suppress mobile entries,
// including an explicitly declared android file rule.
func TestResolveMobileGates(t *testing.T) {
	t.Parallel()

	def := windowsZipDefinition(1)
	def.SupportAndroid = false
	def.SupportIOS = false
	def.Files[definition.PlatformAndroid] = definition.FileSpec{
		AssetName: "x.apk",
		Type:      definition.ArchiveOther,
	}

	src := &fakeSource{
		releases: []source.Release{release("v1.0.0")},
		assets: map[string]map[string][]byte{
			"v1.0.0": {
				"x.zip": buildZip(t, map[string][]byte{"x.dll": []byte("ABC")}),
				"x.apk": []byte("apk bytes"),
			},
		},
	}

	table, err := New(src, 1).Resolve(context.Background(), def)
	require.NoError(t, err)

	require.NotEmpty(t, table[definition.PlatformWindows])
	require.Empty(t, table[definition.PlatformAndroid])
	require.Empty(t, table[definition.PlatformIOS])
}

// TestResolveDeclaredMobileFile checks that an android file rule is
// fingerprinted from the asset, not derived from the version string.
func TestResolveDeclaredMobileFile(t *testing.T) {
	t.Parallel()

	def := windowsZipDefinition(1)
	def.Files = map[definition.Platform]definition.FileSpec{
		definition.PlatformAndroid: {AssetName: "x.apk", Type: definition.ArchiveOther},
	}

	src := &fakeSource{
		releases: []source.Release{release("v1.0.0")},
		assets: map[string]map[string][]byte{
			"v1.0.0": {"x.apk": []byte("apk bytes")},
		},
	}

	table, err := New(src, 1).Resolve(context.Background(), def)
	require.NoError(t, err)

	android := table[definition.PlatformAndroid]
	require.Len(t, android, 1)
	require.Equal(t, fingerprint.SumBytes([]byte("apk bytes")), android[0].Hash)
}

// TestResolveSkipsMissingAsset ensures an absent asset skips only the
// affected release, keeping the rest of the table.
func TestResolveSkipsMissingAsset(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		releases: []source.Release{release("v2.0.0"), release("v1.0.0")},
		assets: map[string]map[string][]byte{
			// v2.0.0 has no x.zip at all.
			"v1.0.0": {"x.zip": buildZip(t, map[string][]byte{"x.dll": []byte("ABC")})},
		},
	}

	table, err := New(src, 2).Resolve(context.Background(), windowsZipDefinition(2))
	require.NoError(t, err)

	windows := table[definition.PlatformWindows]
	require.Len(t, windows, 1)
	require.Equal(t, "1.0.0", windows[0].Version)
}

// TestResolveSkipsExtractionFailure ensures an unextractable asset is a
// skip, not an error.
func TestResolveSkipsExtractionFailure(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		releases: []source.Release{release("v1.0.0")},
		assets: map[string]map[string][]byte{
			"v1.0.0": {"x.zip": []byte("not a zip container")},
		},
	}

	table, err := New(src, 1).Resolve(context.Background(), windowsZipDefinition(1))
	require.NoError(t, err)
	require.Empty(t, table[definition.PlatformWindows])
}

// TestResolveListFailure surfaces an unreachable repository as a
// resolution error for that client.
func TestResolveListFailure(t *testing.T) {
	t.Parallel()

	src := &fakeSource{listErr: errors.New("repository not found")}

	_, err := New(src, 1).Resolve(context.Background(), windowsZipDefinition(1))
	require.Error(t, err)

	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	require.Equal(t, "X", resErr.Client)
	require.Equal(t, "o/r", resErr.Repository)
}
