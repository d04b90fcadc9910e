// Package source defines the release source capability consumed by the
// resolver: enumerating recent releases of a repository and fetching the
// raw bytes of a named release asset. Concrete adapters live in
// subpackages.
package source

import (
	"context"
	"errors"
	"time"
)

// ErrAssetNotFound indicates that a release has no asset with the
// requested name. Asset names are matched exactly; no fuzzy matching.
var ErrAssetNotFound = errors.New("asset not found in release")

// Release is one published, versioned set of downloadable artifacts.
// Immutable once fetched.
type Release struct {
	// Tag is the version identifier (e.g. "v2025.101.0").
	Tag string
	// Name is the human-readable release title.
	Name string
	// Prerelease marks releases that do not advance the recency count.
	Prerelease bool
	// PublishedAt is the publish timestamp; zero when the source did
	// not report one.
	PublishedAt time.Time
	// Assets maps asset names to their download locations.
	Assets map[string]string
}

// HasAsset reports whether the release carries an asset with that exact name.
func (r Release) HasAsset(name string) bool {
	_, ok := r.Assets[name]
	return ok
}

// Source enumerates releases and fetches asset bytes.
type Source interface {
	// ListRecentReleases returns up to count releases of owner/repo,
	// newest first. A repository with fewer releases yields a short
	// list, not an error.
	ListRecentReleases(ctx context.Context, owner, repo string, count int) ([]Release, error)

	// FetchAsset returns the raw bytes of the named asset, or an error
	// wrapping ErrAssetNotFound when no asset matches exactly.
	FetchAsset(ctx context.Context, release Release, assetName string) ([]byte, error)
}
