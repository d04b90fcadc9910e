package catalog

import (
	"fmt"

	"github.com/GooGuTeam/g0v0-client-versions/internal/definition"
)

// VersionEntry is the resolved output unit for one (client, platform,
// release) combination. Never mutated after creation.
type VersionEntry struct {
	// Version is the release identifier with any leading "v" stripped.
	Version string `json:"version"`
	// ReleaseDate is the publish timestamp in RFC 3339, empty when the
	// source did not report one.
	ReleaseDate string `json:"release_date,omitempty"`
	// Hash is the artifact fingerprint, lowercase hex.
	Hash string `json:"hash"`
}

// PlatformVersions groups the entries of one client by platform,
// newest release first within each platform.
type PlatformVersions map[definition.Platform][]VersionEntry

// Catalog maps client names to their resolved version tables. It is
// the shape serialized to the output files.
type Catalog map[string]PlatformVersions

// DuplicateClientError indicates two definitions in the same merge
// scope share a client name. Output identity would be ambiguous, so the
// assembly step fails as a whole.
type DuplicateClientError struct {
	Client string
}

// Error implements the error interface.
func (e *DuplicateClientError) Error() string {
	return fmt.Sprintf("duplicate client name %q in merge scope", e.Client)
}

// New returns an empty catalog.
func New() Catalog {
	return make(Catalog)
}

// Add inserts one client's version table, rejecting duplicates.
func (c Catalog) Add(client string, versions PlatformVersions) error {
	if _, ok := c[client]; ok {
		return &DuplicateClientError{Client: client}
	}

	c[client] = versions

	return nil
}

// Merge combines catalogs into a fresh one, rejecting duplicate client
// names across the whole scope.
func Merge(catalogs ...Catalog) (Catalog, error) {
	merged := New()

	for _, partial := range catalogs {
		for client, versions := range partial {
			if err := merged.Add(client, versions); err != nil {
				return nil, err
			}
		}
	}

	return merged, nil
}

// Clients returns the number of clients in the catalog.
func (c Catalog) Clients() int {
	return len(c)
}

// Entries returns the total number of version entries across all
// clients and platforms, for logging.
func (c Catalog) Entries() int {
	total := 0
	for _, versions := range c {
		for _, entries := range versions {
			total += len(entries)
		}
	}

	return total
}
