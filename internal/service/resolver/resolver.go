package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GooGuTeam/g0v0-client-versions/internal/catalog"
	"github.com/GooGuTeam/g0v0-client-versions/internal/definition"
	"github.com/GooGuTeam/g0v0-client-versions/internal/extract"
	"github.com/GooGuTeam/g0v0-client-versions/internal/fingerprint"
	"github.com/GooGuTeam/g0v0-client-versions/internal/logger"
	"github.com/GooGuTeam/g0v0-client-versions/internal/source"
)

// DefaultConcurrency bounds parallel (release, platform) resolution
// when no explicit limit is configured.
const DefaultConcurrency = 4

// ResolutionError indicates a client's release listing is entirely
// unreachable. It is fatal for that client only; other clients in the
// same run continue.
type ResolutionError struct {
	// Client is the definition name.
	Client string
	// Repository is the owner/repo pair that failed.
	Repository string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve client %q (%s): %v", e.Client, e.Repository, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Resolver turns a client definition into its per-platform version table.
type Resolver struct {
	src   source.Source
	limit int
}

// New creates a resolver backed by the provided release source.
// A non-positive limit falls back to DefaultConcurrency.
func New(src source.Source, limit int) *Resolver {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	return &Resolver{src: src, limit: limit}
}

// task is one (release, platform) resolution unit.
type task struct {
	release  source.Release
	version  string
	date     string
	platform definition.Platform
	spec     definition.FileSpec
}

// outcome is the tagged result of one task: either a resolved entry or
// a skip reason. Skips are expected and never abort the client.
type outcome struct {
	entry   catalog.VersionEntry
	skipped string
}

// Resolve fetches the most recent releases of the definition's
// repository and fingerprints every declared (release, platform) pair.
// Pairs whose asset is missing or unextractable are skipped with a
// logged warning; partial tables are a valid outcome. Only a failed
// release listing is an error.
func (r *Resolver) Resolve(ctx context.Context, def definition.Definition) (catalog.PlatformVersions, error) {
	ctx = logger.WithKV(ctx, "client", def.Name)

	logger.InfoKV(ctx, "Resolving client releases",
		"repository", def.Repository(), "count", def.Count)

	releases, err := r.src.ListRecentReleases(ctx, def.Owner, def.Repo, def.Count)
	if err != nil {
		return nil, &ResolutionError{Client: def.Name, Repository: def.Repository(), Err: err}
	}

	if len(releases) == 0 {
		logger.WarnKV(ctx, "Repository has no releases", "repository", def.Repository())
	}

	tasks := r.collectTasks(def, releases)

	results := make([]outcome, len(tasks))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.limit)

	for i := range tasks {
		group.Go(func() error {
			results[i] = r.resolvePair(groupCtx, tasks[i])
			return nil
		})
	}

	// Workers report skips through their result slot, never an error.
	_ = group.Wait()

	table := make(catalog.PlatformVersions)

	for i, tsk := range tasks {
		result := results[i]
		if result.skipped != "" {
			logger.WarnKV(ctx, "Skipping release platform",
				"release", tsk.release.Tag, "platform", tsk.platform, "reason", result.skipped)

			continue
		}

		logger.InfoKV(ctx, "Resolved version entry",
			"release", tsk.release.Tag, "platform", tsk.platform, "hash", result.entry.Hash)

		table[tsk.platform] = append(table[tsk.platform], result.entry)
	}

	r.appendMobileEntries(ctx, def, releases, table)

	return table, nil
}

// collectTasks expands releases into (release, platform) units, newest
// release first, honoring the support gates for mobile platforms.
func (r *Resolver) collectTasks(def definition.Definition, releases []source.Release) []task {
	tasks := make([]task, 0, len(releases)*len(def.Files))

	for _, release := range releases {
		version := versionOf(release)
		date := dateOf(release)

		for _, platform := range def.SortedPlatforms() {
			if !platformSupported(def, platform) {
				continue
			}

			tasks = append(tasks, task{
				release:  release,
				version:  version,
				date:     date,
				platform: platform,
				spec:     def.Files[platform],
			})
		}
	}

	return tasks
}

// resolvePair downloads, extracts, and fingerprints one pair. Every
// failure along the way, including adapter timeouts, folds into a skip.
func (r *Resolver) resolvePair(ctx context.Context, tsk task) outcome {
	data, err := r.src.FetchAsset(ctx, tsk.release, tsk.spec.AssetName)
	if err != nil {
		return outcome{skipped: fmt.Sprintf("fetch asset %q: %v", tsk.spec.AssetName, err)}
	}

	contents, err := extract.Extract(data, tsk.spec.Type, tsk.spec.InternalName)
	if err != nil {
		return outcome{skipped: fmt.Sprintf("extract asset %q: %v", tsk.spec.AssetName, err)}
	}

	return outcome{entry: catalog.VersionEntry{
		Version:     tsk.version,
		ReleaseDate: tsk.date,
		Hash:        fingerprint.SumBytes(contents),
	}}
}

// appendMobileEntries emits the synthetic android/ios entries for
// releases. Mobile clients report the hash of their version string
// rather than a binary hash, so no asset is involved; the entries are
// gated by the definition's support flags and only apply when no
// explicit file rule exists for the platform.
func (r *Resolver) appendMobileEntries(
	ctx context.Context,
	def definition.Definition,
	releases []source.Release,
	table catalog.PlatformVersions,
) {
	type mobile struct {
		platform  definition.Platform
		suffix    string
		supported bool
	}

	targets := []mobile{
		{platform: definition.PlatformAndroid, suffix: "-Android", supported: def.SupportAndroid},
		{platform: definition.PlatformIOS, suffix: "-iOS", supported: def.SupportIOS},
	}

	for _, target := range targets {
		if !target.supported {
			continue
		}

		if _, declared := def.Files[target.platform]; declared {
			continue
		}

		for _, release := range releases {
			version := versionOf(release)
			entry := catalog.VersionEntry{
				Version:     version,
				ReleaseDate: dateOf(release),
				Hash:        fingerprint.SumString(version + target.suffix),
			}

			logger.DebugKV(ctx, "Derived mobile version entry",
				"release", release.Tag, "platform", target.platform, "hash", entry.Hash)

			table[target.platform] = append(table[target.platform], entry)
		}
	}
}

// platformSupported applies the mobile support gates to declared platforms.
func platformSupported(def definition.Definition, platform definition.Platform) bool {
	switch platform {
	case definition.PlatformAndroid:
		return def.SupportAndroid
	case definition.PlatformIOS:
		return def.SupportIOS
	default:
		return true
	}
}

// versionOf strips the conventional "v" tag prefix.
func versionOf(release source.Release) string {
	return strings.TrimPrefix(release.Tag, "v")
}

// dateOf renders the publish timestamp for output, empty when unknown.
func dateOf(release source.Release) string {
	if release.PublishedAt.IsZero() {
		return ""
	}

	return release.PublishedAt.UTC().Format(time.RFC3339)
}
