// Package resolver implements the core pipeline: for each client
// definition it walks the most recent releases of the client's
// repository, downloads the declared platform assets, extracts the
// target file per archive type, and fingerprints it into a per-platform
// version table.
//
// Missing assets and extraction failures skip the affected
// (release, platform) pair with a warning; a partial table is a valid,
// expected outcome. Only an unreachable release listing fails the
// client, and that failure is isolated from other clients in the run.
package resolver
