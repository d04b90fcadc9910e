// Package github adapts the GitHub releases REST API to the source
// capability consumed by the resolver. It walks the paged release list
// newest first, counting only non-prerelease releases toward the
// requested depth, and downloads assets through their published
// download URLs.
package github
