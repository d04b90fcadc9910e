// Package generator orchestrates a full catalog generation run: it
// loads settings and client definitions, resolves every client against
// the release source with bounded concurrency, and writes the combined
// catalog plus one catalog per community definition file.
//
// Failures are isolated per client: a client whose repository cannot be
// listed is reported through the run's error, while output is still
// written for every client that resolved.
package generator
