// Package definition parses client definition files into immutable,
// defaulted value objects.
//
// A definition file is a JSON array of client entries, each naming a
// release source repository and the per-platform rules for locating the
// binary of interest inside release assets. Files are validated against
// the embedded clients.schema.json before decoding; defaults (type=zip,
// count=1, support_android=true, support_ios=true) are applied at parse
// time so the rest of the pipeline never deals with omitted fields.
package definition
