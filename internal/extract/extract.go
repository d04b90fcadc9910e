package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/GooGuTeam/g0v0-client-versions/internal/definition"
)

// ExtractionError reports a failure to obtain the target file from an asset.
// It is recoverable: the resolver skips the affected pair and continues.
type ExtractionError struct {
	// InternalName is the archive entry that was requested.
	InternalName string
	// Reason describes the failure.
	Reason string
	// Err is the underlying cause, may be nil.
	Err error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %q: %s: %v", e.InternalName, e.Reason, e.Err)
	}

	return fmt.Sprintf("extract %q: %s", e.InternalName, e.Reason)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extract yields the bytes of the target file within an asset.
//
// Zip containers are opened in memory and the internal name is matched
// as an exact path. Every other archive type is a pass-through: the
// asset itself is the artifact and the internal name is ignored.
// Installer payloads (exe) and app-images are deliberately not unpacked;
// their outer file is what clients ship and report.
func Extract(data []byte, typ definition.ArchiveType, internalName string) ([]byte, error) {
	if !typ.RequiresExtraction() {
		return data, nil
	}

	return extractZip(data, internalName)
}

// extractZip looks up internalName inside a zip container held in memory.
func extractZip(data []byte, internalName string) ([]byte, error) {
	if internalName == "" {
		return nil, &ExtractionError{InternalName: internalName, Reason: "no internal name declared for zip asset"}
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{InternalName: internalName, Reason: "open zip container", Err: err}
	}

	for _, file := range reader.File {
		if file.Name != internalName {
			continue
		}

		entry, err := file.Open()
		if err != nil {
			return nil, &ExtractionError{InternalName: internalName, Reason: "open zip entry", Err: err}
		}

		contents, err := io.ReadAll(entry)

		// Best-effort cleanup.
		_ = entry.Close()

		if err != nil {
			return nil, &ExtractionError{InternalName: internalName, Reason: "read zip entry", Err: err}
		}

		return contents, nil
	}

	return nil, &ExtractionError{InternalName: internalName, Reason: "entry not found in archive"}
}
