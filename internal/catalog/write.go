package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// CombinedFilename is the output file holding every client.
	CombinedFilename = "version_list.json"

	// outputFilePermissions is used for catalog files.
	outputFilePermissions = 0o644
)

// Write serializes the catalog as indented JSON to the provided path,
// creating parent directories as needed.
func Write(path string, c Catalog) error {
	contents, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := os.WriteFile(filepath.Clean(path), append(contents, '\n'), outputFilePermissions); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}

	return nil
}
