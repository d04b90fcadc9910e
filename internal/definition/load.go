package definition

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// DefaultFilename is the definition file holding the default client set.
	DefaultFilename = "clients.json"

	// CommunitySubdir holds one definition file per community contribution.
	CommunitySubdir = "community"
)

// Set is the parsed contents of one definition file.
type Set struct {
	// Name is the file base name without extension, used for per-set
	// catalog output.
	Name string
	// Community distinguishes community files from the default set.
	Community bool
	// Definitions are the parsed client entries, in file order.
	Definitions []Definition
}

// Parse validates raw JSON against the published schema and decodes it
// into defaulted, validated definitions. Client names must be unique
// within the document.
func Parse(data []byte) ([]Definition, error) {
	if err := validateDocument(data); err != nil {
		return nil, &DefinitionError{Reason: "schema validation failed", Err: err}
	}

	var wires []definitionWire
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil, &DefinitionError{Reason: "decode definitions", Err: err}
	}

	seen := make(map[string]struct{}, len(wires))
	definitions := make([]Definition, 0, len(wires))

	for _, wire := range wires {
		def, err := wire.normalize()
		if err != nil {
			return nil, err
		}

		if _, ok := seen[def.Name]; ok {
			return nil, &DefinitionError{Client: def.Name, Reason: "duplicate client name in the same file"}
		}

		seen[def.Name] = struct{}{}
		definitions = append(definitions, def)
	}

	return definitions, nil
}

// Load reads and parses a single definition file.
func Load(path string) (Set, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Set{}, fmt.Errorf("read definitions: %w", err)
	}

	definitions, err := Parse(contents)
	if err != nil {
		return Set{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	base := filepath.Base(path)

	return Set{
		Name:        strings.TrimSuffix(base, filepath.Ext(base)),
		Definitions: definitions,
	}, nil
}

// LoadDir reads the default definition file plus every community file
// under dir. The default set comes first; community sets follow in
// lexical filename order.
func LoadDir(dir string) ([]Set, error) {
	defaultSet, err := Load(filepath.Join(dir, DefaultFilename))
	if err != nil {
		return nil, err
	}

	sets := []Set{defaultSet}

	communityDir := filepath.Join(dir, CommunitySubdir)

	entries, err := os.ReadDir(communityDir)
	if os.IsNotExist(err) {
		return sets, nil
	} else if err != nil {
		return nil, fmt.Errorf("read community definitions: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Strings(names)

	for _, name := range names {
		set, err := Load(filepath.Join(communityDir, name))
		if err != nil {
			return nil, err
		}

		set.Community = true
		sets = append(sets, set)
	}

	return sets, nil
}
