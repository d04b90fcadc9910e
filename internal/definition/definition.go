package definition

import (
	"fmt"
	"sort"
)

// Platform identifies a target operating environment for a client build.
type Platform string

// Recognized platforms. The set is closed: definition files may only
// declare these keys, and the resolver emits entries for no others.
const (
	PlatformWindows Platform = "windows"
	PlatformLinux   Platform = "linux"
	PlatformMacOS   Platform = "macos"
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// KnownPlatform reports whether p is one of the recognized platforms.
func KnownPlatform(p Platform) bool {
	switch p {
	case PlatformWindows, PlatformLinux, PlatformMacOS, PlatformAndroid, PlatformIOS:
		return true
	default:
		return false
	}
}

// ArchiveType selects the extraction strategy for a release asset.
type ArchiveType string

// Supported archive types. Only zip containers are opened; the other
// types treat the asset itself as the artifact.
const (
	ArchiveZip      ArchiveType = "zip"
	ArchiveExe      ArchiveType = "exe"
	ArchiveAppImage ArchiveType = "appimage"
	ArchiveOther    ArchiveType = "other"
)

// KnownArchiveType reports whether t is one of the supported archive types.
func KnownArchiveType(t ArchiveType) bool {
	switch t {
	case ArchiveZip, ArchiveExe, ArchiveAppImage, ArchiveOther:
		return true
	default:
		return false
	}
}

// RequiresExtraction reports whether assets of this type must be opened
// to reach the target file.
func (t ArchiveType) RequiresExtraction() bool {
	return t == ArchiveZip
}

// FileSpec is the per-platform extraction rule of a client definition.
type FileSpec struct {
	// AssetName is the exact filename expected among a release's assets.
	AssetName string `json:"asset_name"`
	// InternalName is the path inside the archive to the binary of
	// interest. Ignored for types that do not require extraction.
	InternalName string `json:"internal_name,omitempty"`
	// Type selects the extraction strategy. Defaults to zip.
	Type ArchiveType `json:"type,omitempty"`
}

// Definition is the parsed, validated, defaulted representation of one
// client entry. Immutable after parsing.
type Definition struct {
	// Name is the display identity, unique within its source file.
	Name string `json:"name"`
	// Description is free-form and optional.
	Description string `json:"description,omitempty"`
	// Owner and Repo identify the release source repository.
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	// Files maps platforms to their extraction rules.
	Files map[Platform]FileSpec `json:"files"`
	// Count is the number of most-recent releases to resolve.
	Count int `json:"count"`
	// SupportAndroid and SupportIOS gate the synthetic mobile entries
	// emitted even when Files has no android/ios rule.
	SupportAndroid bool `json:"support_android"`
	SupportIOS     bool `json:"support_ios"`
}

// Repository renders the owner/repo pair for logs.
func (d Definition) Repository() string {
	return d.Owner + "/" + d.Repo
}

// SortedPlatforms returns the declared platforms in stable order.
func (d Definition) SortedPlatforms() []Platform {
	platforms := make([]Platform, 0, len(d.Files))
	for platform := range d.Files {
		platforms = append(platforms, platform)
	}

	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })

	return platforms
}

// DefinitionError reports a malformed or incomplete client definition.
// It is fatal for that definition only.
type DefinitionError struct {
	// Client is the definition name when known, otherwise empty.
	Client string
	// Reason describes what is wrong with the definition.
	Reason string
	// Err is the underlying cause, may be nil.
	Err error
}

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	name := e.Client
	if name == "" {
		name = "<unnamed>"
	}

	if e.Err != nil {
		return fmt.Sprintf("definition %s: %s: %v", name, e.Reason, e.Err)
	}

	return fmt.Sprintf("definition %s: %s", name, e.Reason)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// definitionWire mirrors the JSON document shape. Optional fields use
// pointers so that omitted values can be told apart from zero values
// when defaults are applied.
type definitionWire struct {
	Name           string                  `json:"name"`
	Description    string                  `json:"description"`
	Owner          string                  `json:"owner"`
	Repo           string                  `json:"repo"`
	Files          map[string]fileSpecWire `json:"files"`
	Count          *int                    `json:"count"`
	SupportAndroid *bool                   `json:"support_android"`
	SupportIOS     *bool                   `json:"support_ios"`
}

type fileSpecWire struct {
	AssetName    string       `json:"asset_name"`
	InternalName string       `json:"internal_name"`
	Type         *ArchiveType `json:"type"`
}

// normalize applies defaults and validates a single wire entry.
func (w definitionWire) normalize() (Definition, error) {
	def := Definition{
		Name:           w.Name,
		Description:    w.Description,
		Owner:          w.Owner,
		Repo:           w.Repo,
		Count:          1,
		SupportAndroid: true,
		SupportIOS:     true,
	}

	if w.Name == "" {
		return def, &DefinitionError{Reason: "name is required"}
	}

	if w.Owner == "" || w.Repo == "" {
		return def, &DefinitionError{Client: w.Name, Reason: "owner and repo are required"}
	}

	if len(w.Files) == 0 {
		return def, &DefinitionError{Client: w.Name, Reason: "files must declare at least one platform"}
	}

	if w.Count != nil {
		if *w.Count < 1 {
			return def, &DefinitionError{Client: w.Name, Reason: fmt.Sprintf("count must be at least 1, got %d", *w.Count)}
		}

		def.Count = *w.Count
	}

	if w.SupportAndroid != nil {
		def.SupportAndroid = *w.SupportAndroid
	}

	if w.SupportIOS != nil {
		def.SupportIOS = *w.SupportIOS
	}

	def.Files = make(map[Platform]FileSpec, len(w.Files))

	for key, file := range w.Files {
		platform := Platform(key)
		if !KnownPlatform(platform) {
			return def, &DefinitionError{Client: w.Name, Reason: fmt.Sprintf("unknown platform %q", key)}
		}

		spec := FileSpec{
			AssetName:    file.AssetName,
			InternalName: file.InternalName,
			Type:         ArchiveZip,
		}

		if file.Type != nil {
			spec.Type = *file.Type
		}

		if !KnownArchiveType(spec.Type) {
			return def, &DefinitionError{Client: w.Name, Reason: fmt.Sprintf("unknown archive type %q for platform %q", spec.Type, key)}
		}

		if spec.AssetName == "" {
			return def, &DefinitionError{Client: w.Name, Reason: fmt.Sprintf("asset_name is required for platform %q", key)}
		}

		if spec.Type.RequiresExtraction() && spec.InternalName == "" {
			return def, &DefinitionError{Client: w.Name, Reason: fmt.Sprintf("internal_name is required for zip assets (platform %q)", key)}
		}

		def.Files[platform] = spec
	}

	return def, nil
}
