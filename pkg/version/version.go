package version

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Set with -ldflags "-X github.com/mutablelogic/go-flow/pkg/version.GitTag=..."
var (
	GitSource   string
	GitTag      string
	GitBranch   string
	GitHash     string
	GoBuildTime string
)

const (
	devVersion = "dev"
	shortHash  = 12
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Metadata describes the running executable
type Metadata struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Compiler  string `json:"compiler"`
	Source    string `json:"source,omitempty"`
	Tag       string `json:"tag,omitempty"`
	Branch    string `json:"branch,omitempty"`
	Hash      string `json:"hash,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	Platform  string `json:"platform,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Version returns the git tag, then the branch, then the short VCS revision
// from the build info, and "dev" when none is known
func Version() string {
	switch {
	case GitTag != "":
		return GitTag
	case GitBranch != "":
		return GitBranch
	}
	if hash := buildSetting("vcs.revision"); hash != "" {
		return hash[:min(len(hash), shortHash)]
	}
	return devVersion
}

// Info returns the metadata for the named executable. Values set at link
// time take precedence over the embedded build info.
func Info(name string) Metadata {
	meta := Metadata{
		Name:      name,
		Version:   Version(),
		Compiler:  runtime.Version(),
		Source:    GitSource,
		Tag:       GitTag,
		Branch:    GitBranch,
		Hash:      GitHash,
		BuildTime: GoBuildTime,
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return meta
	}
	if meta.Source == "" {
		meta.Source = info.Main.Path
	}
	var goos, goarch string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			meta.Hash = firstOf(meta.Hash, s.Value)
		case "vcs.time":
			meta.BuildTime = firstOf(meta.BuildTime, s.Value)
		case "vcs.modified":
			meta.Modified = s.Value == "true"
		case "GOOS":
			goos = s.Value
		case "GOARCH":
			goarch = s.Value
		}
	}
	if goos != "" && goarch != "" {
		meta.Platform = goos + "/" + goarch
	}
	return meta
}

// JSON returns the indented metadata for the named executable
func JSON(name string) []byte {
	data, err := json.MarshalIndent(Info(name), "", "  ")
	if err != nil {
		panic(err)
	}
	return data
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func buildSetting(key string) string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == key {
				return s.Value
			}
		}
	}
	return ""
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
