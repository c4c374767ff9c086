// Package config loads the optional cubent.yaml project file: a
// convenience layer over the CLI flags, so a
// project doesn't need to repeat --source/--icon/--description on every
// invocation. CLI flags always win when both a config value and a
// flag are present; Merge implements that precedence.
package config

import (
	"os"

	"github.com/cubent-lang/cubent/internal/cerr"
	"github.com/cubent-lang/cubent/internal/token"
	"gopkg.in/yaml.v3"
)

// Project is the decoded shape of cubent.yaml.
type Project struct {
	Sources     []string `yaml:"sources"`
	Output      string   `yaml:"output"`
	Icon        string   `yaml:"icon"`
	Description string   `yaml:"description"`
	Version     string   `yaml:"version"`
}

// Load reads and decodes path. A missing file is not an error — it
// just means the caller falls back entirely to CLI flags — but a
// present, malformed file is a ConfigError.
func Load(path string) (Project, *cerr.Error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Project{}, nil
	}
	if err != nil {
		return Project{}, cerr.NewIO(token.Position{}, err, "failed to read %q", path)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Project{}, cerr.NewConfig("failed to parse %q: %s", path, err)
	}
	return p, nil
}

// Flags holds the CLI-supplied overrides; a zero value (empty
// string/nil slice) means "not supplied on the command line".
type Flags struct {
	Sources     []string
	Output      string
	Icon        string
	Description string
	Version     string
}

// Merge combines a loaded Project with CLI Flags, preferring the flag
// value whenever one was supplied.
func Merge(p Project, f Flags) Project {
	out := p
	if len(f.Sources) > 0 {
		out.Sources = f.Sources
	}
	if f.Output != "" {
		out.Output = f.Output
	}
	if f.Icon != "" {
		out.Icon = f.Icon
	}
	if f.Description != "" {
		out.Description = f.Description
	}
	if f.Version != "" {
		out.Version = f.Version
	}
	return out
}
