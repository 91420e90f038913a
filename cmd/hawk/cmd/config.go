package cmd

import (
	"os"

	"github.com/goccy/go-yaml"
)

// fileConfig is the shape of an optional .hawkrc.yaml: global variable
// presets and default field/record separators a host deployment wants
// every invocation to start from, without repeating -v/-F on every call
// (SPEC_FULL.md's "Configuration" ambient-stack section). The include list
// is read from the file but not used by any command.
type fileConfig struct {
	FS      string            `yaml:"fs"`
	OFS     string            `yaml:"ofs"`
	ORS     string            `yaml:"ors"`
	Vars    map[string]string `yaml:"vars"`
	Include []string          `yaml:"include"`
}

// loadConfig reads path (if it exists) into a fileConfig; a missing file is
// not an error — .hawkrc.yaml is entirely optional.
func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &fileConfig{}, nil
		}
		return nil, err
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// defaultConfigPath is ".hawkrc.yaml" in the current directory, mirroring
// the teacher's search-path-from-cwd convention in cmd/dwscript/cmd/run.go.
const defaultConfigPath = ".hawkrc.yaml"
