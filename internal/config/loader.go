package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// LoadFromPath reads a run config file (YAML or JSON). A relative graph
// path is resolved against the config file's directory.
func LoadFromPath(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run config: %w", err)
	}
	c, err := Load(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if c.Graph != "" && !filepath.IsAbs(c.Graph) {
		c.Graph = filepath.Join(filepath.Dir(path), c.Graph)
	}
	return c, nil
}

// Load parses a run config from bytes. ext is the file extension used as a
// format hint; empty means detect from content.
func Load(data []byte, ext string) (*RunConfig, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return loadYAML(data)
	case ".json":
		return loadJSON(data)
	}
	if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		return loadJSON(data)
	}
	return loadYAML(data)
}

func loadYAML(data []byte) (*RunConfig, error) {
	var c RunConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse run config yaml: %w", err)
	}
	return &c, nil
}

func loadJSON(data []byte) (*RunConfig, error) {
	var c RunConfig
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parse run config json: %w", err)
	}
	return &c, nil
}
