package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dinehop/matchd/core/match"
)

// LoadWeights loads a standalone Weights override from a JSON or YAML file.
func LoadWeights(path string) (match.Weights, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return match.Weights{}, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var w match.Weights
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &w)
	case ".json":
		err = json.Unmarshal(b, &w)
	default:
		return match.Weights{}, fmt.Errorf("unsupported weights format: %s", ext)
	}
	if err != nil {
		return match.Weights{}, err
	}
	w.SetDefaults()
	return w, w.Validate()
}

// DecodeWeights reads from r to decode a Weights override.
func DecodeWeights(r io.Reader, format string) (match.Weights, error) {
	var w match.Weights
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&w); err != nil {
			return w, err
		}
	case "json":
		dec := json.NewDecoder(r)
		if err := dec.Decode(&w); err != nil {
			return w, err
		}
	default:
		return w, fmt.Errorf("unsupported format: %s", format)
	}
	w.SetDefaults()
	return w, w.Validate()
}
