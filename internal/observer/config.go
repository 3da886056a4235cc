package observer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the observer endpoint and sampling parameters, loaded from a
// YAML file. Missing file or fields fall back to defaults so the coordinator
// can always start.
type Config struct {
	APIURL        string  `yaml:"api_url"`
	Temperature   float64 `yaml:"temperature"`
	TopK          int     `yaml:"top_k"`
	TopP          float64 `yaml:"top_p"`
	MinP          float64 `yaml:"min_p"`
	RepeatPenalty float64 `yaml:"repeat_penalty"`
	MaxTokens     int     `yaml:"max_tokens"`
	// Timeout bounds every oracle round-trip; callers block at most this long.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the defaults used when no config file is present.
func DefaultConfig() Config {
	return Config{
		APIURL:        "http://observer-server:8000",
		Temperature:   0.65,
		TopK:          40,
		TopP:          0.9,
		MinP:          0.05,
		RepeatPenalty: 1.1,
		MaxTokens:     512,
		Timeout:       5 * time.Second,
	}
}

// configFile mirrors the on-disk layout: observer settings nested under an
// "observer" key.
type configFile struct {
	Observer Config `yaml:"observer"`
}

// LoadConfig reads a YAML config file, applying defaults for absent fields.
// A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read observer config: %w", err)
	}

	var file configFile
	if err := yaml.Unmarshal(payload, &file); err != nil {
		return cfg, fmt.Errorf("parse observer config: %w", err)
	}

	loaded := file.Observer
	if loaded.APIURL != "" {
		cfg.APIURL = strings.TrimRight(loaded.APIURL, "/")
	}
	if loaded.Temperature != 0 {
		cfg.Temperature = loaded.Temperature
	}
	if loaded.TopK != 0 {
		cfg.TopK = loaded.TopK
	}
	if loaded.TopP != 0 {
		cfg.TopP = loaded.TopP
	}
	if loaded.MinP != 0 {
		cfg.MinP = loaded.MinP
	}
	if loaded.RepeatPenalty != 0 {
		cfg.RepeatPenalty = loaded.RepeatPenalty
	}
	if loaded.MaxTokens != 0 {
		cfg.MaxTokens = loaded.MaxTokens
	}
	if loaded.Timeout != 0 {
		cfg.Timeout = loaded.Timeout
	}
	return cfg, nil
}

// Prompt is one named prompt template with its chat role.
type Prompt struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

// Prompt template names the client relies on.
const (
	promptSystem         = "system"
	promptDecompose      = "decompose"
	promptCheckAlignment = "check_alignment"
)

// LoadPrompts reads every *.yaml file in dir into a name -> prompt map, keyed
// by filename without extension. A missing directory yields an empty map;
// the client degrades per template when one is absent.
func LoadPrompts(dir string) (map[string]Prompt, error) {
	prompts := make(map[string]Prompt)
	if dir == "" {
		return prompts, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return prompts, nil
		}
		return nil, fmt.Errorf("read prompts directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		payload, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read prompt %s: %w", entry.Name(), err)
		}
		var p Prompt
		if err := yaml.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("parse prompt %s: %w", entry.Name(), err)
		}
		prompts[strings.TrimSuffix(entry.Name(), ".yaml")] = p
	}
	return prompts, nil
}
