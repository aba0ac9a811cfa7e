// Package catalog loads the bundled joke catalog: rotation topics, prompt
// examples and the offline fallback pool.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abdulachik/giggles/internal/joke"
)

//go:embed catalog.yaml
var defaultYAML []byte

// Topic is a rotation topic and the description used in prompts.
type Topic struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Example is a curated joke shown to the model, with why it works.
type Example struct {
	Setup     string `yaml:"setup"`
	Punchline string `yaml:"punchline"`
	Why       string `yaml:"why"`
}

// Catalog is the parsed catalog file.
type Catalog struct {
	Topics   []Topic     `yaml:"topics"`
	Examples []Example   `yaml:"examples"`
	Fallback []joke.Joke `yaml:"fallback"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("load embedded catalog: %v", err))
	}
	return c
}

// Load reads a catalog from path, or returns the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %q: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every entry is usable.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Topics))
	for i, t := range c.Topics {
		if t.Name == "" {
			return fmt.Errorf("topic %d has no name", i)
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate topic %q", t.Name)
		}
		seen[t.Name] = true
	}
	for i, e := range c.Examples {
		if e.Setup == "" {
			return fmt.Errorf("example %d has no setup", i)
		}
	}
	for i, j := range c.Fallback {
		if j.Setup == "" {
			return fmt.Errorf("fallback joke %d has no setup", i)
		}
	}
	return nil
}

// TopicNames returns topic names in catalog order.
func (c *Catalog) TopicNames() []string {
	names := make([]string, len(c.Topics))
	for i, t := range c.Topics {
		names[i] = t.Name
	}
	return names
}

// Descriptions returns the topic to description map.
func (c *Catalog) Descriptions() map[string]string {
	m := make(map[string]string, len(c.Topics))
	for _, t := range c.Topics {
		m[t.Name] = t.Description
	}
	return m
}

// Pool returns a copy of the fallback jokes.
func (c *Catalog) Pool() []joke.Joke {
	return append([]joke.Joke(nil), c.Fallback...)
}
