// Package content loads the static data tables (chat script, crop catalog,
// dashboard tables, seed tasks) from the embedded content.yml.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Tarynjenifer/smartgrow-ai/internal/chat"
	"github.com/Tarynjenifer/smartgrow-ai/internal/dashboard"
	"github.com/Tarynjenifer/smartgrow-ai/internal/suggest"
	"github.com/Tarynjenifer/smartgrow-ai/internal/task"
)

//go:embed content.yml
var embedded []byte

type Content struct {
	Chat        chat.Script          `yaml:"chat"`
	Suggestions []suggest.Suggestion `yaml:"suggestions"`
	Dashboard   dashboard.Tables     `yaml:"dashboard"`
	Home        dashboard.Home       `yaml:"home"`
	SeedTasks   []task.Task          `yaml:"seed_tasks"`
}

// Load parses the embedded content.
func Load() (*Content, error) {
	return Parse(embedded)
}

// LoadFile parses a content override from disk.
func LoadFile(path string) (*Content, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func Parse(b []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Content) Validate() error {
	var errs []error

	if len(c.Chat.Rules) == 0 {
		errs = append(errs, errors.New("chat: at least one rule is required"))
	}
	if c.Chat.Fallback == "" {
		errs = append(errs, errors.New("chat: fallback is required"))
	}
	for i, r := range c.Chat.Rules {
		if len(r.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("chat: rule %d (%s) has no keywords", i, r.Name))
		}
	}
	if len(c.Suggestions) == 0 {
		errs = append(errs, errors.New("suggestions: catalog is empty"))
	}

	seen := map[string]bool{}
	for _, t := range c.SeedTasks {
		if t.ID == "" {
			errs = append(errs, fmt.Errorf("seed_tasks: task %q has no id", t.Title))
			continue
		}
		if seen[t.ID] {
			errs = append(errs, fmt.Errorf("seed_tasks: duplicate id %q", t.ID))
		}
		seen[t.ID] = true
		if err := t.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("seed_tasks: %q: %w", t.ID, err))
		}
	}

	return errors.Join(errs...)
}

// Seed returns a copy of the seed tasks.
func (c *Content) Seed() []task.Task {
	return append([]task.Task(nil), c.SeedTasks...)
}
