package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "smartgrow.yml"

const (
	MissingIDsError  = "error"
	MissingIDsIgnore = "ignore"
)

type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server"`
	Log     LogConfig     `yaml:"log" json:"log"`
	Planner PlannerConfig `yaml:"planner" json:"planner"`
	Chat    ChatConfig    `yaml:"chat" json:"chat"`
	Suggest SuggestConfig `yaml:"suggest" json:"suggest"`
	// Content optionally replaces the embedded content tables.
	Content string `yaml:"content" json:"content,omitempty"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
	// DevStatic serves static/ from disk instead of the embedded copy.
	DevStatic bool       `yaml:"dev_static" json:"dev_static"`
	StaticDir string     `yaml:"static_dir" json:"static_dir"`
	CORS      CORSConfig `yaml:"cors" json:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins,omitempty" json:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // json | console
}

type PlannerConfig struct {
	UpcomingLimit int    `yaml:"upcoming_limit" json:"upcoming_limit"`
	MissingIDs    string `yaml:"missing_ids" json:"missing_ids"`
}

type ChatConfig struct {
	ReplyDelay *time.Duration `yaml:"reply_delay" json:"reply_delay"`
}

type SuggestConfig struct {
	Delay *time.Duration `yaml:"delay" json:"delay"`
}

func durationPtr(d time.Duration) *time.Duration { return &d }

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

func (s *ServerConfig) ApplyDefaults() {
	if s.Addr == "" {
		s.Addr = ":8080"
	}
	if s.StaticDir == "" {
		s.StaticDir = "static"
	}
}

func (l *LogConfig) ApplyDefaults() {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "json"
	}
}

func (p *PlannerConfig) ApplyDefaults() {
	if p.UpcomingLimit == 0 {
		p.UpcomingLimit = 3
	}
	if p.MissingIDs == "" {
		p.MissingIDs = MissingIDsError
	}
}

// Delays are pointers so that an explicit 0 survives defaulting.
func (c *Config) ApplyDefaults() {
	c.Server.ApplyDefaults()
	c.Log.ApplyDefaults()
	c.Planner.ApplyDefaults()
	if c.Chat.ReplyDelay == nil {
		c.Chat.ReplyDelay = durationPtr(1500 * time.Millisecond)
	}
	if c.Suggest.Delay == nil {
		c.Suggest.Delay = durationPtr(2 * time.Second)
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Planner.UpcomingLimit <= 0 {
		errs = append(errs, fmt.Errorf("planner.upcoming_limit must be positive, got %d", c.Planner.UpcomingLimit))
	}
	switch c.Planner.MissingIDs {
	case MissingIDsError, MissingIDsIgnore:
	default:
		errs = append(errs, fmt.Errorf("planner.missing_ids: unknown value %q", c.Planner.MissingIDs))
	}
	if c.Chat.ReplyDelay != nil && *c.Chat.ReplyDelay < 0 {
		errs = append(errs, fmt.Errorf("chat.reply_delay must not be negative"))
	}
	if c.Suggest.Delay != nil && *c.Suggest.Delay < 0 {
		errs = append(errs, fmt.Errorf("suggest.delay must not be negative"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown value %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// IgnoreMissingIDs reports whether updates to unknown task ids succeed
// silently.
func (c *Config) IgnoreMissingIDs() bool {
	return c.Planner.MissingIDs == MissingIDsIgnore
}

func (c *Config) ReplyDelay() time.Duration {
	if c.Chat.ReplyDelay == nil {
		return 1500 * time.Millisecond
	}
	return *c.Chat.ReplyDelay
}

func (c *Config) SuggestDelay() time.Duration {
	if c.Suggest.Delay == nil {
		return 2 * time.Second
	}
	return *c.Suggest.Delay
}

// Parse decodes YAML, applies defaults and validates.
func Parse(b []byte) (*Config, error) {
	var r Config
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Load reads path, then applies SMARTGROW_* environment overrides. A
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		b = nil
	case err != nil:
		return nil, err
	}

	var r Config
	if len(b) > 0 {
		if err := yaml.Unmarshal(b, &r); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := r.ApplyEnv(); err != nil {
		return nil, err
	}
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &r, nil
}

func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
