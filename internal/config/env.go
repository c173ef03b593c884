package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "SMARTGROW_"

// LoadEnvFile loads KEY=VALUE pairs from path into the process
// environment without overriding variables that are already set. A
// missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides file values with SMARTGROW_* variables.
func (c *Config) ApplyEnv() error {
	if v, ok := getEnv("ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnv("DEV_STATIC"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return envErr("DEV_STATIC", err)
		}
		c.Server.DevStatic = b
	}
	if v, ok := getEnv("STATIC_DIR"); ok {
		c.Server.StaticDir = v
	}
	if v, ok := getEnv("CORS_ORIGINS"); ok {
		c.Server.CORS.AllowedOrigins = splitList(v)
	}
	if v, ok := getEnv("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := getEnv("LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := getEnv("UPCOMING_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envErr("UPCOMING_LIMIT", err)
		}
		c.Planner.UpcomingLimit = n
	}
	if v, ok := getEnv("MISSING_IDS"); ok {
		c.Planner.MissingIDs = strings.ToLower(v)
	}
	if v, ok := getEnv("CHAT_REPLY_DELAY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envErr("CHAT_REPLY_DELAY", err)
		}
		c.Chat.ReplyDelay = &d
	}
	if v, ok := getEnv("SUGGEST_DELAY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envErr("SUGGEST_DELAY", err)
		}
		c.Suggest.Delay = &d
	}
	if v, ok := getEnv("CONTENT"); ok {
		c.Content = v
	}
	return nil
}

func getEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func envErr(key string, err error) error {
	return fmt.Errorf("%s%s: %w", envPrefix, key, err)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
