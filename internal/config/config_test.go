package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, 3, c.Planner.UpcomingLimit)
	assert.False(t, c.IgnoreMissingIDs())
	assert.Equal(t, 1500*time.Millisecond, c.ReplyDelay())
	assert.Equal(t, 2*time.Second, c.SuggestDelay())
	assert.NoError(t, c.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_File(t *testing.T) {
	p := writeFile(t, "smartgrow.yml", `
server:
  addr: ":9090"
  cors:
    allowed_origins: ["http://localhost:5173"]
log:
  level: debug
  format: console
planner:
  upcoming_limit: 5
  missing_ids: ignore
chat:
  reply_delay: 0s
suggest:
  delay: 250ms
`)
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, ":9090", c.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, c.Server.CORS.AllowedOrigins)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, 5, c.Planner.UpcomingLimit)
	assert.True(t, c.IgnoreMissingIDs())
	assert.Equal(t, time.Duration(0), c.ReplyDelay(), "explicit zero is kept")
	assert.Equal(t, 250*time.Millisecond, c.SuggestDelay())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", "server: [\n"},
		{"negative limit", "planner:\n  upcoming_limit: -1\n"},
		{"unknown missing_ids", "planner:\n  missing_ids: maybe\n"},
		{"negative delay", "chat:\n  reply_delay: -1s\n"},
		{"unknown log format", "log:\n  format: xml\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "smartgrow.yml", tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	p := writeFile(t, "smartgrow.yml", "server:\n  addr: \":9090\"\n")
	t.Setenv("SMARTGROW_ADDR", ":7070")
	t.Setenv("SMARTGROW_MISSING_IDS", "IGNORE")
	t.Setenv("SMARTGROW_CHAT_REPLY_DELAY", "10ms")
	t.Setenv("SMARTGROW_CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("SMARTGROW_DEV_STATIC", "true")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, ":7070", c.Server.Addr)
	assert.True(t, c.IgnoreMissingIDs())
	assert.Equal(t, 10*time.Millisecond, c.ReplyDelay())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.Server.CORS.AllowedOrigins)
	assert.True(t, c.Server.DevStatic)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("SMARTGROW_UPCOMING_LIMIT", "three")
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.ErrorContains(t, err, "SMARTGROW_UPCOMING_LIMIT")
}

func TestLoadEnvFile(t *testing.T) {
	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), ".env")))

	t.Setenv("SMARTGROW_LOG_LEVEL", "warn")
	p := writeFile(t, ".env", "SMARTGROW_LOG_LEVEL=debug\nSMARTGROW_SUGGEST_DELAY=1s\n")
	t.Cleanup(func() { os.Unsetenv("SMARTGROW_SUGGEST_DELAY") })
	require.NoError(t, LoadEnvFile(p))

	c, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, "warn", c.Log.Level, "existing variables win")
	assert.Equal(t, time.Second, c.SuggestDelay())
}

func TestParseAndYAML(t *testing.T) {
	c, err := Parse([]byte("planner:\n  upcoming_limit: 4\n"))
	require.NoError(t, err)

	out, err := c.YAML()
	require.NoError(t, err)
	back, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}
