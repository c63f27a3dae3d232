package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	ResetForTesting()
	dir := t.TempDir()
	content := `
locators:
  root: ./pages
  watch: true
browser:
  base_url: http://staging:9090
  headless: false
  default_timeout: 15s
retry:
  max_retries: 5
  delay: 250ms
failures:
  screenshots: true
  screenshot_dir: ./shots
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "webprobe.yaml"), []byte(content), 0o644))

	require.NoError(t, Load(dir))
	c := Get()

	assert.Equal(t, "./pages", c.Locators.Root)
	assert.True(t, c.Locators.Watch)
	assert.Equal(t, "http://staging:9090", c.Browser.BaseURL)
	assert.False(t, c.Browser.Headless)
	assert.Equal(t, 15*time.Second, c.Browser.DefaultTimeout)
	assert.Equal(t, 5, c.Retry.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, c.Retry.Delay)
	assert.Equal(t, "./shots", c.Failures.ScreenshotDir)
}

func TestLoadFailureDoesNotLatch(t *testing.T) {
	ResetForTesting()
	dir := t.TempDir()
	path := filepath.Join(dir, "webprobe.yaml")

	require.NoError(t, os.WriteFile(path, []byte("locators: [unclosed\n"), 0o644))
	err := Load(dir)
	require.Error(t, err)

	// A failed load must not consume the one-shot: fixing the file and
	// retrying succeeds.
	require.NoError(t, os.WriteFile(path, []byte("locators:\n  root: ./fixed\n"), 0o644))
	require.NoError(t, Load(dir))
	assert.Equal(t, "./fixed", Get().Locators.Root)
}

func TestDefaultConfig(t *testing.T) {
	c := defaultConfig()
	assert.Equal(t, "./locators", c.Locators.Root)
	assert.True(t, c.Browser.Headless)
	assert.Equal(t, 10*time.Second, c.Browser.DefaultTimeout)
	assert.Equal(t, 3, c.Retry.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, c.Retry.Delay)
	assert.True(t, c.Failures.Screenshots)
}
