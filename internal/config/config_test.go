package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, ProfileUTCFraction, cfg.TimestampProfile)
	assert.Equal(t, 30, cfg.PageSize)
	assert.Equal(t, 70, cfg.ReceiptJPEGQuality)
	assert.Equal(t, "America/Toronto", cfg.Timezone)
}

func TestLoadFile_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "HOMEAPP_API_TOKEN=from-file\nHOMEAPP_PAGE_SIZE=50\nHOMEAPP_API_BASE_URL=https://api.example.test/\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("HOMEAPP_API_TOKEN", "from-env")
	// godotenv sets variables it loads; make sure they are cleared after the test.
	t.Setenv("HOMEAPP_PAGE_SIZE", "")
	t.Setenv("HOMEAPP_API_BASE_URL", "")
	os.Unsetenv("HOMEAPP_PAGE_SIZE")
	os.Unsetenv("HOMEAPP_API_BASE_URL")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.APIToken)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, "https://api.example.test", cfg.APIBaseURL)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric page size", "HOMEAPP_PAGE_SIZE", "many"},
		{"zero page size", "HOMEAPP_PAGE_SIZE", "0"},
		{"quality out of range", "HOMEAPP_RECEIPT_JPEG_QUALITY", "101"},
		{"unknown profile", "HOMEAPP_TIMESTAMP_PROFILE", "iso"},
		{"unknown timezone", "HOMEAPP_TIMEZONE", "Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}

func TestRequireToken(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.RequireToken())

	cfg.APIToken = "secret"
	assert.NoError(t, cfg.RequireToken())
}
