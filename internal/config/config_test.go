package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:9999", c.AuthBaseURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 50, c.WeightHistoryCap)
	assert.Equal(t, "progress-photos", c.S3Bucket)
	assert.Equal(t, "http://127.0.0.1:9000/", c.S3BaseEndpoint)
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-d", "db", "-a", "http://auth", "-k", "key", "-s", "token",
			"-f", "/tmp/cache.db", "-r", "5", "-w", "25",
			"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
		}, expectPanic: false,
			expected: &Config{
				DatabaseDSN:      "db",
				AuthBaseURL:      "http://auth",
				AuthAPIKey:       "key",
				AuthServiceToken: "token",
				CachePath:        "/tmp/cache.db",
				RequestTimeout:   5 * time.Second,
				WeightHistoryCap: 25,
				S3AccessKey:      "user",
				S3SecretKey:      "password",
				S3Bucket:         "bucket",
				S3Region:         "us-west-1",
				S3BaseEndpoint:   "http://endpoint",
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func TestParseJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"database_dsn": "db",
		"auth_base_url": "http://auth",
		"auth_api_key": "key",
		"auth_service_token": "token",
		"cache_path": "/tmp/cache.db",
		"request_timeout": "7s",
		"weight_history_cap": 30,
		"s3_access_key": "user",
		"s3_secret_key": "password",
		"s3_bucket": "bucket",
		"s3_region": "us-west-1",
		"s3_base_endpoint": "http://endpoint"
	}`), 0o600))

	os.Args = []string{"cmd", "-c", path}

	config := &Config{}
	require.NotPanics(t, func() { parseJson(config) })

	assert.Equal(t, "db", config.DatabaseDSN)
	assert.Equal(t, "http://auth", config.AuthBaseURL)
	assert.Equal(t, 7*time.Second, config.RequestTimeout)
	assert.Equal(t, 30, config.WeightHistoryCap)
	assert.Equal(t, "bucket", config.S3Bucket)
}

func TestParseJsonNoFlagIsNoop(t *testing.T) {
	os.Args = []string{"cmd"}

	config := &Config{}
	config.LoadDefaults()
	before := *config

	require.NotPanics(t, func() { parseJson(config) })
	assert.Empty(t, cmp.Diff(&before, config))
}
