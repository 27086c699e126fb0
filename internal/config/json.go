package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/garciabuilder/profilesync/internal/flagx"
	"github.com/garciabuilder/profilesync/internal/timex"
)

// JsonConfig is the intermediate DTO for reading JSON configuration files.
// It uses timex.Duration for interval fields so both string values such as
// "10s" and integer nanoseconds parse. After unmarshalling, its fields are
// copied into the runtime Config struct.
type JsonConfig struct {
	DatabaseDSN      string         `json:"database_dsn"`
	AuthBaseURL      string         `json:"auth_base_url"`
	AuthAPIKey       string         `json:"auth_api_key"`
	AuthServiceToken string         `json:"auth_service_token"`
	CachePath        string         `json:"cache_path"`
	RequestTimeout   timex.Duration `json:"request_timeout"`
	WeightHistoryCap int            `json:"weight_history_cap"`
	S3AccessKey      string         `json:"s3_access_key"`
	S3SecretKey      string         `json:"s3_secret_key"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. When no flag is present no
// file is loaded; an unreadable or invalid file panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.DatabaseDSN = c.DatabaseDSN
	config.AuthBaseURL = c.AuthBaseURL
	config.AuthAPIKey = c.AuthAPIKey
	config.AuthServiceToken = c.AuthServiceToken
	config.CachePath = c.CachePath
	config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
	config.WeightHistoryCap = c.WeightHistoryCap
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
