package config

import (
	"flag"
	"os"
	"time"

	"github.com/garciabuilder/profilesync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-a string   auth server base URL
//	-k string   auth project API key
//	-s string   auth service-role token
//	-f string   local cache file path
//	-r int      request timeout, seconds
//	-w int      weight history cap
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-a", "-k", "-s", "-f", "-r", "-w", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AuthBaseURL, "a", config.AuthBaseURL, "auth server base URL")
	fs.StringVar(&config.AuthAPIKey, "k", config.AuthAPIKey, "auth API key")
	fs.StringVar(&config.AuthServiceToken, "s", config.AuthServiceToken, "auth service-role token")
	fs.StringVar(&config.CachePath, "f", config.CachePath, "local cache file path")

	requestTimeout := fs.Int("r", int(config.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.IntVar(&config.WeightHistoryCap, "w", config.WeightHistoryCap, "weight history cap")

	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
