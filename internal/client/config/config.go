package config

import (
	"os"
	"time"
)

// DefaultAPIBaseURL is used when neither the environment, a JSON file nor a
// flag provides one.
const DefaultAPIBaseURL = "http://localhost:5000/api"

// APIBaseURLEnv names the environment variable that overrides DefaultAPIBaseURL.
const APIBaseURLEnv = "CHAT_API_BASE_URL"

// Config holds runtime settings for the chat CLI.
type Config struct {
	APIBaseURL     string
	DBPath         string
	LogLevel       string
	RequestTimeout time.Duration

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	if v := os.Getenv(APIBaseURLEnv); v != "" {
		c.APIBaseURL = v
	}
	c.DBPath = "chat.db"
	c.LogLevel = "info"
	c.RequestTimeout = 0
	c.S3Region = "us-east-1"
}

// ExportToS3 reports whether transcripts should be uploaded instead of
// written to local files.
func (c *Config) ExportToS3() bool {
	return c.S3Bucket != ""
}

// LoadConfig constructs a Config from defaults, then the JSON file (if any),
// then flags. Later sources take precedence.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
