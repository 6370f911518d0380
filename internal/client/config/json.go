package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/sanguischat/internal/flagx"
	"github.com/dmitrijs2005/sanguischat/internal/timex"
)

// JSONConfig is the on-disk shape of the config file. Empty fields leave the
// current value alone.
type JSONConfig struct {
	APIBaseURL     string          `json:"api_base_url"`
	DBPath         string          `json:"db_path"`
	LogLevel       string          `json:"log_level"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	S3Bucket       string          `json:"s3_bucket"`
	S3Region       string          `json:"s3_region"`
	S3BaseEndpoint string          `json:"s3_base_endpoint"`
	S3AccessKey    string          `json:"s3_access_key"`
	S3SecretKey    string          `json:"s3_secret_key"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	overlay(&cfg.APIBaseURL, jc.APIBaseURL)
	overlay(&cfg.DBPath, jc.DBPath)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.S3Bucket, jc.S3Bucket)
	overlay(&cfg.S3Region, jc.S3Region)
	overlay(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	overlay(&cfg.S3AccessKey, jc.S3AccessKey)
	overlay(&cfg.S3SecretKey, jc.S3SecretKey)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
