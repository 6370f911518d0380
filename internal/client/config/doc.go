// Package config loads runtime configuration for the chat CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults), including the
//     CHAT_API_BASE_URL environment variable for the API address.
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the chat API (e.g. http://localhost:5000/api)
//	-d string   path of the local session database
//	-l string   log level: debug, info, warn, error
//	-t int      per-request timeout in seconds (0 waits indefinitely)
//
// # JSON schema
//
// Durations accept "30s" style strings or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5000/api",
//	  "db_path": "chat.db",
//	  "log_level": "info",
//	  "request_timeout": "2m",
//	  "s3_bucket": "transcripts",
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://127.0.0.1:9000",
//	  "s3_access_key": "admin",
//	  "s3_secret_key": "secretpassword"
//	}
//
// Transcript export goes to S3 only when s3_bucket is set.
package config
