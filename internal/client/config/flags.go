package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/sanguischat/internal/flagx"
)

// parseFlags overlays cfg with the flags this package owns. Anything else in
// args is ignored so other loaders can parse their own flags.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the chat API")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the local session database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout in seconds, 0 for none")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-a", "-d", "-l", "-t"})); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	if *timeout < 0 {
		return fmt.Errorf("parse flags: negative timeout %d", *timeout)
	}
	// -t only overrides when given; the JSON value may be finer than seconds.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
