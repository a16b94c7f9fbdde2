package cli

import (
	"fmt"
	"os"
)

// Output formats accepted by --output
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Output    string
}

// DefaultConfig reads PLAYERCTL_SERVER and PLAYERCTL_OUTPUT, falling back
// to a local server and text output
func DefaultConfig() *Config {
	return &Config{
		ServerURL: envOr("PLAYERCTL_SERVER", "http://localhost:3000"),
		Output:    envOr("PLAYERCTL_OUTPUT", OutputText),
	}
}

// Validate rejects an unknown output format
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", c.Output, OutputText, OutputJSON)
	}
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
