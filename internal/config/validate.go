package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Content.validate(); err != nil {
		return fmt.Errorf("content: %w", err)
	}

	return nil
}

func (c *ContentConfig) validate() error {
	if c.DefaultPageSize <= 0 {
		return fmt.Errorf("default_page_size must be > 0 (got %d)", c.DefaultPageSize)
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("max_page_size must be >= default_page_size (got %d < %d)", c.MaxPageSize, c.DefaultPageSize)
	}
	if c.NotifyMaxAttempts < 1 {
		return fmt.Errorf("notify_max_attempts must be >= 1 (got %d)", c.NotifyMaxAttempts)
	}
	return nil
}
