package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
)

// Validate checks if the configuration is valid. All problems are reported
// together.
func (c *Config) Validate() error {
	var errs []error

	if err := validateBaseURL(c.APIBaseURL); err != nil {
		errs = append(errs, err)
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout))
	}
	if !slices.Contains([]string{FormatAuto, FormatTable, FormatJSON, FormatCSV, FormatMarkdown, FormatYAML}, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output must be one of auto, table, json, csv, md, yaml, got %q", c.OutputFormat))
	}
	if c.UI.Port < 1 || c.UI.Port > 65535 {
		errs = append(errs, fmt.Errorf("ui.port must be between 1 and 65535, got %d", c.UI.Port))
	}
	if c.UI.AlertTTL <= 0 {
		errs = append(errs, fmt.Errorf("ui.alert_ttl must be positive, got %s", c.UI.AlertTTL))
	}
	if c.UI.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("ui.page_size must be positive, got %d", c.UI.PageSize))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return errors.New("api_base_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("api_base_url %q is not a valid URL: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_base_url %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("api_base_url %q has no host", raw)
	}
	return nil
}
