package config

import (
	"net/http"

	"github.com/odit-bit/chatreply/generate"
)

// Providers returns the generation providers in attempt order: primary first,
// then the fallback.
func (c *Config) Providers() []generate.Provider {
	primary := generate.Provider{
		Name:      c.Primary.Name,
		BaseURL:   c.Primary.BaseURL,
		APIKey:    c.Primary.APIKey,
		Model:     c.Primary.Model,
		Reasoning: true,
	}

	fallback := generate.Provider{
		Name:    c.Fallback.Name,
		BaseURL: c.Fallback.BaseURL,
		APIKey:  c.Fallback.APIKey,
		Model:   c.Fallback.Model,
	}
	if c.Fallback.Referer != "" {
		fallback.Header = http.Header{}
		fallback.Header.Set("HTTP-Referer", c.Fallback.Referer)
	}

	return []generate.Provider{primary, fallback}
}

// GenerateOptions returns the sampling parameters for generate.NewClient.
func (c *Config) GenerateOptions() generate.Options {
	return generate.Options{
		Temperature: c.Generate.Temperature,
		MaxTokens:   c.Generate.MaxTokens,
	}
}
