package config

import (
	"fmt"
	"os"

	"github.com/ng-vanquang/priorart-p-dev/pkg/middleware"
	"github.com/ng-vanquang/priorart-p-dev/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled: "PRIORART_CORS_ENABLED",
	Origins: "PRIORART_CORS_ORIGINS",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "PRIORART_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "PRIORART_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, and pagination settings.
type APIConfig struct {
	BasePath   string                `toml:"base_path"`
	CORS       middleware.CORSConfig `toml:"cors"`
	Pagination pagination.Config     `toml:"pagination"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("PRIORART_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
}
