package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvPipelineStageTimeout         = "PRIORART_PIPELINE_STAGE_TIMEOUT"
	EnvPipelineSearchLimit          = "PRIORART_PIPELINE_SEARCH_LIMIT"
	EnvPipelineScoreWorkers         = "PRIORART_PIPELINE_SCORE_WORKERS"
	EnvPipelineUseMocks             = "PRIORART_PIPELINE_USE_MOCKS"
	EnvPipelineDisableCheckpointing = "PRIORART_PIPELINE_DISABLE_CHECKPOINTING"
)

// PipelineConfig tunes pipeline run execution.
type PipelineConfig struct {
	StageTimeout string `toml:"stage_timeout"`
	SearchLimit  int    `toml:"search_limit"`
	ScoreWorkers int    `toml:"score_workers"`

	// UseMocks substitutes canned adapters for every external
	// collaborator. Intended for local development without credentials.
	UseMocks bool `toml:"use_mocks"`

	// DisableCheckpointing turns off resuming suspended runs from their
	// persisted state. Suspended runs then live only in-process.
	DisableCheckpointing bool `toml:"disable_checkpointing"`
}

// CheckpointingEnabled reports whether suspended runs may be restored
// from persisted checkpoints.
func (c *PipelineConfig) CheckpointingEnabled() bool {
	return !c.DisableCheckpointing
}

// StageTimeoutDuration returns StageTimeout as a time.Duration.
func (c *PipelineConfig) StageTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.StageTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.StageTimeout != "" {
		c.StageTimeout = overlay.StageTimeout
	}
	if overlay.SearchLimit != 0 {
		c.SearchLimit = overlay.SearchLimit
	}
	if overlay.ScoreWorkers != 0 {
		c.ScoreWorkers = overlay.ScoreWorkers
	}
	if overlay.UseMocks {
		c.UseMocks = true
	}
	if overlay.DisableCheckpointing {
		c.DisableCheckpointing = true
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.StageTimeout == "" {
		c.StageTimeout = "2m"
	}
	if c.SearchLimit == 0 {
		c.SearchLimit = 5
	}
	if c.ScoreWorkers == 0 {
		c.ScoreWorkers = 4
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineStageTimeout); v != "" {
		c.StageTimeout = v
	}
	if v := os.Getenv(EnvPipelineSearchLimit); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			c.SearchLimit = limit
		}
	}
	if v := os.Getenv(EnvPipelineScoreWorkers); v != "" {
		if workers, err := strconv.Atoi(v); err == nil {
			c.ScoreWorkers = workers
		}
	}
	if v := os.Getenv(EnvPipelineUseMocks); v != "" {
		if mocks, err := strconv.ParseBool(v); err == nil {
			c.UseMocks = mocks
		}
	}
	if v := os.Getenv(EnvPipelineDisableCheckpointing); v != "" {
		if disabled, err := strconv.ParseBool(v); err == nil {
			c.DisableCheckpointing = disabled
		}
	}
}

func (c *PipelineConfig) validate() error {
	if _, err := time.ParseDuration(c.StageTimeout); err != nil {
		return fmt.Errorf("invalid stage_timeout: %w", err)
	}
	if c.SearchLimit < 1 {
		return fmt.Errorf("search_limit must be positive")
	}
	if c.ScoreWorkers < 1 {
		return fmt.Errorf("score_workers must be positive")
	}
	return nil
}
