package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/ng-vanquang/priorart-p-dev/internal/config"
)

func TestServerConfigDefaults(t *testing.T) {
	cfg := config.ServerConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr = %q, want 0.0.0.0:8080", cfg.Addr())
	}
	if cfg.ReadTimeoutDuration() != time.Minute {
		t.Errorf("read timeout = %v, want 1m", cfg.ReadTimeoutDuration())
	}
}

func TestServerConfigEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvServerHost, "127.0.0.1")
	t.Setenv(config.EnvServerPort, "9000")

	cfg := config.ServerConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Addr() != "127.0.0.1:9000" {
		t.Errorf("addr = %q, want 127.0.0.1:9000", cfg.Addr())
	}
}

func TestServerConfigValidation(t *testing.T) {
	cfg := config.ServerConfig{Port: 99999}
	err := cfg.Finalize()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "invalid port") {
		t.Errorf("error %q does not mention invalid port", err)
	}
}

func TestPipelineConfigDefaults(t *testing.T) {
	cfg := config.PipelineConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.StageTimeoutDuration() != 2*time.Minute {
		t.Errorf("stage timeout = %v, want 2m", cfg.StageTimeoutDuration())
	}
	if cfg.SearchLimit != 5 {
		t.Errorf("search limit = %d, want 5", cfg.SearchLimit)
	}
	if cfg.ScoreWorkers != 4 {
		t.Errorf("score workers = %d, want 4", cfg.ScoreWorkers)
	}
	if cfg.UseMocks {
		t.Error("mocks enabled by default")
	}
	if !cfg.CheckpointingEnabled() {
		t.Error("checkpointing disabled by default")
	}
}

func TestPipelineConfigEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvPipelineStageTimeout, "45s")
	t.Setenv(config.EnvPipelineUseMocks, "true")

	cfg := config.PipelineConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.StageTimeoutDuration() != 45*time.Second {
		t.Errorf("stage timeout = %v, want 45s", cfg.StageTimeoutDuration())
	}
	if !cfg.UseMocks {
		t.Error("mocks not enabled from environment")
	}
}

func TestPipelineConfigCheckpointingToggle(t *testing.T) {
	t.Setenv(config.EnvPipelineDisableCheckpointing, "true")

	cfg := config.PipelineConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.CheckpointingEnabled() {
		t.Error("checkpointing still enabled after environment disable")
	}
}

func TestPipelineConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.PipelineConfig
		wantErr string
	}{
		{
			name:    "bad timeout",
			cfg:     config.PipelineConfig{StageTimeout: "soon"},
			wantErr: "invalid stage_timeout",
		},
		{
			name:    "negative search limit",
			cfg:     config.PipelineConfig{SearchLimit: -1},
			wantErr: "search_limit must be positive",
		},
		{
			name:    "negative workers",
			cfg:     config.PipelineConfig{ScoreWorkers: -2},
			wantErr: "score_workers must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPipelineConfigMerge(t *testing.T) {
	base := config.PipelineConfig{StageTimeout: "2m", SearchLimit: 5, ScoreWorkers: 4}
	overlay := config.PipelineConfig{SearchLimit: 10, UseMocks: true, DisableCheckpointing: true}

	base.Merge(&overlay)

	if base.StageTimeout != "2m" {
		t.Errorf("stage timeout = %q, want 2m preserved", base.StageTimeout)
	}
	if base.SearchLimit != 10 {
		t.Errorf("search limit = %d, want 10", base.SearchLimit)
	}
	if !base.UseMocks {
		t.Error("mocks flag not merged")
	}
	if base.CheckpointingEnabled() {
		t.Error("checkpointing disable not merged")
	}
}
