// Package configloader provides configuration loading and resolution:
// XDG-compliant discovery, hierarchical merging, and environment
// variable support.
package configloader

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/goerbfmt/pkg/config"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// CLIOverlay contains configuration from CLI flags.
	// These take highest precedence.
	CLIOverlay *config.Overlay
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIOverlay)
//  2. Environment variables (GOERBFMT_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.goerbfmt.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/goerbfmt/config.yaml)
//  6. System config (/etc/goerbfmt/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{Paths: &ConfigPaths{}}

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath
	result.Paths = paths

	// Merge in order, lowest to highest precedence.
	var overlays []*config.Overlay

	load := func(path string) error {
		overlay, err := loadOverlayFile(path)
		if err != nil {
			return err
		}
		overlays = append(overlays, overlay)
		result.LoadedFrom = append(result.LoadedFrom, path)
		return nil
	}

	if !opts.IgnoreSystemConfig && paths.System != "" {
		if err := load(paths.System); err != nil {
			return nil, fmt.Errorf("load system config: %w", err)
		}
	}
	if !opts.IgnoreUserConfig && paths.User != "" {
		if err := load(paths.User); err != nil {
			return nil, fmt.Errorf("load user config: %w", err)
		}
	}
	if !opts.IgnoreProjectConfig && paths.Project != "" {
		if err := load(paths.Project); err != nil {
			return nil, fmt.Errorf("load project config: %w", err)
		}
	}
	if opts.ExplicitPath != "" {
		if err := load(opts.ExplicitPath); err != nil {
			return nil, fmt.Errorf("load explicit config: %w", err)
		}
	}

	if !opts.IgnoreEnv {
		envOverlay, err := OverlayFromEnv()
		if err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
		overlays = append(overlays, envOverlay)
	}

	if opts.CLIOverlay != nil {
		overlays = append(overlays, opts.CLIOverlay)
	}

	cfg := config.Apply(config.NewConfig(), config.MergeOverlays(overlays...))

	result.Warnings = append(result.Warnings, Validate(cfg)...)
	result.Config = cfg
	return result, nil
}

// loadOverlayFile loads a partial configuration from a YAML file.
func loadOverlayFile(path string) (*config.Overlay, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	overlay := &config.Overlay{}
	if err := yaml.Unmarshal(content, overlay); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return overlay, nil
}
