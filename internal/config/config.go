// Package config resolves the flok configuration: defaults, overridden by a
// global file in the user's home directory, overridden by a file at the
// repository root. The result is an immutable value passed explicitly into
// every component; nothing reads configuration ad hoc.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"flok.dev/flok/internal/plan"
)

// FileName is the name of both the global and the repository config file
const FileName = ".flok.json"

// Defaults
const (
	DefaultUpstream = "main"
	DefaultLocal    = "main"
	DefaultRemote   = "origin"
	DefaultAnchor   = plan.AnchorFirst
	DefaultTemplate = plan.NamePlaceholder
)

// Config is the resolved flok configuration
type Config struct {
	// Upstream is the integration target branch
	Upstream string
	// Local is the single development branch deltas are carved from
	Local string
	// Remote is the remote name; empty disables push and remote-qualified
	// upstream resolution
	Remote string
	// Anchor selects the first or last commit of a delta for branch naming
	Anchor plan.AnchorPolicy
	// BranchTemplate renders derived names; it must contain {name}
	BranchTemplate string
	// Editor overrides the editor used for the plan round trip
	Editor string
	// CreateCommand is an optional shell template run once per pushed branch
	// to open a change request; {branch} and {target} are substituted
	CreateCommand string
	// GitLabPushOptions enables merge-request push options on push
	GitLabPushOptions bool
}

// fileConfig is the on-disk overlay; absent fields leave the lower layer alone
type fileConfig struct {
	Upstream          *string `json:"upstream,omitempty"`
	Local             *string `json:"local,omitempty"`
	Remote            *string `json:"remote,omitempty"`
	Anchor            *string `json:"anchor,omitempty"`
	BranchTemplate    *string `json:"branchTemplate,omitempty"`
	Editor            *string `json:"editor,omitempty"`
	CreateCommand     *string `json:"createCommand,omitempty"`
	GitLabPushOptions *bool   `json:"gitlabPushOptions,omitempty"`
}

// Load resolves the configuration for a repository: defaults, then the
// global file, then the repository file. A missing file is not an error.
func Load(repoRoot string) (*Config, error) {
	cfg := &Config{
		Upstream:       DefaultUpstream,
		Local:          DefaultLocal,
		Remote:         DefaultRemote,
		Anchor:         DefaultAnchor,
		BranchTemplate: DefaultTemplate,
	}

	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, FileName))
	}
	if repoRoot != "" {
		paths = append(paths, filepath.Join(repoRoot, FileName))
	}

	for _, path := range paths {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile overlays one config file onto cfg. Missing files are skipped.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var overlay fileConfig
	if err := json.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if overlay.Upstream != nil {
		cfg.Upstream = *overlay.Upstream
	}
	if overlay.Local != nil {
		cfg.Local = *overlay.Local
	}
	if overlay.Remote != nil {
		cfg.Remote = *overlay.Remote
	}
	if overlay.Anchor != nil {
		cfg.Anchor = plan.AnchorPolicy(*overlay.Anchor)
	}
	if overlay.BranchTemplate != nil {
		cfg.BranchTemplate = *overlay.BranchTemplate
	}
	if overlay.Editor != nil {
		cfg.Editor = *overlay.Editor
	}
	if overlay.CreateCommand != nil {
		cfg.CreateCommand = *overlay.CreateCommand
	}
	if overlay.GitLabPushOptions != nil {
		cfg.GitLabPushOptions = *overlay.GitLabPushOptions
	}
	return nil
}

// Validate checks the resolved configuration for values the core relies on
func (c *Config) Validate() error {
	if c.Anchor != plan.AnchorFirst && c.Anchor != plan.AnchorLast {
		return fmt.Errorf("anchor must be %q or %q, got %q", plan.AnchorFirst, plan.AnchorLast, c.Anchor)
	}
	if !strings.Contains(c.BranchTemplate, plan.NamePlaceholder) {
		return fmt.Errorf("branch template must contain the %s placeholder", plan.NamePlaceholder)
	}
	if c.Upstream == "" || c.Local == "" {
		return fmt.Errorf("upstream and local branch names must not be empty")
	}
	return nil
}

// UpstreamRef returns the revision the upstream tip is read from: the
// remote-tracking ref when a remote is configured, the plain branch otherwise.
func (c *Config) UpstreamRef() string {
	if c.Remote == "" {
		return c.Upstream
	}
	return c.Remote + "/" + c.Upstream
}
