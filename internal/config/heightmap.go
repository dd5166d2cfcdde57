package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical heightmap defaults file.
const DefaultConfigPath = "config/heightmap.defaults.json"

// HeightmapConfig holds the settings of a mesh-to-heightmap conversion.
// Every field is optional; the Get* methods supply defaults for nil fields,
// so partial JSON files are safe.
type HeightmapConfig struct {
	// Grid
	Size                 *int `json:"size,omitempty"`
	LookAroundMatrixSize *int `json:"look_around_matrix_size,omitempty"`

	// Execution
	Workers     *int    `json:"workers,omitempty"`
	LoadTimeout *string `json:"load_timeout,omitempty"` // duration string like "30s"

	// Outputs
	MeshID     *string `json:"mesh_id,omitempty"`
	OutputPNG  *string `json:"output_png,omitempty"`
	OutputHTML *string `json:"output_html,omitempty"`
	DBPath     *string `json:"db_path,omitempty"`
}

// Helper functions to create pointers
func ptrInt(v int) *int          { return &v }
func ptrString(v string) *string { return &v }

// EmptyHeightmapConfig returns a HeightmapConfig with all fields set to nil.
func EmptyHeightmapConfig() *HeightmapConfig {
	return &HeightmapConfig{}
}

// LoadHeightmapConfig loads a HeightmapConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadHeightmapConfig(path string) (*HeightmapConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyHeightmapConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching the current directory and its parents. Panics if the file cannot
// be loaded, intended for test setup.
func MustLoadDefaultConfig() *HeightmapConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadHeightmapConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *HeightmapConfig) Validate() error {
	if c.Size != nil && *c.Size <= 0 {
		return fmt.Errorf("size must be positive, got %d", *c.Size)
	}

	// The gap-filling window is symmetric around the cell, so it must split evenly.
	if c.LookAroundMatrixSize != nil {
		if n := *c.LookAroundMatrixSize; n <= 0 || n%2 != 0 {
			return fmt.Errorf("look_around_matrix_size must be a positive even number, got %d", n)
		}
	}

	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}

	if c.LoadTimeout != nil && *c.LoadTimeout != "" {
		d, err := time.ParseDuration(*c.LoadTimeout)
		if err != nil {
			return fmt.Errorf("invalid load_timeout '%s': %w", *c.LoadTimeout, err)
		}
		if d < 0 {
			return fmt.Errorf("load_timeout must be non-negative, got %v", d)
		}
	}

	return nil
}

// GetSize returns the grid edge length or the default.
func (c *HeightmapConfig) GetSize() int {
	if c.Size == nil {
		return 256
	}
	return *c.Size
}

// GetLookAroundMatrixSize returns the gap-filling window width or the default.
func (c *HeightmapConfig) GetLookAroundMatrixSize() int {
	if c.LookAroundMatrixSize == nil {
		return 4
	}
	return *c.LookAroundMatrixSize
}

// GetWorkers returns the worker count or the default (0, sequential).
func (c *HeightmapConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// GetLoadTimeout parses and returns LoadTimeout. Zero means no timeout.
func (c *HeightmapConfig) GetLoadTimeout() time.Duration {
	if c.LoadTimeout == nil || *c.LoadTimeout == "" {
		return 2 * time.Minute // default
	}
	d, err := time.ParseDuration(*c.LoadTimeout)
	if err != nil {
		return 2 * time.Minute // default on parse error
	}
	return d
}

// GetMeshID returns the identifier stored with snapshots or the default.
func (c *HeightmapConfig) GetMeshID() string {
	if c.MeshID == nil || *c.MeshID == "" {
		return "terrain"
	}
	return *c.MeshID
}

// GetOutputPNG returns the PNG output path; empty disables PNG output.
func (c *HeightmapConfig) GetOutputPNG() string {
	if c.OutputPNG == nil {
		return ""
	}
	return *c.OutputPNG
}

// GetOutputHTML returns the HTML chart output path; empty disables it.
func (c *HeightmapConfig) GetOutputHTML() string {
	if c.OutputHTML == nil {
		return ""
	}
	return *c.OutputHTML
}

// GetDBPath returns the snapshot database path; empty disables persistence.
func (c *HeightmapConfig) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}
