package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/banshee-data/meshheight/internal/testutil"
)

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()

	if cfg.GetSize() != 256 {
		t.Errorf("GetSize() = %d, want 256", cfg.GetSize())
	}
	if cfg.GetLookAroundMatrixSize() != 4 {
		t.Errorf("GetLookAroundMatrixSize() = %d, want 4", cfg.GetLookAroundMatrixSize())
	}
	if cfg.GetWorkers() != 0 {
		t.Errorf("GetWorkers() = %d, want 0", cfg.GetWorkers())
	}
	if cfg.GetLoadTimeout() != 2*time.Minute {
		t.Errorf("GetLoadTimeout() = %v, want 2m", cfg.GetLoadTimeout())
	}
	if cfg.GetMeshID() != "terrain" {
		t.Errorf("GetMeshID() = %q, want terrain", cfg.GetMeshID())
	}
}

func TestEmptyConfigDefaults(t *testing.T) {
	cfg := EmptyHeightmapConfig()

	if cfg.GetSize() != 256 {
		t.Errorf("GetSize() = %d, want 256", cfg.GetSize())
	}
	if cfg.GetLookAroundMatrixSize() != 4 {
		t.Errorf("GetLookAroundMatrixSize() = %d, want 4", cfg.GetLookAroundMatrixSize())
	}
	if cfg.GetOutputPNG() != "" || cfg.GetOutputHTML() != "" || cfg.GetDBPath() != "" {
		t.Error("outputs should be disabled by default")
	}
}

func TestLoadHeightmapConfig(t *testing.T) {
	configPath := testutil.WriteTempFile(t, "test_config.json", `{
  "size": 64,
  "look_around_matrix_size": 8,
  "workers": 4,
  "load_timeout": "15s",
  "mesh_id": "quarry",
  "output_png": "out/quarry.png",
  "db_path": "heights.db"
}`)

	cfg, err := LoadHeightmapConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetSize() != 64 {
		t.Errorf("GetSize() = %d, want 64", cfg.GetSize())
	}
	if cfg.GetLookAroundMatrixSize() != 8 {
		t.Errorf("GetLookAroundMatrixSize() = %d, want 8", cfg.GetLookAroundMatrixSize())
	}
	if cfg.GetWorkers() != 4 {
		t.Errorf("GetWorkers() = %d, want 4", cfg.GetWorkers())
	}
	if cfg.GetLoadTimeout() != 15*time.Second {
		t.Errorf("GetLoadTimeout() = %v, want 15s", cfg.GetLoadTimeout())
	}
	if cfg.GetMeshID() != "quarry" {
		t.Errorf("GetMeshID() = %q, want quarry", cfg.GetMeshID())
	}
	if cfg.GetOutputPNG() != "out/quarry.png" {
		t.Errorf("GetOutputPNG() = %q", cfg.GetOutputPNG())
	}
	if cfg.GetOutputHTML() != "" {
		t.Errorf("GetOutputHTML() = %q, want empty", cfg.GetOutputHTML())
	}
	if cfg.GetDBPath() != "heights.db" {
		t.Errorf("GetDBPath() = %q", cfg.GetDBPath())
	}
}

func TestLoadHeightmapConfigPartial(t *testing.T) {
	configPath := testutil.WriteTempFile(t, "partial.json", `{"size": 32}`)

	cfg, err := LoadHeightmapConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GetSize() != 32 {
		t.Errorf("GetSize() = %d, want 32", cfg.GetSize())
	}
	if cfg.GetLookAroundMatrixSize() != 4 {
		t.Errorf("omitted look_around_matrix_size should default to 4, got %d", cfg.GetLookAroundMatrixSize())
	}
}

func TestLoadHeightmapConfigErrors(t *testing.T) {
	tmpDir := t.TempDir()

	big := filepath.Join(tmpDir, "big.json")
	if err := os.WriteFile(big, []byte(`{"mesh_id":"`+strings.Repeat("a", 1<<20)+`"}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantSub string
	}{
		{"missing file", filepath.Join(tmpDir, "missing.json"), "failed to stat"},
		{"wrong extension", testutil.WriteTempFile(t, "cfg.yaml", "size: 1"), ".json extension"},
		{"invalid json", testutil.WriteTempFile(t, "bad.json", `{"size": "big"`), "failed to parse"},
		{"odd look-around", testutil.WriteTempFile(t, "odd.json", `{"look_around_matrix_size": 3}`), "invalid configuration"},
		{"too large", big, "too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadHeightmapConfig(tt.path)
			testutil.AssertError(t, err)
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should contain %q", err, tt.wantSub)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *HeightmapConfig
		wantErr bool
	}{
		{"empty config is valid", &HeightmapConfig{}, false},
		{"valid config", &HeightmapConfig{Size: ptrInt(128), LookAroundMatrixSize: ptrInt(6), Workers: ptrInt(2), LoadTimeout: ptrString("10s")}, false},
		{"empty timeout string", &HeightmapConfig{LoadTimeout: ptrString("")}, false},
		{"zero size", &HeightmapConfig{Size: ptrInt(0)}, true},
		{"negative size", &HeightmapConfig{Size: ptrInt(-4)}, true},
		{"odd look-around", &HeightmapConfig{LookAroundMatrixSize: ptrInt(3)}, true},
		{"zero look-around", &HeightmapConfig{LookAroundMatrixSize: ptrInt(0)}, true},
		{"negative workers", &HeightmapConfig{Workers: ptrInt(-1)}, true},
		{"unparseable timeout", &HeightmapConfig{LoadTimeout: ptrString("soon")}, true},
		{"negative timeout", &HeightmapConfig{LoadTimeout: ptrString("-1s")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetLoadTimeout(t *testing.T) {
	tests := []struct {
		name string
		cfg  *HeightmapConfig
		want time.Duration
	}{
		{"nil", &HeightmapConfig{}, 2 * time.Minute},
		{"30 seconds", &HeightmapConfig{LoadTimeout: ptrString("30s")}, 30 * time.Second},
		{"disabled", &HeightmapConfig{LoadTimeout: ptrString("0s")}, 0},
		{"parse error falls back", &HeightmapConfig{LoadTimeout: ptrString("nope")}, 2 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.GetLoadTimeout(); got != tt.want {
				t.Errorf("GetLoadTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}
