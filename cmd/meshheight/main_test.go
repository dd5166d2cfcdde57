package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/meshheight/internal/monitoring"
	"github.com/banshee-data/meshheight/internal/store"
	"github.com/banshee-data/meshheight/internal/testutil"
)

const squareOBJ = `# unit square
v 0 0 0
v 1 1 0
v 0 2 1
v 1 3 1
f 1 2 3
f 2 4 3
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRun_Version(t *testing.T) {
	out, err := runCLI(t, "-version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "meshheight "))
}

func TestRun_MissingMesh(t *testing.T) {
	_, err := runCLI(t)
	assert.EqualError(t, err, "-mesh is required")
}

func TestRun_Help(t *testing.T) {
	_, err := runCLI(t, "-h")
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

func TestRun_OddLookAroundRejected(t *testing.T) {
	mesh := testutil.WriteTempFile(t, "square.obj", squareOBJ)
	_, err := runCLI(t, "-mesh", mesh, "-lookaround", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestRun_DegenerateMesh(t *testing.T) {
	mesh := testutil.WriteTempFile(t, "line.obj", "v 0 0 0\nv 1 0 0\n")
	_, err := runCLI(t, "-mesh", mesh, "-size", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "degenerate")
}

func TestRun_Summary(t *testing.T) {
	mesh := testutil.WriteTempFile(t, "square.obj", squareOBJ)
	out, err := runCLI(t, "-mesh", mesh, "-size", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "grid 2x2 from 4 points (lookaround 4")
	assert.Contains(t, out, "cells: occupied=4 interpolated=0 empty=0")
	assert.Contains(t, out, "height: min=0.0000 max=3.0000 mean=1.5000")
}

func TestRun_ConfigFileAndOutputs(t *testing.T) {
	monitoring.SetLogger(t.Logf)
	t.Cleanup(func() { monitoring.SetLogger(nil) })

	dir := t.TempDir()
	mesh := testutil.WriteTempFile(t, "square.obj", squareOBJ)
	cfgPath := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"size": 4, "look_around_matrix_size": 2, "mesh_id": "square"}`), 0644))

	pngPath := filepath.Join(dir, "out", "hm.png")
	htmlPath := filepath.Join(dir, "out", "hm.html")
	dbPath := filepath.Join(dir, "hm.db")

	out, err := runCLI(t, "-mesh", mesh, "-config", cfgPath, "-png", pngPath, "-html", htmlPath, "-db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "grid 4x4 from 4 points (lookaround 2")
	assert.Contains(t, out, "wrote "+pngPath)
	assert.Contains(t, out, "stored snapshot ")

	assert.FileExists(t, pngPath)
	assert.FileExists(t, htmlPath)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	snap, err := st.LatestSnapshot("square")
	require.NoError(t, err)
	assert.Equal(t, 4, snap.Size)
	assert.Equal(t, 2, snap.LookAround)
}

func TestRun_ZeroLoadTimeoutMeansNoTimeout(t *testing.T) {
	mesh := testutil.WriteTempFile(t, "square.obj", squareOBJ)
	cfgPath := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"size": 2, "load_timeout": "0s"}`), 0644))

	out, err := runCLI(t, "-mesh", mesh, "-config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "grid 2x2 from 4 points")
}

func TestLoadContext(t *testing.T) {
	ctx, cancel := loadContext(context.Background(), 0)
	defer cancel()
	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline)
	assert.NoError(t, ctx.Err())

	ctx, cancel = loadContext(context.Background(), time.Minute)
	defer cancel()
	_, hasDeadline = ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestResolveConfig_FlagsOverride(t *testing.T) {
	o, err := parseFlags([]string{"-size", "64", "-workers", "3"}, &bytes.Buffer{})
	require.NoError(t, err)
	cfg, err := resolveConfig(o)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.GetSize())
	assert.Equal(t, 3, cfg.GetWorkers())
	assert.Equal(t, 4, cfg.GetLookAroundMatrixSize())
	assert.Empty(t, cfg.GetOutputPNG())
}
