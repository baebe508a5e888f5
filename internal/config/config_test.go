package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_MatchesPackageDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "z3", cfg.Solver.SolverPath)
	assert.Equal(t, 256, cfg.Pipeline.MaxBufferSize)
}

func TestLoad_OverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ldlmon.hcl")
	body := `
solver {
  path        = "/usr/bin/z3"
  timeout_ms  = 500
}

ingest {
  sampling_rate = 100
}
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/z3", cfg.Solver.SolverPath)
	assert.Equal(t, 500*time.Millisecond, cfg.Solver.Timeout)
	// UnrollDepth was not set in the file; it keeps its default.
	assert.Equal(t, 4, cfg.Solver.UnrollDepth)

	assert.Equal(t, 100, cfg.Pipeline.ConfiguredSamplingRate)
	// MaxBufferSize was not set in the ingest block; it keeps its default.
	assert.Equal(t, 256, cfg.Pipeline.MaxBufferSize)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

func TestLoad_EmptyFileKeepsAllDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.hcl")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
