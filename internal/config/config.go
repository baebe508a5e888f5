// Package config loads the HCL configuration surface §6 describes:
// solver backend settings and pipeline ingestion settings, bound
// together into the values cmd/ldlmon needs to construct a
// smt.Backend and a pipeline.MonitorPipeline.
package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/exertio/ldlmonitor/pkg/pipeline"
	"github.com/exertio/ldlmonitor/pkg/smt"
)

// Solver is the HCL "solver" block: the subprocess SMT backend's
// key-value configuration.
type Solver struct {
	Path             string `hcl:"path,optional"`
	UnrollDepth      int    `hcl:"unroll_depth,optional"`
	TimeoutMS        int    `hcl:"timeout_ms,optional"`
	CacheSize        int    `hcl:"cache_size,optional"`
	FailureThreshold int    `hcl:"failure_threshold,optional"`
	MaxConcurrent    int    `hcl:"max_concurrent,optional"`
}

// Ingest is the HCL "ingest" block: the pipeline's ingestion settings.
type Ingest struct {
	SamplingRate  int `hcl:"sampling_rate,optional"`
	MaxBufferSize int `hcl:"max_buffer_size,optional"`
}

// File is the root of an ldlmon HCL configuration file.
type File struct {
	Solver *Solver `hcl:"solver,block"`
	Ingest *Ingest `hcl:"ingest,block"`
}

// Config is the decoded, defaulted configuration cmd/ldlmon wires into
// the backend and pipeline constructors.
type Config struct {
	Solver   smt.Config
	Pipeline pipeline.Config
}

// Default returns Config populated from smt.DefaultConfig and a
// conservative pipeline sampling rate, for use when no file is given.
func Default() Config {
	return Config{
		Solver:   smt.DefaultConfig(),
		Pipeline: pipeline.Config{ConfiguredSamplingRate: 50, MaxBufferSize: 256},
	}
}

// Load parses the HCL file at path and merges it over Default: any
// block or attribute the file omits keeps its default value.
func Load(path string) (Config, error) {
	cfg := Default()

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, diags)
	}

	var f File
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &f); diags.HasErrors() {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, diags)
	}

	applySolver(&cfg.Solver, f.Solver)
	applyIngest(&cfg.Pipeline, f.Ingest)
	return cfg, nil
}

func applySolver(dst *smt.Config, s *Solver) {
	if s == nil {
		return
	}
	if s.Path != "" {
		dst.SolverPath = s.Path
	}
	if s.UnrollDepth != 0 {
		dst.UnrollDepth = s.UnrollDepth
	}
	if s.TimeoutMS != 0 {
		dst.Timeout = time.Duration(s.TimeoutMS) * time.Millisecond
	}
	if s.CacheSize != 0 {
		dst.CacheSize = s.CacheSize
	}
	if s.FailureThreshold != 0 {
		dst.FailureThreshold = s.FailureThreshold
	}
	if s.MaxConcurrent != 0 {
		dst.MaxConcurrent = int64(s.MaxConcurrent)
	}
}

func applyIngest(dst *pipeline.Config, i *Ingest) {
	if i == nil {
		return
	}
	if i.SamplingRate != 0 {
		dst.ConfiguredSamplingRate = i.SamplingRate
	}
	if i.MaxBufferSize != 0 {
		dst.MaxBufferSize = i.MaxBufferSize
	}
}
