// Package run captures provenance for a single specification search run.
package run

import (
	"time"

	"specsearch/domain/core"
)

// Manifest records what a run consumed and produced. It is written beside
// the result artifacts so a reviewer can tie outputs back to their inputs.
type Manifest struct {
	RunID        core.RunID `json:"run_id"`
	DataPath     string     `json:"data_path"`
	ConfigPath   string     `json:"config_path"`
	OutputDir    string     `json:"output_dir"`
	DataVariants int        `json:"data_variants"`
	ModelsFitted int        `json:"models_fitted"`
	RecordCount  int        `json:"record_count"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewManifest creates a manifest for a run that is about to start.
func NewManifest(dataPath, configPath, outputDir string) *Manifest {
	return &Manifest{
		RunID:      core.RunID(core.NewID()),
		DataPath:   dataPath,
		ConfigPath: configPath,
		OutputDir:  outputDir,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate checks that the manifest is complete enough to persist.
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewMissingKeyError("run_id")
	}
	if m.DataPath == "" {
		return core.NewMissingKeyError("data_path")
	}
	if m.ConfigPath == "" {
		return core.NewMissingKeyError("config_path")
	}
	return nil
}
