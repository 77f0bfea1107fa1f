package config

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/stweave/stweave/internal/version"
)

// Document is the in-memory form of a project file.
type Document struct {
	Project      *Project
	Expansion    *Expansion
	Optimization *Optimization
	Slides       []*Slide
}

// Project is the `stweave` block: tool version and network shape.
type Project struct {
	Version      string `hcl:"version,optional"`
	NetworkDepth int    `hcl:"network_depth,optional"`
	NetworkWidth int    `hcl:"network_width,optional"`
}

// Expansion is the `expansion_strategy` block. Type selects the strategy;
// every other attribute in the block is a strategy-specific parameter,
// passed through uninterpreted for the strategy factory to validate.
type Expansion struct {
	Type   string
	Params map[string]cty.Value
}

// Optimization is the `optimization` block.
type Optimization struct {
	Epochs             int     `hcl:"epochs,optional"`
	BatchSize          int     `hcl:"batch_size,optional"`
	PatchSize          int     `hcl:"patch_size,optional"`
	LearningRate       float64 `hcl:"learning_rate,optional"`
	CheckpointInterval int     `hcl:"checkpoint_interval,optional"`
}

// Slide is one `slide` block. The label is the path to the slide's data
// file, relative paths resolving against the project file's directory.
type Slide struct {
	Path       string            `hcl:"path,label"`
	Covariates map[string]string `hcl:"covariates,optional"`
	Options    *SlideOptions     `hcl:"options,block"`
}

// SlideOptions is the per-slide `options` block.
type SlideOptions struct {
	ScaleFactor float64 `hcl:"scale_factor,optional"`
	MinCounts   int     `hcl:"min_counts,optional"`
}

// Default returns the settings a project file is interpreted on top of.
func Default() *Document {
	return &Document{
		Project: &Project{
			Version:      version.Version,
			NetworkDepth: 6,
			NetworkWidth: 16,
		},
		Expansion: &Expansion{
			Type:   "extend",
			Params: map[string]cty.Value{},
		},
		Optimization: &Optimization{
			Epochs:             100000,
			BatchSize:          3,
			PatchSize:          768,
			LearningRate:       3e-4,
			CheckpointInterval: 1000,
		},
	}
}
