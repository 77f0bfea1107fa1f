package config

import (
	"maps"

	"github.com/zclconf/go-cty/cty"
)

// Merge layers user over base and returns a new document. Scalar fields win
// when the user set them to a non-zero value, expansion parameters merge
// key-wise, and the user's slide list replaces the base's. Neither input is
// modified.
func Merge(base, user *Document) *Document {
	merged := &Document{
		Project:      mergeProject(base.Project, user.Project),
		Expansion:    mergeExpansion(base.Expansion, user.Expansion),
		Optimization: mergeOptimization(base.Optimization, user.Optimization),
		Slides:       base.Slides,
	}
	if len(user.Slides) > 0 {
		merged.Slides = user.Slides
	}
	return merged
}

func mergeProject(base, user *Project) *Project {
	merged := Project{}
	if base != nil {
		merged = *base
	}
	if user == nil {
		return &merged
	}
	if user.Version != "" {
		merged.Version = user.Version
	}
	if user.NetworkDepth != 0 {
		merged.NetworkDepth = user.NetworkDepth
	}
	if user.NetworkWidth != 0 {
		merged.NetworkWidth = user.NetworkWidth
	}
	return &merged
}

func mergeExpansion(base, user *Expansion) *Expansion {
	merged := Expansion{Params: map[string]cty.Value{}}
	if base != nil {
		merged.Type = base.Type
		maps.Copy(merged.Params, base.Params)
	}
	if user == nil {
		return &merged
	}
	if user.Type != "" {
		merged.Type = user.Type
	}
	maps.Copy(merged.Params, user.Params)
	return &merged
}

func mergeOptimization(base, user *Optimization) *Optimization {
	merged := Optimization{}
	if base != nil {
		merged = *base
	}
	if user == nil {
		return &merged
	}
	if user.Epochs != 0 {
		merged.Epochs = user.Epochs
	}
	if user.BatchSize != 0 {
		merged.BatchSize = user.BatchSize
	}
	if user.PatchSize != 0 {
		merged.PatchSize = user.PatchSize
	}
	if user.LearningRate != 0 {
		merged.LearningRate = user.LearningRate
	}
	if user.CheckpointInterval != 0 {
		merged.CheckpointInterval = user.CheckpointInterval
	}
	return &merged
}
