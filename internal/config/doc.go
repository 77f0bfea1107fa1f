// Package config defines the stweave project file: the HCL document that
// names the slides of an experiment, their covariates, and the model and
// optimization settings a run trains with.
//
// A project file is always interpreted on top of the built-in defaults, so a
// minimal file only has to name its slides. The merged result is written
// next to the run's other artifacts, which makes the exact settings of a
// finished run reproducible from its save directory alone.
package config
