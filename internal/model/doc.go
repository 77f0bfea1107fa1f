// Package model holds the run-facing model machinery: the metagene
// expansion strategies and the epoch engine the training loop drives.
//
// The engine here does the bookkeeping of a run (batch scheduling, metagene
// accounting, epoch statistics) behind the Engine interface; inference
// backends plug in by implementing the same interface.
package model
