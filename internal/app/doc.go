// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the command lifecycle, decoupled from any
// specific entrypoint like a CLI.
//
// Every command runs inside the default session at the bottom of the stack;
// `stweave run` layers the loaded and fresh run sessions on top of it.
package app
