// Package version holds the build version stamped into generated project
// files and reported by the --version flag.
package version

// Version is the semantic version of this build.
const Version = "0.4.2"
