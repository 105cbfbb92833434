// Package arbor exposes project-level metadata.
package arbor

// Version is the current arbor release.
const Version = "v0.1.0"
