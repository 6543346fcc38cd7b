// Package config defines pipeline settings and provides helpers to load,
// validate and save them in YAML format.
//
// Settings cover the external binaries the pipeline drives (container engine,
// toolchain), the default artifact destination, and the log level. Command
// line flags override file values.
package config
