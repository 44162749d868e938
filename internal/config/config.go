// Package config loads the server's INI configuration file. The format
// and section layout come straight from the original service: a
// [Server] section with Environment and Port, and a [Files] section with
// DataFile.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

const (
	// EnvironmentProduction is the default environment: verbose logging
	// is suppressed and internal error detail is not returned to callers.
	EnvironmentProduction = "production"
	// EnvironmentDevelopment enables debug-level logging.
	EnvironmentDevelopment = "development"
)

// C is the server's runtime configuration.
type C struct {
	// Environment is "production" (default) or "development".
	Environment string

	// Port is the TCP port to bind the HTTP server to.
	Port int

	// DataFile is the path (or, for the s3 backend, the key) to the
	// snapshot that is loaded at startup and written on /persist when no
	// filename is supplied in the request body.
	DataFile string

	// Storage selects the blobstore.Kind backing DataFile: "disk"
	// (default), "null", or "s3".
	Storage string

	S3Profile string
	S3Region  string
	S3Bucket  string
}

// Load reads and validates the INI file at path.
func Load(path string) (*C, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load %q: %w", path, err)
	}

	c := &C{
		Environment: EnvironmentProduction,
		Storage:     "disk",
	}

	server := f.Section("Server")
	if v := server.Key("Environment").String(); v != "" {
		c.Environment = v
	}
	port, err := server.Key("Port").Int()
	if err != nil {
		return nil, fmt.Errorf("config.Load %q: [Server] Port: %w", path, err)
	}
	c.Port = port

	files := f.Section("Files")
	c.DataFile = files.Key("DataFile").String()
	if c.DataFile == "" {
		return nil, fmt.Errorf("config.Load %q: [Files] DataFile is required", path)
	}
	if v := files.Key("Storage").String(); v != "" {
		c.Storage = v
	}
	c.S3Profile = files.Key("S3Profile").String()
	c.S3Region = files.Key("S3Region").String()
	c.S3Bucket = files.Key("S3Bucket").String()

	return c, nil
}

// IsProduction reports whether the configured environment suppresses
// debug logging and internal error detail.
func (c *C) IsProduction() bool {
	return c.Environment == "" || c.Environment == EnvironmentProduction
}
