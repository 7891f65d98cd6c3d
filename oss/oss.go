// Package oss stores job media in an object store. Drivers exist for the
// local filesystem, AWS S3 (and S3-compatible endpoints) and MinIO; all of
// them implement Interface.
package oss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Interface defines the object storage operations the service relies on.
type Interface interface {
	// Put uploads the content of reader to path.
	// A negative size means unknown length.
	Put(ctx context.Context, path string, reader io.Reader, size int64) (*Object, error)

	// GetStream returns a readable stream of the object.
	// Caller is responsible for closing the reader when done.
	GetStream(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at path.
	// Returns nil if the object doesn't exist.
	Delete(ctx context.Context, path string) error

	// GetURL returns a URL clients can fetch the object from.
	GetURL(ctx context.Context, path string) (string, error)

	// Exists checks if an object exists at the specified path.
	Exists(ctx context.Context, path string) (bool, error)

	// GetEndpoint returns the storage service endpoint URL.
	GetEndpoint() string
}

// Object represents metadata about a stored object.
type Object struct {
	Path         string     // File path in storage
	Name         string     // File name
	ContentType  string     // Detected from the extension
	LastModified *time.Time // Last modification time
	Size         int64      // File size in bytes
}

// Config holds configuration for object storage providers.
type Config struct {
	Provider string `json:"provider" yaml:"provider"` // Storage provider: filesystem, s3, minio
	ID       string `json:"id" yaml:"id"`             // Access key ID
	Secret   string `json:"secret" yaml:"secret"`     // Secret access key
	Region   string `json:"region" yaml:"region"`     // Region (s3)
	Bucket   string `json:"bucket" yaml:"bucket"`     // Bucket name / local path
	Endpoint string `json:"endpoint" yaml:"endpoint"` // Custom endpoint (required for MinIO)
	UseSSL   bool   `json:"use_ssl" yaml:"use_ssl"`   // MinIO only
}

// Validate checks if the configuration is valid and sets default values where applicable.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return errors.New("storage provider is required")
	}

	switch c.Provider {
	case "filesystem", "local":
		if c.Bucket == "" {
			c.Bucket = "./uploads"
		}
	case "s3", "aws-s3", "aws":
		if c.ID == "" || c.Secret == "" || c.Bucket == "" {
			return errors.New("id, secret, and bucket are required for AWS S3")
		}
		if c.Region == "" {
			c.Region = "us-east-1"
		}
		c.Provider = "s3"
	case "minio":
		if c.ID == "" || c.Secret == "" || c.Bucket == "" || c.Endpoint == "" {
			return errors.New("id, secret, bucket, and endpoint are required for MinIO")
		}
	default:
		return fmt.Errorf("unsupported storage provider: %s", c.Provider)
	}

	return nil
}

// Driver defines the storage driver interface.
type Driver interface {
	// Name returns the driver name.
	Name() string

	// Connect establishes a connection to the storage service.
	Connect(ctx context.Context, cfg *Config) (Interface, error)
}

var driverRegistry = make(map[string]Driver)

// RegisterDriver registers a storage driver.
// Typically called in the driver file's init function.
func RegisterDriver(driver Driver) {
	name := driver.Name()
	if _, exists := driverRegistry[name]; exists {
		panic(fmt.Sprintf("oss driver %s already registered", name))
	}
	driverRegistry[name] = driver
}

// GetDriver retrieves a driver by name.
func GetDriver(name string) (Driver, error) {
	driver, ok := driverRegistry[name]
	if !ok {
		return nil, fmt.Errorf("oss driver %s not found", name)
	}
	return driver, nil
}

// NewStorage creates a storage instance based on the provided configuration.
func NewStorage(ctx context.Context, c *Config) (Interface, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage config: %w", err)
	}

	if c.Provider == "filesystem" || c.Provider == "local" {
		return NewFileSystem(c.Bucket)
	}

	driver, err := GetDriver(c.Provider)
	if err != nil {
		return nil, err
	}

	storage, err := driver.Connect(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to connect with %s driver: %w", c.Provider, err)
	}

	return storage, nil
}
