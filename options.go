package s3report

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/input-output-hk/catalyst-forge-libs/s3report/s3types"
)

// WithRegion sets the AWS region used by New.
// If not specified, the region comes from the default credential chain.
func WithRegion(region string) s3types.Option {
	return func(c *s3types.WriterConfig) {
		c.Region = region
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services or local testing with LocalStack.
func WithEndpoint(endpoint string) s3types.Option {
	return func(c *s3types.WriterConfig) {
		c.Endpoint = endpoint
	}
}

// WithForcePathStyle forces path-style addressing instead of virtual-hosted style.
func WithForcePathStyle(forcePathStyle bool) s3types.Option {
	return func(c *s3types.WriterConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithAWSConfig provides a custom AWS configuration, overriding the default
// configuration loading in New.
func WithAWSConfig(config *aws.Config) s3types.Option {
	return func(c *s3types.WriterConfig) {
		c.CustomAWSConfig = config
	}
}

// WithLogger sets the logger used for write diagnostics.
// If not set, the writer is silent.
func WithLogger(logger *slog.Logger) s3types.Option {
	return func(c *s3types.WriterConfig) {
		c.Logger = logger
	}
}

// WithRunner sets the execution context that drives storage calls.
// Defaults to runner.Inline. Share one runner.Pool between writers to bound
// the total number of writes in flight.
func WithRunner(r s3types.Runner) s3types.Option {
	return func(c *s3types.WriterConfig) {
		if r != nil {
			c.Runner = r
		}
	}
}

// WithAbortOnFailure controls whether a failed multipart upload is aborted.
// Default is true. When disabled, a failed upload is left in place on the
// service.
func WithAbortOnFailure(abort bool) s3types.Option {
	return func(c *s3types.WriterConfig) {
		c.AbortOnFailure = abort
	}
}

// WithContentTypeDetection enables sniffing the content type from the payload
// when a write is given an empty content type. Gzip-encoded payloads are not
// sniffed; callers should detect on the uncompressed data instead.
func WithContentTypeDetection(detect bool) s3types.Option {
	return func(c *s3types.WriterConfig) {
		c.DetectContentType = detect
	}
}
