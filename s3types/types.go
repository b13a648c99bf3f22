// Package s3types provides shared type definitions for the report storage module.
package s3types

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// Encoding describes how a payload is encoded before it is written.
// The writer only tags the object; it never compresses.
type Encoding int

const (
	// EncodingPlain stores the payload as-is and sets no Content-Encoding.
	EncodingPlain Encoding = iota

	// EncodingGzip marks the payload as gzip-compressed (Content-Encoding: gzip).
	EncodingGzip
)

// String implements fmt.Stringer.
func (e Encoding) String() string {
	switch e {
	case EncodingGzip:
		return "gzip"
	default:
		return "plain"
	}
}

// ContentEncoding returns the Content-Encoding header value for e, or "" when
// no header must be set.
func (e Encoding) ContentEncoding() string {
	if e == EncodingGzip {
		return "gzip"
	}
	return ""
}

// ObjectACL represents the canned access control list applied to written objects.
type ObjectACL string

const (
	// ACLPrivate grants private access
	ACLPrivate ObjectACL = "private"

	// ACLPublicRead grants public read access; every report object uses it
	ACLPublicRead ObjectACL = "public-read"
)

// Runner drives storage calls to completion on behalf of a writer.
// Implementations must be safe for concurrent use.
type Runner interface {
	// Run executes op and returns its error. Run must not return before op
	// has finished.
	Run(ctx context.Context, op func(context.Context) error) error
}

// WriterConfig holds configuration for the S3 report writer.
type WriterConfig struct {
	Region            string
	Endpoint          string
	ForcePathStyle    bool
	CustomAWSConfig   *aws.Config
	Logger            *slog.Logger
	Runner            Runner
	AbortOnFailure    bool
	DetectContentType bool
}

// Option is a functional option for configuring the S3 report writer.
type Option func(*WriterConfig)
