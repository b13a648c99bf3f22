package s3report

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/input-output-hk/catalyst-forge-libs/s3report/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/internal/operations/upload"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/internal/transfer/multipart"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/runner"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/s3types"
)

// StorageClient is the object storage capability a Writer needs.
// *s3.Client from the AWS SDK satisfies it, as does s3compat.Client.
type StorageClient = s3api.ObjectAPI

// New creates a Writer for bucket and prefix backed by the AWS SDK.
// Credentials and region are loaded from the default credential chain unless
// WithAWSConfig is given. The SDK retryer is disabled so that every storage
// call is attempted exactly once.
//
// Example:
//
//	w, err := s3report.New(ctx, "reports-bucket", "nightly",
//	    s3report.WithRegion("eu-central-1"),
//	    s3report.WithLogger(logger),
//	)
func New(ctx context.Context, bucket, prefix string, opts ...s3types.Option) (*Writer, error) {
	cfg := newWriterConfig(opts)

	var awsCfg aws.Config
	if cfg.CustomAWSConfig != nil {
		awsCfg = cfg.CustomAWSConfig.Copy()
	} else {
		var err error
		awsCfg, err = config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, errors.NewWriteFailure("loadConfig", "", err).WithBucket(bucket)
		}
	}

	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	} else if awsCfg.Region == "" {
		awsCfg.Region = "us-east-1"
	}

	awsCfg.Retryer = func() aws.Retryer {
		return aws.NopRetryer{}
	}

	var s3Opts []func(*s3.Options)
	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return newWriter(s3.NewFromConfig(awsCfg, s3Opts...), bucket, prefix, cfg), nil
}

// NewFromLocation parses an s3:// location and creates a Writer for it.
func NewFromLocation(ctx context.Context, location string, opts ...s3types.Option) (*Writer, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	return New(ctx, loc.Bucket, loc.Prefix, opts...)
}

// NewWithClient creates a Writer over an existing StorageClient.
// AWS-specific options (region, endpoint, path style, AWS config) are ignored.
func NewWithClient(client StorageClient, bucket, prefix string, opts ...s3types.Option) *Writer {
	return newWriter(client, bucket, prefix, newWriterConfig(opts))
}

func newWriterConfig(opts []s3types.Option) *s3types.WriterConfig {
	cfg := &s3types.WriterConfig{
		Runner:         runner.Inline{},
		AbortOnFailure: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func newWriter(client StorageClient, bucket, prefix string, cfg *s3types.WriterConfig) *Writer {
	return &Writer{
		locator: Locator{Bucket: bucket, Prefix: prefix},
		uploader: upload.New(client, upload.Config{
			Multipart: multipart.Config{
				AbortOnFailure: cfg.AbortOnFailure,
				Logger:         cfg.Logger,
			},
			Logger: cfg.Logger,
		}),
		runner:            cfg.Runner,
		logger:            cfg.Logger,
		detectContentType: cfg.DetectContentType,
	}
}
