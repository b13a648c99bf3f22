package s3report

import (
	"context"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/s3report/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/runner"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/s3types"
)

func TestNewWriterConfig_Defaults(t *testing.T) {
	cfg := newWriterConfig(nil)
	assert.Equal(t, runner.Inline{}, cfg.Runner)
	assert.True(t, cfg.AbortOnFailure)
	assert.False(t, cfg.DetectContentType)
	assert.Nil(t, cfg.Logger)
}

func TestOptions(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	pool := runner.NewPool(3)
	awsCfg := &aws.Config{Region: "eu-west-1"}

	cfg := newWriterConfig([]s3types.Option{
		WithRegion("us-west-2"),
		WithEndpoint("http://localhost:4566"),
		WithForcePathStyle(true),
		WithAWSConfig(awsCfg),
		WithLogger(logger),
		WithRunner(pool),
		WithAbortOnFailure(false),
		WithContentTypeDetection(true),
	})

	assert.Equal(t, "us-west-2", cfg.Region)
	assert.Equal(t, "http://localhost:4566", cfg.Endpoint)
	assert.True(t, cfg.ForcePathStyle)
	assert.Same(t, awsCfg, cfg.CustomAWSConfig)
	assert.Same(t, logger, cfg.Logger)
	assert.Same(t, pool, cfg.Runner)
	assert.False(t, cfg.AbortOnFailure)
	assert.True(t, cfg.DetectContentType)
}

func TestWithRunner_IgnoresNil(t *testing.T) {
	cfg := newWriterConfig([]s3types.Option{WithRunner(nil)})
	assert.Equal(t, runner.Inline{}, cfg.Runner)
}

func TestNew_WithAWSConfig(t *testing.T) {
	tests := []struct {
		name string
		opts []s3types.Option
	}{
		{
			name: "custom config",
			opts: []s3types.Option{WithAWSConfig(&aws.Config{Region: "eu-west-1"})},
		},
		{
			name: "custom config with endpoint",
			opts: []s3types.Option{
				WithAWSConfig(&aws.Config{}),
				WithRegion("us-east-1"),
				WithEndpoint("http://localhost:4566"),
				WithForcePathStyle(true),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := New(context.Background(), "bucket", "prefix", tt.opts...)
			require.NoError(t, err)
			require.NotNil(t, w)
			assert.Equal(t, Locator{Bucket: "bucket", Prefix: "prefix"}, w.Locator())
		})
	}
}

func TestNewFromLocation(t *testing.T) {
	w, err := NewFromLocation(context.Background(), "s3://bucket/nightly",
		WithAWSConfig(&aws.Config{Region: "us-east-1"}))
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/nightly", w.String())

	_, err = NewFromLocation(context.Background(), "s3://bucket:9000/nightly")
	require.Error(t, err)
	assert.True(t, errors.IsBadLocation(err))
}
