package testutil

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/localstack"
)

const localStackImage = "localstack/localstack:latest"

// LocalStack is a running LocalStack container and an S3 client bound to it.
type LocalStack struct {
	// Endpoint is the base URL of the S3 API
	Endpoint string

	// Config carries static test credentials and the region
	Config aws.Config

	// Client uses path-style addressing against Endpoint
	Client *s3.Client
}

// StartLocalStack starts a LocalStack container that lives until t ends.
// It skips t in short mode.
func StartLocalStack(t *testing.T) *LocalStack {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := localstack.Run(ctx, localStackImage)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start LocalStack")

	endpoint, err := container.PortEndpoint(ctx, "4566/tcp", "http")
	require.NoError(t, err, "resolve LocalStack endpoint")

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
	)
	require.NoError(t, err, "load AWS config")

	return &LocalStack{
		Endpoint: endpoint,
		Config:   cfg,
		Client: s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.UsePathStyle = true
			o.BaseEndpoint = aws.String(endpoint)
		}),
	}
}

// CreateBucket creates a uniquely named bucket and returns its name.
func (l *LocalStack) CreateBucket(ctx context.Context, t *testing.T, prefix string) string {
	t.Helper()

	name := GenerateTestBucketName(prefix)
	_, err := l.Client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(name)})
	require.NoError(t, err, "create bucket %s", name)
	return name
}
