// Package testutil provides a builder for creating mock S3 clients.
package testutil

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MockBuilder provides a fluent interface for building MockS3Client instances.
type MockBuilder struct {
	client *MockS3Client
}

// NewMockBuilder creates a new MockBuilder.
func NewMockBuilder() *MockBuilder {
	return &MockBuilder{
		client: &MockS3Client{},
	}
}

// Build returns the configured MockS3Client.
func (b *MockBuilder) Build() *MockS3Client {
	return b.client
}

// KeepBodies makes the mock retain payload bytes in recorded calls.
func (b *MockBuilder) KeepBodies() *MockBuilder {
	b.client.KeepBodies = true
	return b
}

// WithPutObjectError makes every PutObject call fail with err.
func (b *MockBuilder) WithPutObjectError(err error) *MockBuilder {
	b.client.PutObjectFunc = func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, err
	}
	return b
}

// WithCreateMultipartUploadError makes every initiate call fail with err.
func (b *MockBuilder) WithCreateMultipartUploadError(err error) *MockBuilder {
	b.client.CreateMultipartUploadFunc = func(
		context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options),
	) (*s3.CreateMultipartUploadOutput, error) {
		return nil, err
	}
	return b
}

// WithoutUploadID makes initiate succeed but return no upload id.
func (b *MockBuilder) WithoutUploadID() *MockBuilder {
	b.client.CreateMultipartUploadFunc = func(
		_ context.Context, params *s3.CreateMultipartUploadInput, _ ...func(*s3.Options),
	) (*s3.CreateMultipartUploadOutput, error) {
		return &s3.CreateMultipartUploadOutput{Bucket: params.Bucket, Key: params.Key}, nil
	}
	return b
}

// WithUploadPartErrorAt makes the part numbered partNumber fail with err.
// Other parts succeed.
func (b *MockBuilder) WithUploadPartErrorAt(partNumber int32, err error) *MockBuilder {
	b.client.UploadPartFunc = func(
		_ context.Context, params *s3.UploadPartInput, _ ...func(*s3.Options),
	) (*s3.UploadPartOutput, error) {
		if aws.ToInt32(params.PartNumber) == partNumber {
			return nil, err
		}
		return &s3.UploadPartOutput{ETag: aws.String(PartETag(aws.ToInt32(params.PartNumber)))}, nil
	}
	return b
}

// WithoutETagAt makes the part numbered partNumber succeed with no ETag.
func (b *MockBuilder) WithoutETagAt(partNumber int32) *MockBuilder {
	b.client.UploadPartFunc = func(
		_ context.Context, params *s3.UploadPartInput, _ ...func(*s3.Options),
	) (*s3.UploadPartOutput, error) {
		if aws.ToInt32(params.PartNumber) == partNumber {
			return &s3.UploadPartOutput{}, nil
		}
		return &s3.UploadPartOutput{ETag: aws.String(PartETag(aws.ToInt32(params.PartNumber)))}, nil
	}
	return b
}

// WithCompleteMultipartUploadError makes every completion call fail with err.
func (b *MockBuilder) WithCompleteMultipartUploadError(err error) *MockBuilder {
	b.client.CompleteMultipartUploadFunc = func(
		context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options),
	) (*s3.CompleteMultipartUploadOutput, error) {
		return nil, err
	}
	return b
}

// WithAbortMultipartUploadError makes every abort call fail with err.
func (b *MockBuilder) WithAbortMultipartUploadError(err error) *MockBuilder {
	b.client.AbortMultipartUploadFunc = func(
		context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options),
	) (*s3.AbortMultipartUploadOutput, error) {
		return nil, err
	}
	return b
}
