// Package s3compat adapts S3-compatible object stores (MinIO, Ceph RGW and
// similar) to the storage client used by s3report writers.
//
// The adapter is built on the low-level minio-go Core API so that every
// request maps one-to-one onto a writer step: no client-side retries, part
// splitting or buffering happen here.
package s3compat

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/input-output-hk/catalyst-forge-libs/s3report/internal/s3api"
)

// aclHeader carries the canned ACL; minio-go forwards x-amz-* metadata as
// plain request headers.
const aclHeader = "x-amz-acl"

var errMissingParam = errors.New("missing required parameter")

// Core is the subset of *minio.Core used by Client.
type Core interface {
	PutObject(
		ctx context.Context,
		bucket, object string,
		data io.Reader,
		size int64,
		md5Base64, sha256Hex string,
		opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
	NewMultipartUpload(ctx context.Context, bucket, object string, opts minio.PutObjectOptions) (string, error)
	PutObjectPart(
		ctx context.Context,
		bucket, object, uploadID string,
		partID int,
		data io.Reader,
		size int64,
		opts minio.PutObjectPartOptions,
	) (minio.ObjectPart, error)
	CompleteMultipartUpload(
		ctx context.Context,
		bucket, object, uploadID string,
		parts []minio.CompletePart,
		opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
	AbortMultipartUpload(ctx context.Context, bucket, object, uploadID string) error
}

var (
	_ Core            = (*minio.Core)(nil)
	_ s3api.ObjectAPI = (*Client)(nil)
)

// Config describes how to reach an S3-compatible endpoint.
type Config struct {
	// Endpoint is host[:port] without a scheme
	Endpoint string

	AccessKey    string
	SecretKey    string
	SessionToken string

	// Region is sent with signed requests; empty lets the server decide
	Region string

	// Secure selects HTTPS
	Secure bool
}

// Client implements the writer storage capability on top of minio-go.
type Client struct {
	core Core
}

// New creates a Client for the endpoint described by cfg.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint: %w", errMissingParam)
	}

	core, err := minio.NewCore(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &Client{core: core}, nil
}

// NewWithCore wraps an existing Core implementation.
func NewWithCore(core Core) *Client {
	return &Client{core: core}
}

// PutObject uploads params.Body in a single request.
func (c *Client) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	_ ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	bucket, key, err := target(params.Bucket, params.Key)
	if err != nil {
		return nil, err
	}

	info, err := c.core.PutObject(ctx, bucket, key, params.Body, aws.ToInt64(params.ContentLength), "", "",
		putOptions(params.ContentType, params.ContentEncoding, string(params.ACL)))
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", key, err)
	}

	return &s3.PutObjectOutput{ETag: optional(info.ETag)}, nil
}

// CreateMultipartUpload starts a multipart upload.
func (c *Client) CreateMultipartUpload(
	ctx context.Context,
	params *s3.CreateMultipartUploadInput,
	_ ...func(*s3.Options),
) (*s3.CreateMultipartUploadOutput, error) {
	bucket, key, err := target(params.Bucket, params.Key)
	if err != nil {
		return nil, err
	}

	uploadID, err := c.core.NewMultipartUpload(ctx, bucket, key,
		putOptions(params.ContentType, params.ContentEncoding, string(params.ACL)))
	if err != nil {
		return nil, fmt.Errorf("create multipart upload %q: %w", key, err)
	}

	return &s3.CreateMultipartUploadOutput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		UploadId: optional(uploadID),
	}, nil
}

// UploadPart uploads one part of a multipart upload.
func (c *Client) UploadPart(
	ctx context.Context,
	params *s3.UploadPartInput,
	_ ...func(*s3.Options),
) (*s3.UploadPartOutput, error) {
	bucket, key, err := target(params.Bucket, params.Key)
	if err != nil {
		return nil, err
	}

	part, err := c.core.PutObjectPart(ctx, bucket, key, aws.ToString(params.UploadId),
		int(aws.ToInt32(params.PartNumber)), params.Body, aws.ToInt64(params.ContentLength),
		minio.PutObjectPartOptions{})
	if err != nil {
		return nil, fmt.Errorf("upload part %d of %q: %w", aws.ToInt32(params.PartNumber), key, err)
	}

	return &s3.UploadPartOutput{ETag: optional(part.ETag)}, nil
}

// CompleteMultipartUpload finishes a multipart upload with the listed parts.
func (c *Client) CompleteMultipartUpload(
	ctx context.Context,
	params *s3.CompleteMultipartUploadInput,
	_ ...func(*s3.Options),
) (*s3.CompleteMultipartUploadOutput, error) {
	bucket, key, err := target(params.Bucket, params.Key)
	if err != nil {
		return nil, err
	}

	var parts []minio.CompletePart
	if params.MultipartUpload != nil {
		parts = make([]minio.CompletePart, 0, len(params.MultipartUpload.Parts))
		for _, p := range params.MultipartUpload.Parts {
			parts = append(parts, minio.CompletePart{
				PartNumber: int(aws.ToInt32(p.PartNumber)),
				ETag:       aws.ToString(p.ETag),
			})
		}
	}

	info, err := c.core.CompleteMultipartUpload(ctx, bucket, key, aws.ToString(params.UploadId), parts,
		minio.PutObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("complete multipart upload %q: %w", key, err)
	}

	return &s3.CompleteMultipartUploadOutput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		ETag:   optional(info.ETag),
	}, nil
}

// AbortMultipartUpload discards a multipart upload and its stored parts.
func (c *Client) AbortMultipartUpload(
	ctx context.Context,
	params *s3.AbortMultipartUploadInput,
	_ ...func(*s3.Options),
) (*s3.AbortMultipartUploadOutput, error) {
	bucket, key, err := target(params.Bucket, params.Key)
	if err != nil {
		return nil, err
	}

	if err := c.core.AbortMultipartUpload(ctx, bucket, key, aws.ToString(params.UploadId)); err != nil {
		return nil, fmt.Errorf("abort multipart upload %q: %w", key, err)
	}

	return &s3.AbortMultipartUploadOutput{}, nil
}

func target(bucket, key *string) (string, string, error) {
	if aws.ToString(bucket) == "" {
		return "", "", fmt.Errorf("bucket: %w", errMissingParam)
	}
	if aws.ToString(key) == "" {
		return "", "", fmt.Errorf("key: %w", errMissingParam)
	}
	return *bucket, *key, nil
}

func putOptions(contentType, contentEncoding *string, acl string) minio.PutObjectOptions {
	opts := minio.PutObjectOptions{
		ContentType:     aws.ToString(contentType),
		ContentEncoding: aws.ToString(contentEncoding),
	}
	if acl != "" {
		opts.UserMetadata = map[string]string{aclHeader: acl}
	}
	return opts
}

// optional maps an empty string to nil so that missing identifiers stay
// distinguishable from present ones.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}
