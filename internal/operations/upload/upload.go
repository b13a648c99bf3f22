// Package upload handles report object uploads.
//
// Each upload is dispatched once on its transfer.Strategy: small payloads go
// out in a single PutObject call, large ones through the multipart uploader.
package upload

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/input-output-hk/catalyst-forge-libs/s3report/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/internal/transfer"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/internal/transfer/multipart"
)

// Config controls an Uploader.
type Config struct {
	// Threshold is the size at which multipart is used; zero means
	// transfer.MultipartThreshold
	Threshold int

	// Multipart configures the multipart path
	Multipart multipart.Config

	// Logger receives debug records; nil disables logging
	Logger *slog.Logger
}

// Uploader handles report uploads with size-based strategy selection.
type Uploader struct {
	s3Client  s3api.ObjectAPI
	multipart *multipart.Uploader
	threshold int
	logger    *slog.Logger
}

// New creates a new Uploader instance.
func New(s3Client s3api.ObjectAPI, cfg Config) *Uploader {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = transfer.MultipartThreshold
	}
	return &Uploader{
		s3Client:  s3Client,
		multipart: multipart.NewUploader(s3Client, cfg.Multipart),
		threshold: threshold,
		logger:    cfg.Logger,
	}
}

// Strategy returns the upload method obj would use.
func (u *Uploader) Strategy(obj *transfer.Object) transfer.Strategy {
	return transfer.SelectStrategy(obj.Size(), u.threshold)
}

// Upload writes obj using the strategy selected for its size and reports
// which strategy ran.
func (u *Uploader) Upload(ctx context.Context, obj *transfer.Object) (transfer.Strategy, error) {
	strategy := u.Strategy(obj)

	if u.logger != nil {
		u.logger.DebugContext(ctx, "uploading object",
			"bucket", obj.Bucket,
			"key", obj.Key,
			"size", obj.Size(),
			"strategy", strategy.String())
	}

	switch strategy {
	case transfer.Multipart:
		_, err := u.multipart.Upload(ctx, obj)
		return strategy, err
	default:
		return strategy, u.UploadSimple(ctx, obj)
	}
}

// UploadSimple performs a single (non-multipart) upload of obj.
func (u *Uploader) UploadSimple(ctx context.Context, obj *transfer.Object) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(obj.Bucket),
		Key:           aws.String(obj.Key),
		Body:          bytes.NewReader(obj.Body),
		ContentLength: aws.Int64(int64(obj.Size())),
		ContentType:   aws.String(obj.ContentType),
		ACL:           awstypes.ObjectCannedACL(obj.ACL),
	}
	if enc := obj.Encoding.ContentEncoding(); enc != "" {
		input.ContentEncoding = aws.String(enc)
	}

	if _, err := u.s3Client.PutObject(ctx, input); err != nil {
		return errors.NewWriteFailure("putObject", obj.Path, err).WithBucket(obj.Bucket).WithKey(obj.Key)
	}

	return nil
}
