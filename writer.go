package s3report

import (
	"context"
	"log/slog"

	"github.com/gabriel-vasile/mimetype"

	"github.com/input-output-hk/catalyst-forge-libs/s3report/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/internal/operations/upload"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/internal/transfer"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/internal/validation"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/s3types"
)

// Encoding describes how a payload was encoded by the caller.
type Encoding = s3types.Encoding

// Re-exported so callers need not import s3types for the common case.
const (
	EncodingPlain = s3types.EncodingPlain
	EncodingGzip  = s3types.EncodingGzip
)

// ReportWriter is the contract shared by report storage backends.
type ReportWriter interface {
	// WriteBytes stores body at path with the given content type and encoding.
	WriteBytes(ctx context.Context, path string, body []byte, contentType string, enc s3types.Encoding) error

	// WriteString stores text at path as a plain (unencoded) payload.
	WriteString(ctx context.Context, path, text, contentType string) error
}

var _ ReportWriter = (*Writer)(nil)

// Writer writes report objects into one bucket under one key prefix.
// A Writer is immutable after construction and safe for concurrent use.
type Writer struct {
	locator           Locator
	uploader          *upload.Uploader
	runner            s3types.Runner
	logger            *slog.Logger
	detectContentType bool
}

// Locator returns the bucket and prefix the writer targets.
func (w *Writer) Locator() Locator {
	return w.locator
}

// String implements fmt.Stringer.
func (w *Writer) String() string {
	return w.locator.String()
}

// WriteBytes stores body at "{prefix}/{path}" with the public-read ACL.
//
// Bodies of 50 MiB or more are uploaded in sequential 20 MiB parts; smaller
// bodies are sent in one request. Content-Encoding is set to gzip only for
// EncodingGzip. The body is never compressed by the writer. Any failure is
// returned as a WRITE_FAILURE error carrying path and the underlying cause.
func (w *Writer) WriteBytes(
	ctx context.Context,
	path string,
	body []byte,
	contentType string,
	enc s3types.Encoding,
) error {
	if err := validation.ValidatePath(path); err != nil {
		return errors.NewWriteFailure("validate", path, err).WithBucket(w.locator.Bucket)
	}

	// compressed bytes would only ever sniff as application/gzip
	if contentType == "" && w.detectContentType && enc != s3types.EncodingGzip {
		contentType = mimetype.Detect(body).String()
	}

	obj := &transfer.Object{
		Bucket:      w.locator.Bucket,
		Key:         w.key(path),
		Path:        path,
		Body:        body,
		ContentType: contentType,
		Encoding:    enc,
		ACL:         s3types.ACLPublicRead,
	}

	err := w.runner.Run(ctx, func(ctx context.Context) error {
		strategy, err := w.uploader.Upload(ctx, obj)
		if err != nil {
			if w.logger != nil {
				w.logger.ErrorContext(ctx, "failed to write report",
					"bucket", obj.Bucket,
					"key", obj.Key,
					"path", path,
					"strategy", strategy.String(),
					"error", err)
			}
			return err
		}

		if w.logger != nil {
			w.logger.InfoContext(ctx, "report written",
				"bucket", obj.Bucket,
				"key", obj.Key,
				"size", obj.Size(),
				"strategy", strategy.String())
		}
		return nil
	})
	if err != nil && errors.KindOf(err) == "" {
		// the runner refused to schedule the write
		return errors.NewWriteFailure("run", path, err).WithBucket(obj.Bucket).WithKey(obj.Key)
	}
	return err
}

// WriteString stores text at path as a plain payload. It is WriteBytes with
// EncodingPlain.
func (w *Writer) WriteString(ctx context.Context, path, text, contentType string) error {
	return w.WriteBytes(ctx, path, []byte(text), contentType, s3types.EncodingPlain)
}

func (w *Writer) key(path string) string {
	return w.locator.Prefix + "/" + path
}
