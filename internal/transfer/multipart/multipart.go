// Package multipart runs the multipart upload state machine for large report
// objects: initiate, upload parts strictly in sequence, then complete.
//
// Parts are never uploaded concurrently. The first failure stops the upload;
// remaining parts are not attempted and no completion request is sent.
package multipart

import (
	"bytes"
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/input-output-hk/catalyst-forge-libs/s3report/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/internal/transfer"
)

// State is the lifecycle position of a multipart session.
type State int

const (
	// StateInitiated means the service assigned an upload id.
	StateInitiated State = iota + 1

	// StateUploading means at least one part upload has been attempted.
	StateUploading

	// StateCompleted means the completion request succeeded. Terminal.
	StateCompleted

	// StateFailed means a step failed. Terminal.
	StateFailed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateInitiated:
		return "initiated"
	case StateUploading:
		return "uploading"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is one multipart upload. It is owned by a single Upload call and
// never shared.
type Session struct {
	// UploadID is the service-assigned session token
	UploadID string

	// Key is the final object key
	Key string

	// Parts holds one entry per successful part, in upload order
	Parts []awstypes.CompletedPart

	state State
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Config controls an Uploader.
type Config struct {
	// PartSize is the chunk size; zero means transfer.PartSize
	PartSize int

	// AbortOnFailure issues a best-effort AbortMultipartUpload when a step
	// after initiate fails
	AbortOnFailure bool

	// Logger receives debug and error records; nil disables logging
	Logger *slog.Logger
}

// Uploader handles multipart upload operations
type Uploader struct {
	s3Client       s3api.ObjectAPI
	partSize       int
	abortOnFailure bool
	logger         *slog.Logger
}

// NewUploader creates a new multipart uploader
func NewUploader(s3Client s3api.ObjectAPI, cfg Config) *Uploader {
	partSize := cfg.PartSize
	if partSize <= 0 {
		partSize = transfer.PartSize
	}
	return &Uploader{
		s3Client:       s3Client,
		partSize:       partSize,
		abortOnFailure: cfg.AbortOnFailure,
		logger:         cfg.Logger,
	}
}

// Upload writes obj as a multipart upload. The returned session is nil only
// when the initiate step failed; otherwise it reflects the final state.
func (u *Uploader) Upload(ctx context.Context, obj *transfer.Object) (*Session, error) {
	session, err := u.Initiate(ctx, obj)
	if err != nil {
		return nil, err
	}

	if err := u.UploadParts(ctx, obj, session); err != nil {
		u.fail(ctx, obj, session)
		return session, err
	}

	if err := u.Complete(ctx, obj, session); err != nil {
		u.fail(ctx, obj, session)
		return session, err
	}

	return session, nil
}

// Initiate requests a new upload session carrying the object's metadata.
func (u *Uploader) Initiate(ctx context.Context, obj *transfer.Object) (*Session, error) {
	input := &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(obj.Bucket),
		Key:         aws.String(obj.Key),
		ContentType: aws.String(obj.ContentType),
		ACL:         awstypes.ObjectCannedACL(obj.ACL),
	}
	if enc := obj.Encoding.ContentEncoding(); enc != "" {
		input.ContentEncoding = aws.String(enc)
	}

	output, err := u.s3Client.CreateMultipartUpload(ctx, input)
	if err != nil {
		return nil, u.writeFailure("createMultipartUpload", obj, err)
	}

	uploadID := aws.ToString(output.UploadId)
	if uploadID == "" {
		return nil, u.writeFailure("createMultipartUpload", obj, errors.ErrMissingUploadID)
	}

	key := aws.ToString(output.Key)
	if key == "" {
		key = obj.Key
	}

	if u.logger != nil {
		u.logger.DebugContext(ctx, "multipart upload initiated",
			"bucket", obj.Bucket,
			"key", key,
			"upload_id", uploadID,
			"size", obj.Size())
	}

	return &Session{
		UploadID: uploadID,
		Key:      key,
		state:    StateInitiated,
	}, nil
}

// UploadParts uploads the object's chunks one at a time, appending each
// returned ETag to the session. It stops at the first failure.
func (u *Uploader) UploadParts(ctx context.Context, obj *transfer.Object, session *Session) error {
	chunks := transfer.SplitChunks(obj.Body, u.partSize)
	if len(chunks) == 0 {
		// S3 refuses to complete an upload with no parts
		chunks = []transfer.Chunk{{PartNumber: 1, Data: obj.Body}}
	}

	session.state = StateUploading
	session.Parts = make([]awstypes.CompletedPart, 0, len(chunks))

	for _, chunk := range chunks {
		etag, err := u.uploadPart(ctx, obj, session, chunk)
		if err != nil {
			return err
		}
		session.Parts = append(session.Parts, awstypes.CompletedPart{
			ETag:       aws.String(etag),
			PartNumber: aws.Int32(chunk.PartNumber),
		})
	}

	return nil
}

// uploadPart uploads a single part and returns its ETag
func (u *Uploader) uploadPart(
	ctx context.Context,
	obj *transfer.Object,
	session *Session,
	chunk transfer.Chunk,
) (string, error) {
	input := &s3.UploadPartInput{
		Bucket:        aws.String(obj.Bucket),
		Key:           aws.String(session.Key),
		UploadId:      aws.String(session.UploadID),
		PartNumber:    aws.Int32(chunk.PartNumber),
		Body:          bytes.NewReader(chunk.Data),
		ContentLength: aws.Int64(int64(len(chunk.Data))),
	}

	output, err := u.s3Client.UploadPart(ctx, input)
	if err != nil {
		return "", u.writeFailure("uploadPart", obj, err).WithKey(session.Key).WithPart(chunk.PartNumber)
	}

	etag := aws.ToString(output.ETag)
	if etag == "" {
		return "", u.writeFailure("uploadPart", obj, errors.ErrMissingETag).
			WithKey(session.Key).
			WithPart(chunk.PartNumber)
	}

	if u.logger != nil {
		u.logger.DebugContext(ctx, "part uploaded",
			"key", session.Key,
			"part", chunk.PartNumber,
			"size", len(chunk.Data))
	}

	return etag, nil
}

// Complete asks the service to assemble the uploaded parts, listed in
// ascending part-number order.
func (u *Uploader) Complete(ctx context.Context, obj *transfer.Object, session *Session) error {
	parts := slices.Clone(session.Parts)
	slices.SortFunc(parts, func(a, b awstypes.CompletedPart) int {
		return cmp.Compare(aws.ToInt32(a.PartNumber), aws.ToInt32(b.PartNumber))
	})

	input := &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(obj.Bucket),
		Key:      aws.String(session.Key),
		UploadId: aws.String(session.UploadID),
		MultipartUpload: &awstypes.CompletedMultipartUpload{
			Parts: parts,
		},
	}

	if _, err := u.s3Client.CompleteMultipartUpload(ctx, input); err != nil {
		return u.writeFailure("completeMultipartUpload", obj, err).WithKey(session.Key)
	}

	session.state = StateCompleted
	return nil
}

// fail marks the session failed and, when configured, aborts it server-side.
func (u *Uploader) fail(ctx context.Context, obj *transfer.Object, session *Session) {
	session.state = StateFailed
	if !u.abortOnFailure {
		return
	}

	input := &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(obj.Bucket),
		Key:      aws.String(session.Key),
		UploadId: aws.String(session.UploadID),
	}
	// The write already failed; the abort must run even if ctx was cancelled
	if _, err := u.s3Client.AbortMultipartUpload(context.WithoutCancel(ctx), input); err != nil && u.logger != nil {
		u.logger.ErrorContext(ctx, "failed to abort multipart upload",
			"bucket", obj.Bucket,
			"key", session.Key,
			"upload_id", session.UploadID,
			"error", err)
	}
}

func (u *Uploader) writeFailure(op string, obj *transfer.Object, err error) *errors.Error {
	return errors.NewWriteFailure(op, obj.Path, err).WithBucket(obj.Bucket).WithKey(obj.Key)
}
