package errors

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Error represents a report storage failure with the context of what failed.
// It wraps the underlying cause, typically an AWS SDK error.
type Error struct {
	// Kind is the failure class.
	Kind Kind

	// Op is the step that failed (e.g., "parse", "putObject", "uploadPart").
	Op string

	// Input is the offending location string (BadLocation only).
	Input string

	// Path is the caller-supplied object path (WriteFailure only).
	Path string

	// Bucket is the target bucket (if applicable)
	Bucket string

	// Key is the full object key (if applicable)
	Key string

	// Part is the multipart part number that failed, zero otherwise.
	Part int32

	// Err is the underlying cause
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindBadLocation:
		if e.Err != nil {
			return fmt.Sprintf("bad S3 url %q: %v", e.Input, e.Err)
		}
		return fmt.Sprintf("bad S3 url %q", e.Input)
	default:
		target := e.Path
		if e.Bucket != "" && e.Key != "" {
			target = fmt.Sprintf("%s (s3://%s/%s)", e.Path, e.Bucket, e.Key)
		}
		if e.Part > 0 {
			return fmt.Sprintf("failed to upload to %q: s3.%s part %d: %v", target, e.Op, e.Part, e.Err)
		}
		return fmt.Sprintf("failed to upload to %q: s3.%s: %v", target, e.Op, e.Err)
	}
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind, so callers can
// branch with errors.Is(err, ErrBadLocation) or errors.Is(err, ErrWriteFailure).
func (e *Error) Is(target error) bool {
	switch target {
	case ErrBadLocation:
		return e.Kind == KindBadLocation
	case ErrWriteFailure:
		return e.Kind == KindWriteFailure
	}
	return false
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithPart records the part number a multipart step failed on.
func (e *Error) WithPart(part int32) *Error {
	e.Part = part
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	if e.Err == nil {
		e.Err = errors.New(message)
		return e
	}
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewBadLocation creates a BadLocation error for the given input string.
// cause may be nil when the input parsed but violated a constraint.
func NewBadLocation(input string, cause error) *Error {
	return &Error{
		Kind:  KindBadLocation,
		Op:    "parse",
		Input: input,
		Err:   cause,
	}
}

// NewWriteFailure creates a WriteFailure for the object written at path.
func NewWriteFailure(op, path string, err error) *Error {
	return &Error{
		Kind: KindWriteFailure,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// Sentinel errors. The kind sentinels match any *Error of that kind; the rest
// are causes wrapped inside an *Error.
var (
	// ErrBadLocation matches every KindBadLocation error
	ErrBadLocation = errors.New("s3: bad location")

	// ErrWriteFailure matches every KindWriteFailure error
	ErrWriteFailure = errors.New("s3: write failure")

	// ErrInvalidPath indicates the object path is empty or not valid text
	ErrInvalidPath = errors.New("s3: invalid object path")

	// ErrInvalidBucketName indicates the bucket host is not a valid DNS name
	ErrInvalidBucketName = errors.New("s3: invalid bucket name")

	// ErrMissingUploadID indicates the service accepted a multipart initiate
	// but returned no upload id
	ErrMissingUploadID = errors.New("s3: multipart upload id missing from response")

	// ErrMissingETag indicates the service accepted a part but returned no ETag
	ErrMissingETag = errors.New("s3: part ETag missing from response")
)

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsBadLocation checks if an error is a BadLocation failure.
func IsBadLocation(err error) bool {
	return errors.Is(err, ErrBadLocation)
}

// IsWriteFailure checks if an error is a WriteFailure.
func IsWriteFailure(err error) bool {
	return errors.Is(err, ErrWriteFailure)
}

// APICode returns the service error code (e.g. "AccessDenied", "NoSuchBucket")
// when err wraps a smithy API error, and "" otherwise.
func APICode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
