// Package testutil provides test utilities and mocks for report storage.
// This package is internal and should only be used for testing within the module.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/input-output-hk/catalyst-forge-libs/s3report/internal/s3api"
)

// Operation names recorded by MockS3Client.
const (
	OpPutObject               = "PutObject"
	OpCreateMultipartUpload   = "CreateMultipartUpload"
	OpUploadPart              = "UploadPart"
	OpCompleteMultipartUpload = "CompleteMultipartUpload"
	OpAbortMultipartUpload    = "AbortMultipartUpload"
)

// Call is one recorded invocation of the mock.
type Call struct {
	Op              string
	Bucket          string
	Key             string
	UploadID        string
	ACL             string
	ContentType     string
	ContentEncoding string
	PartNumber      int32
	Size            int
	Body            []byte

	// CompletedParts lists part numbers in the order sent on completion
	CompletedParts []int32
}

// MockS3Client is a mock implementation of the ObjectAPI interface for testing.
// Each operation can be customised through its function field; unset fields
// succeed with deterministic identifiers. Every call is recorded and the mock
// is safe for concurrent use.
type MockS3Client struct {
	PutObjectFunc               func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CreateMultipartUploadFunc   func(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error)
	UploadPartFunc              func(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error)
	CompleteMultipartUploadFunc func(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error)
	AbortMultipartUploadFunc    func(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error)

	// KeepBodies stores payload bytes in recorded calls
	KeepBodies bool

	mu    sync.Mutex
	calls []Call
}

// PutObject mocks the S3 PutObject operation.
func (m *MockS3Client) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	body := m.drain(&params.Body)
	m.record(Call{
		Op:              OpPutObject,
		Bucket:          aws.ToString(params.Bucket),
		Key:             aws.ToString(params.Key),
		ACL:             string(params.ACL),
		ContentType:     aws.ToString(params.ContentType),
		ContentEncoding: aws.ToString(params.ContentEncoding),
		Size:            len(body),
		Body:            m.keep(body),
	})
	if m.PutObjectFunc != nil {
		return m.PutObjectFunc(ctx, params, optFns...)
	}
	return &s3.PutObjectOutput{ETag: aws.String(`"put-etag"`)}, nil
}

// CreateMultipartUpload mocks the S3 CreateMultipartUpload operation.
func (m *MockS3Client) CreateMultipartUpload(
	ctx context.Context,
	params *s3.CreateMultipartUploadInput,
	optFns ...func(*s3.Options),
) (*s3.CreateMultipartUploadOutput, error) {
	m.record(Call{
		Op:              OpCreateMultipartUpload,
		Bucket:          aws.ToString(params.Bucket),
		Key:             aws.ToString(params.Key),
		ACL:             string(params.ACL),
		ContentType:     aws.ToString(params.ContentType),
		ContentEncoding: aws.ToString(params.ContentEncoding),
	})
	if m.CreateMultipartUploadFunc != nil {
		return m.CreateMultipartUploadFunc(ctx, params, optFns...)
	}
	return &s3.CreateMultipartUploadOutput{
		Bucket:   params.Bucket,
		Key:      params.Key,
		UploadId: aws.String("mock-upload-id"),
	}, nil
}

// UploadPart mocks the S3 UploadPart operation.
func (m *MockS3Client) UploadPart(
	ctx context.Context,
	params *s3.UploadPartInput,
	optFns ...func(*s3.Options),
) (*s3.UploadPartOutput, error) {
	body := m.drain(&params.Body)
	m.record(Call{
		Op:         OpUploadPart,
		Bucket:     aws.ToString(params.Bucket),
		Key:        aws.ToString(params.Key),
		UploadID:   aws.ToString(params.UploadId),
		PartNumber: aws.ToInt32(params.PartNumber),
		Size:       len(body),
		Body:       m.keep(body),
	})
	if m.UploadPartFunc != nil {
		return m.UploadPartFunc(ctx, params, optFns...)
	}
	return &s3.UploadPartOutput{
		ETag: aws.String(PartETag(aws.ToInt32(params.PartNumber))),
	}, nil
}

// CompleteMultipartUpload mocks the S3 CompleteMultipartUpload operation.
func (m *MockS3Client) CompleteMultipartUpload(
	ctx context.Context,
	params *s3.CompleteMultipartUploadInput,
	optFns ...func(*s3.Options),
) (*s3.CompleteMultipartUploadOutput, error) {
	var parts []int32
	if params.MultipartUpload != nil {
		for _, p := range params.MultipartUpload.Parts {
			parts = append(parts, aws.ToInt32(p.PartNumber))
		}
	}
	m.record(Call{
		Op:             OpCompleteMultipartUpload,
		Bucket:         aws.ToString(params.Bucket),
		Key:            aws.ToString(params.Key),
		UploadID:       aws.ToString(params.UploadId),
		CompletedParts: parts,
	})
	if m.CompleteMultipartUploadFunc != nil {
		return m.CompleteMultipartUploadFunc(ctx, params, optFns...)
	}
	return &s3.CompleteMultipartUploadOutput{
		Bucket: params.Bucket,
		Key:    params.Key,
		ETag:   aws.String(`"complete-etag"`),
	}, nil
}

// AbortMultipartUpload mocks the S3 AbortMultipartUpload operation.
func (m *MockS3Client) AbortMultipartUpload(
	ctx context.Context,
	params *s3.AbortMultipartUploadInput,
	optFns ...func(*s3.Options),
) (*s3.AbortMultipartUploadOutput, error) {
	m.record(Call{
		Op:       OpAbortMultipartUpload,
		Bucket:   aws.ToString(params.Bucket),
		Key:      aws.ToString(params.Key),
		UploadID: aws.ToString(params.UploadId),
	})
	if m.AbortMultipartUploadFunc != nil {
		return m.AbortMultipartUploadFunc(ctx, params, optFns...)
	}
	return &s3.AbortMultipartUploadOutput{}, nil
}

// Calls returns a copy of every recorded call in invocation order.
func (m *MockS3Client) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsFor returns the recorded calls of one operation.
func (m *MockS3Client) CallsFor(op string) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many times op was invoked.
func (m *MockS3Client) Count(op string) int {
	return len(m.CallsFor(op))
}

// Ops returns the operation names in invocation order.
func (m *MockS3Client) Ops() []string {
	calls := m.Calls()
	ops := make([]string, len(calls))
	for i, c := range calls {
		ops[i] = c.Op
	}
	return ops
}

// PartETag is the ETag the mock returns for a part by default.
func PartETag(partNumber int32) string {
	return fmt.Sprintf(`"etag-%d"`, partNumber)
}

func (m *MockS3Client) record(c Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

func (m *MockS3Client) keep(body []byte) []byte {
	if m.KeepBodies {
		return body
	}
	return nil
}

// drain reads the request body and replaces it so custom funcs can read it again.
func (m *MockS3Client) drain(body *io.Reader) []byte {
	if *body == nil {
		return nil
	}
	data, err := io.ReadAll(*body)
	if err != nil {
		return nil
	}
	*body = bytes.NewReader(data)
	return data
}

// Ensure MockS3Client implements s3api.ObjectAPI interface
var _ s3api.ObjectAPI = (*MockS3Client)(nil)
