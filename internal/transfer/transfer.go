// Package transfer holds the per-write request model and the strategy
// selection shared by the upload operations.
//
// A write is either a single PutObject or a multipart upload. The choice is
// made once per call from the payload size and carried as a Strategy value,
// so the operations themselves never look at the threshold.
package transfer

import (
	"github.com/input-output-hk/catalyst-forge-libs/s3report/s3types"
)

const (
	// MultipartThreshold is the payload size at and above which a multipart
	// upload is used.
	MultipartThreshold = 50 * 1024 * 1024

	// PartSize is the size of every multipart chunk except possibly the last.
	PartSize = 20 * 1024 * 1024
)

// Strategy is the upload method chosen for one write.
type Strategy int

const (
	// SinglePut sends the whole body in one PutObject call.
	SinglePut Strategy = iota

	// Multipart sends the body as sequential parts bounded by an
	// initiate/complete pair.
	Multipart
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case Multipart:
		return "multipart"
	default:
		return "single-put"
	}
}

// SelectStrategy picks the upload method for a payload of size bytes given a
// threshold. Payloads of exactly threshold bytes use Multipart.
func SelectStrategy(size, threshold int) Strategy {
	if size >= threshold {
		return Multipart
	}
	return SinglePut
}

// Object is one write request. It exists for the duration of a single
// WriteBytes call.
type Object struct {
	// Bucket is the destination bucket
	Bucket string

	// Key is the full object key
	Key string

	// Path is the caller-supplied path, kept for error context
	Path string

	// Body is the payload; it may be empty
	Body []byte

	// ContentType is the MIME type stored with the object
	ContentType string

	// Encoding decides whether Content-Encoding is set
	Encoding s3types.Encoding

	// ACL is the canned ACL applied at creation
	ACL s3types.ObjectACL
}

// Size returns the payload length.
func (o *Object) Size() int {
	return len(o.Body)
}

// Chunk is one contiguous slice of a payload destined for a multipart part.
type Chunk struct {
	// PartNumber starts at 1 and increases by 1 per chunk
	PartNumber int32

	// Data aliases the payload; it is never copied
	Data []byte
}

// SplitChunks partitions body into consecutive chunks of partSize bytes. The
// last chunk holds the remainder and is never empty. An empty body yields no
// chunks.
func SplitChunks(body []byte, partSize int) []Chunk {
	if partSize <= 0 {
		partSize = PartSize
	}

	chunks := make([]Chunk, 0, (len(body)+partSize-1)/partSize)
	part := int32(1)
	for start := 0; start < len(body); start += partSize {
		end := min(start+partSize, len(body))
		chunks = append(chunks, Chunk{PartNumber: part, Data: body[start:end]})
		part++
	}
	return chunks
}
