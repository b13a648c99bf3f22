// Package filesystem provides a report writer that stores reports in a local
// directory or any other go-billy filesystem.
//
// It mirrors the S3 writer's layout so that a report tree produced locally
// can be published later without renaming anything. Object metadata (content
// type, encoding, ACL) has no filesystem equivalent and is not persisted.
package filesystem

import (
	"context"
	"log/slog"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/input-output-hk/catalyst-forge-libs/s3report/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/internal/validation"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/s3types"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// Writer writes reports under a prefix of a billy filesystem.
type Writer struct {
	fs     billy.Filesystem
	prefix string
	logger *slog.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the logger used for write diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		w.logger = logger
	}
}

// New creates a Writer over fs that stores reports under prefix.
func New(fs billy.Filesystem, prefix string, opts ...Option) *Writer {
	w := &Writer{
		fs:     fs,
		prefix: prefix,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewOS creates a Writer rooted at the local directory root.
func NewOS(root, prefix string, opts ...Option) *Writer {
	return New(osfs.New(root), prefix, opts...)
}

// NewMemory creates a Writer over an in-memory filesystem.
func NewMemory(prefix string, opts ...Option) *Writer {
	return New(memfs.New(), prefix, opts...)
}

// Filesystem returns the underlying filesystem.
//
//nolint:ireturn // exposes the billy interface for callers that read back.
func (w *Writer) Filesystem() billy.Filesystem {
	return w.fs
}

// WriteBytes stores body at prefix/path, creating parent directories.
// The encoding is not applied; body is written exactly as given.
func (w *Writer) WriteBytes(
	ctx context.Context,
	p string,
	body []byte,
	_ string,
	enc s3types.Encoding,
) error {
	if err := validation.ValidatePath(p); err != nil {
		return errors.NewWriteFailure("validate", p, err)
	}

	name := path.Join(w.prefix, p)

	if dir := path.Dir(name); dir != "." && dir != "/" {
		if err := w.fs.MkdirAll(dir, dirPerm); err != nil {
			return errors.NewWriteFailure("mkdirAll", p, err).WithKey(name)
		}
	}

	if err := util.WriteFile(w.fs, name, body, filePerm); err != nil {
		return errors.NewWriteFailure("writeFile", p, err).WithKey(name)
	}

	if w.logger != nil {
		w.logger.InfoContext(ctx, "report written",
			"root", w.fs.Root(),
			"key", name,
			"size", len(body),
			"encoding", enc.String())
	}
	return nil
}

// WriteString stores text at prefix/path.
func (w *Writer) WriteString(ctx context.Context, p, text, contentType string) error {
	return w.WriteBytes(ctx, p, []byte(text), contentType, s3types.EncodingPlain)
}
