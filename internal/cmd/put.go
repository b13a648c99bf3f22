package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/tomasbasham/cli-runtime/templates"

	"github.com/input-output-hk/catalyst-forge-libs/s3report"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/filesystem"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/s3compat"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/s3types"
)

const (
	backendAWS   = "aws"
	backendMinio = "minio"
)

var (
	putLong = templates.LongDesc(`
		Upload a local file to a report location.

		The object key is the destination prefix followed by --path, which
		defaults to the file's base name. With --gzip the file is compressed
		before upload and tagged with Content-Encoding: gzip. With --local-dir
		the report is written below that directory instead of a bucket.
		Without --content-type the type is detected from the file content,
		before compression when --gzip is set.

		Unset flags fall back to S3REPORT_* environment variables, which may
		also be supplied through --env-file.`)

	putExample = templates.Examples(`
		# Upload to AWS S3 using the default credential chain
		s3report put results.json --dest s3://reports/nightly

		# Upload a compressed log to MinIO
		s3report put build.log --dest s3://reports/ci --gzip \
		    --backend minio --endpoint localhost:9000

		# Write into a local directory
		s3report put results.json --dest s3://reports/nightly --local-dir ./out`)
)

// PutOptions defines the options for the `put` command.
type PutOptions struct {
	File        string
	Dest        string
	Path        string
	ContentType string
	Gzip        bool
	LocalDir    string
	Backend     string
	Region      string
	Endpoint    string
	PathStyle   bool
	Insecure    bool
	KeepFailed  bool

	location s3report.Locator
	body     []byte

	*RootOptions
}

// NewPutOptions provides an initialised PutOptions instance.
func NewPutOptions(root *RootOptions) *PutOptions {
	return &PutOptions{
		Backend:     backendAWS,
		RootOptions: root,
	}
}

// NewPutCommand creates the `put` command.
func NewPutCommand(o *PutOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "put [FILE]",
		DisableFlagsInUseLine: true,
		Short:                 "Upload a report file",
		Long:                  putLong,
		Example:               putExample,
		Args:                  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run()
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&o.Dest, "dest", "d", "", "Destination location, s3://bucket[/prefix] (env S3REPORT_DEST)")
	flags.StringVarP(&o.Path, "path", "p", "", "Object path below the prefix (default: file base name)")
	flags.StringVar(&o.ContentType, "content-type", "", "Content type (default: detected from content)")
	flags.BoolVar(&o.Gzip, "gzip", false, "Compress the file and tag it with Content-Encoding: gzip")
	flags.StringVar(&o.LocalDir, "local-dir", "", "Write below this local directory instead of uploading")
	flags.StringVar(&o.Backend, "backend", o.Backend, "Storage backend: aws or minio (env S3REPORT_BACKEND)")
	flags.StringVar(&o.Region, "region", "", "Region (env S3REPORT_REGION)")
	flags.StringVar(&o.Endpoint, "endpoint", "", "Custom endpoint (env S3REPORT_ENDPOINT)")
	flags.BoolVar(&o.PathStyle, "path-style", false, "Use path-style addressing (aws backend)")
	flags.BoolVar(&o.Insecure, "insecure", false, "Use plain HTTP (minio backend)")
	flags.BoolVar(&o.KeepFailed, "keep-failed", false, "Do not abort failed multipart uploads")

	return cmd
}

// Complete fills unset flags from the environment and reads the input file.
func (o *PutOptions) Complete(cmd *cobra.Command, args []string) error {
	o.File = args[0]

	flags := cmd.Flags()
	o.Dest = fromEnv(flags.Changed("dest"), o.Dest, "S3REPORT_DEST")
	o.Backend = fromEnv(flags.Changed("backend"), o.Backend, "S3REPORT_BACKEND")
	o.Region = fromEnv(flags.Changed("region"), o.Region, "S3REPORT_REGION")
	o.Endpoint = fromEnv(flags.Changed("endpoint"), o.Endpoint, "S3REPORT_ENDPOINT")

	if o.Path == "" {
		o.Path = filepath.Base(o.File)
	}

	abs, err := filepath.Abs(o.File)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", o.File, err)
	}
	body, err := util.ReadFile(osfs.New(filepath.Dir(abs)), filepath.Base(abs))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", o.File, err)
	}

	if o.Gzip {
		if o.ContentType == "" {
			o.ContentType = mimetype.Detect(body).String()
		}
		if body, err = compress(body); err != nil {
			return err
		}
	}
	o.body = body

	return nil
}

// Validate checks the destination and backend.
func (o *PutOptions) Validate() error {
	if o.Dest == "" {
		return fmt.Errorf("--dest is required")
	}

	loc, err := s3report.ParseLocation(o.Dest)
	if err != nil {
		return err
	}
	o.location = loc

	switch o.Backend {
	case backendAWS:
	case backendMinio:
		if o.Endpoint == "" && o.LocalDir == "" {
			return fmt.Errorf("--endpoint is required for the minio backend")
		}
	default:
		return fmt.Errorf("unknown backend %q", o.Backend)
	}

	return nil
}

// Run uploads the file.
func (o *PutOptions) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	writer, err := o.writer(ctx)
	if err != nil {
		return err
	}

	encoding := s3types.EncodingPlain
	if o.Gzip {
		encoding = s3types.EncodingGzip
	}

	if err := writer.WriteBytes(ctx, o.Path, o.body, o.ContentType, encoding); err != nil {
		return err
	}

	fmt.Fprintf(o.Out, "wrote %s (%d bytes)\n", o.target(), len(o.body))
	return nil
}

func (o *PutOptions) target() string {
	if o.LocalDir != "" {
		return filepath.Join(o.LocalDir, o.location.Prefix, o.Path)
	}
	return fmt.Sprintf("s3://%s/%s/%s", o.location.Bucket, o.location.Prefix, o.Path)
}

//nolint:ireturn // the backend is chosen at runtime.
func (o *PutOptions) writer(ctx context.Context) (s3report.ReportWriter, error) {
	logger := o.Logger()

	if o.LocalDir != "" {
		return filesystem.NewOS(o.LocalDir, o.location.Prefix, filesystem.WithLogger(logger)), nil
	}

	opts := []s3types.Option{
		s3report.WithLogger(logger),
		s3report.WithAbortOnFailure(!o.KeepFailed),
		s3report.WithContentTypeDetection(true),
	}

	if o.storageClient != nil {
		return s3report.NewWithClient(o.storageClient, o.location.Bucket, o.location.Prefix, opts...), nil
	}

	if o.Backend == backendMinio {
		client, err := s3compat.New(s3compat.Config{
			Endpoint:     o.Endpoint,
			AccessKey:    os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey:    os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken: os.Getenv("AWS_SESSION_TOKEN"),
			Region:       o.Region,
			Secure:       !o.Insecure,
		})
		if err != nil {
			return nil, err
		}
		return s3report.NewWithClient(client, o.location.Bucket, o.location.Prefix, opts...), nil
	}

	if o.Region != "" {
		opts = append(opts, s3report.WithRegion(o.Region))
	}
	if o.Endpoint != "" {
		opts = append(opts, s3report.WithEndpoint(o.Endpoint))
	}
	opts = append(opts, s3report.WithForcePathStyle(o.PathStyle))

	return s3report.New(ctx, o.location.Bucket, o.location.Prefix, opts...)
}

func fromEnv(changed bool, value, key string) string {
	if changed {
		return value
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return value
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	return buf.Bytes(), nil
}
