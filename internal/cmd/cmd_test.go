package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomasbasham/cli-runtime/iooption"

	"github.com/input-output-hk/catalyst-forge-libs/s3report"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithClient(t, nil, args...)
}

func executeWithClient(t *testing.T, client s3report.StorageClient, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	o := NewRootOptions(iooption.IOStreams{
		In:     &bytes.Buffer{},
		Out:    &out,
		ErrOut: &errOut,
	})
	o.storageClient = client

	cmd := NewRootCommandWithArgs(o)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLocateCommand(t *testing.T) {
	out, err := execute(t, "locate", "s3://reports/nightly")
	require.NoError(t, err)
	assert.Equal(t, "s3://reports/nightly\nbucket: reports\nprefix: nightly\n", out)
}

func TestLocateCommand_Rejects(t *testing.T) {
	_, err := execute(t, "locate", "s3://reports:9000/nightly")
	require.Error(t, err)
	assert.True(t, errors.IsBadLocation(err))
}

func TestPutCommand_LocalDir(t *testing.T) {
	t.Setenv("S3REPORT_DEST", "")
	input := writeInput(t, `{"ok":true}`)
	dir := t.TempDir()

	out, err := execute(t, "put", input, "--dest", "s3://reports/nightly", "--local-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "nightly", "report.json"))

	got, err := os.ReadFile(filepath.Join(dir, "nightly", "report.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(got))
}

func TestPutCommand_LocalDirGzip(t *testing.T) {
	input := writeInput(t, "line one\nline two\n")
	dir := t.TempDir()

	_, err := execute(t, "put", input,
		"--dest", "s3://reports/ci",
		"--path", "logs/build.log.gz",
		"--gzip",
		"--local-dir", dir)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "ci", "logs", "build.log.gz"))
	require.NoError(t, err)
	defer f.Close()

	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(got))
}

func TestPutCommand_ContentType(t *testing.T) {
	t.Setenv("S3REPORT_DEST", "")
	t.Setenv("S3REPORT_BACKEND", "")

	tests := []struct {
		name         string
		args         []string
		wantType     string
		wantEncoding string
	}{
		{
			name:     "detected from plain file",
			wantType: "application/json",
		},
		{
			name:         "gzip detects before compressing",
			args:         []string{"--gzip"},
			wantType:     "application/json",
			wantEncoding: "gzip",
		},
		{
			name:         "gzip keeps explicit type",
			args:         []string{"--gzip", "--content-type", "text/plain"},
			wantType:     "text/plain",
			wantEncoding: "gzip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := writeInput(t, `{"status":"ok"}`)
			mock := testutil.NewMockBuilder().KeepBodies().Build()

			args := append([]string{"put", input, "--dest", "s3://reports/nightly"}, tt.args...)
			out, err := executeWithClient(t, mock, args...)
			require.NoError(t, err)
			assert.Contains(t, out, "s3://reports/nightly/report.json")

			puts := mock.CallsFor(testutil.OpPutObject)
			require.Len(t, puts, 1)
			assert.Equal(t, "nightly/report.json", puts[0].Key)
			assert.Equal(t, tt.wantType, puts[0].ContentType)
			assert.Equal(t, tt.wantEncoding, puts[0].ContentEncoding)
		})
	}
}

func TestPutCommand_DestFromEnv(t *testing.T) {
	t.Setenv("S3REPORT_DEST", "s3://from-env/prefix")
	input := writeInput(t, "x")
	dir := t.TempDir()

	_, err := execute(t, "put", input, "--local-dir", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "prefix", "report.json"))
}

func TestPutCommand_Errors(t *testing.T) {
	t.Setenv("S3REPORT_DEST", "")
	t.Setenv("S3REPORT_BACKEND", "")
	t.Setenv("S3REPORT_ENDPOINT", "")
	input := writeInput(t, "x")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing dest", []string{"put", input}, "--dest is required"},
		{"bad dest", []string{"put", input, "--dest", "https://reports"}, "bad S3 url"},
		{"unknown backend", []string{"put", input, "--dest", "s3://reports", "--backend", "gcs"}, "unknown backend"},
		{"minio without endpoint", []string{"put", input, "--dest", "s3://reports", "--backend", "minio"}, "--endpoint is required"},
		{"missing file", []string{"put", filepath.Join(t.TempDir(), "nope"), "--dest", "s3://reports"}, "failed to read"},
		{"bad log level", []string{"--log-level", "loud", "locate", "s3://reports"}, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCompress(t *testing.T) {
	data := bytes.Repeat([]byte("report "), 100)
	compressed, err := compress(data)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(data))

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	require.NoError(t, err)
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}
