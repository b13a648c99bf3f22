//go:build integration
// +build integration

package s3report_test

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/s3report"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/internal/testutil"
)

func TestIntegrationWriteReports(t *testing.T) {
	ctx := context.Background()
	ls := testutil.StartLocalStack(t)
	s3Client := ls.Client
	bucketName := ls.CreateBucket(ctx, t, "reports")

	w, err := s3report.NewFromLocation(ctx, "s3://"+bucketName+"/nightly",
		s3report.WithAWSConfig(&ls.Config),
		s3report.WithEndpoint(ls.Endpoint),
		s3report.WithForcePathStyle(true),
	)
	require.NoError(t, err)

	tests := []struct {
		name         string
		path         string
		body         []byte
		encoding     s3report.Encoding
		wantEncoding string
	}{
		{"small plain", "small.json", []byte(`{"ok":true}`), s3report.EncodingPlain, ""},
		{"small gzip", "small.json.gz", testutil.GenerateRandomData(1024), s3report.EncodingGzip, "gzip"},
		{"multipart plain", "large.bin", testutil.GenerateData(55 * testutil.MiB), s3report.EncodingPlain, ""},
		{"multipart gzip", "large.bin.gz", testutil.GenerateData(50 * testutil.MiB), s3report.EncodingGzip, "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, w.WriteBytes(ctx, tt.path, tt.body, "application/octet-stream", tt.encoding))

			key := "nightly/" + tt.path
			out, err := s3Client.GetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(bucketName),
				Key:    aws.String(key),
			})
			require.NoError(t, err)
			defer out.Body.Close()

			got, err := io.ReadAll(out.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.body, got)
			assert.Equal(t, "application/octet-stream", aws.ToString(out.ContentType))
			assert.Equal(t, tt.wantEncoding, aws.ToString(out.ContentEncoding))

			acl, err := s3Client.GetObjectAcl(ctx, &s3.GetObjectAclInput{
				Bucket: aws.String(bucketName),
				Key:    aws.String(key),
			})
			require.NoError(t, err)
			assert.True(t, hasPublicRead(acl.Grants))
		})
	}

	t.Run("missing bucket", func(t *testing.T) {
		missing := s3report.NewWithClient(s3Client, testutil.GenerateTestBucketName("missing"), "nightly")
		err := missing.WriteString(ctx, "a.txt", "x", "text/plain")
		require.Error(t, err)
		assert.True(t, errors.IsWriteFailure(err))
		assert.Equal(t, "NoSuchBucket", errors.APICode(err))
	})
}

func hasPublicRead(grants []awstypes.Grant) bool {
	for _, g := range grants {
		if g.Grantee == nil || g.Permission != awstypes.PermissionRead {
			continue
		}
		if aws.ToString(g.Grantee.URI) == "http://acs.amazonaws.com/groups/global/AllUsers" {
			return true
		}
	}
	return false
}
