package s3report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/s3report/errors"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Locator
	}{
		{
			name:  "bucket only",
			input: "s3://bucket-name",
			want:  Locator{Bucket: "bucket-name"},
		},
		{
			name:  "bucket with slash",
			input: "s3://bucket-name/",
			want:  Locator{Bucket: "bucket-name"},
		},
		{
			name:  "bucket with prefix",
			input: "s3://bucket-name/path/prefix",
			want:  Locator{Bucket: "bucket-name", Prefix: "path/prefix"},
		},
		{
			name:  "dotted bucket",
			input: "s3://reports.example.com/nightly/",
			want:  Locator{Bucket: "reports.example.com", Prefix: "nightly/"},
		},
		{
			name:  "escaped percent",
			input: "s3://bucket/a%25b",
			want:  Locator{Bucket: "bucket", Prefix: "a%25b"},
		},
		{
			name:  "escaped question mark",
			input: "s3://bucket/a%3Fq",
			want:  Locator{Bucket: "bucket", Prefix: "a%3Fq"},
		},
		{
			name:  "escaped hash",
			input: "s3://bucket/a%23f",
			want:  Locator{Bucket: "bucket", Prefix: "a%23f"},
		},
		{
			name:  "uppercase scheme",
			input: "S3://bucket/x",
			want:  Locator{Bucket: "bucket", Prefix: "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocation(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLocation_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"https scheme", "https://bucket/prefix"},
		{"no scheme", "bucket/prefix"},
		{"opaque", "s3:bucket/prefix"},
		{"missing host", "s3:///prefix"},
		{"username", "s3://user@bucket/prefix"},
		{"username and password", "s3://user:pass@bucket/prefix"},
		{"port", "s3://bucket:9000/prefix"},
		{"empty port", "s3://bucket:/prefix"},
		{"query", "s3://bucket/prefix?versionId=1"},
		{"empty query", "s3://bucket/prefix?"},
		{"fragment", "s3://bucket/prefix#part"},
		{"empty fragment", "s3://bucket/prefix#"},
		{"ipv4 host", "s3://192.168.1.10/prefix"},
		{"ipv6 host", "s3://[::1]/prefix"},
		{"leading dot", "s3://.bucket/prefix"},
		{"double dot", "s3://bad..bucket/prefix"},
		{"bad character", "s3://bad_bucket!/prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocation(tt.input)
			require.Error(t, err)
			assert.Equal(t, Locator{}, got)
			assert.True(t, errors.IsBadLocation(err))
			assert.False(t, errors.IsWriteFailure(err))
			assert.Contains(t, err.Error(), "bad S3 url")
		})
	}
}

func TestLocator_String(t *testing.T) {
	assert.Equal(t, "s3://bucket/", Locator{Bucket: "bucket"}.String())
	assert.Equal(t, "s3://bucket/a/b", Locator{Bucket: "bucket", Prefix: "a/b"}.String())
}

func TestLocator_RoundTrip(t *testing.T) {
	locators := []Locator{
		{Bucket: "bucket"},
		{Bucket: "bucket", Prefix: "reports"},
		{Bucket: "my.bucket-1", Prefix: "a/b/c/"},
		{Bucket: "bucket", Prefix: "a%25b"},
		{Bucket: "bucket", Prefix: "a%3Fq"},
		{Bucket: "bucket", Prefix: "a%23f"},
	}

	for _, loc := range locators {
		t.Run(loc.String(), func(t *testing.T) {
			got, err := ParseLocation(loc.String())
			require.NoError(t, err)
			assert.Equal(t, loc, got)
		})
	}
}

func TestParseLocation_RenderRoundTrip(t *testing.T) {
	inputs := []string{
		"s3://bucket",
		"s3://bucket/reports/2024",
		"s3://bucket/a%25b",
		"s3://bucket/a%3Fq",
		"s3://bucket/a%23f",
		"s3://bucket/a%20b/c",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			loc, err := ParseLocation(input)
			require.NoError(t, err)

			again, err := ParseLocation(loc.String())
			require.NoError(t, err)
			assert.Equal(t, loc, again)
		})
	}
}
