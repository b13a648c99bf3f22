package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/input-output-hk/catalyst-forge-libs/s3report/errors"
)

func TestValidateBucketHost(t *testing.T) {
	tests := []struct {
		name      string
		host      string
		wantError bool
	}{
		// Valid hosts
		{"valid_simple", "bucket-name", false},
		{"valid_with_dots", "my.bucket", false},
		{"valid_with_numbers", "bucket123", false},
		{"valid_short", "b", false},
		{"valid_underscore", "my_bucket", false},
		{"valid_mixed_case", "MyBucket", false},

		// Invalid hosts
		{"empty", "", true},
		{"ipv4", "127.0.0.1", true},
		{"ipv4_leading_zero", "010.0.0.1", true},
		{"ipv6_bracketed", "[::1]", true},
		{"ipv6_bare", "::1", true},
		{"starts_with_dot", ".bucket", true},
		{"ends_with_dot", "bucket.", true},
		{"starts_with_hyphen", "-bucket", true},
		{"ends_with_hyphen", "bucket-", true},
		{"adjacent_dots", "my..bucket", true},
		{"contains_space", "my bucket", true},
		{"contains_colon", "bucket:80", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBucketHost(tt.host)
			if tt.wantError {
				assert.ErrorIs(t, err, errors.ErrInvalidBucketName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantError bool
	}{
		{"simple", "report.json", false},
		{"nested", "logs/crate/1.0.0/log.txt", false},
		{"unicode", "résumé/数据.txt", false},
		{"empty", "", true},
		{"invalid_utf8", string([]byte{0xff, 0xfe}), true},
		{"newline", "a\nb", true},
		{"nul", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantError {
				assert.ErrorIs(t, err, errors.ErrInvalidPath)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
