package s3report

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/s3report/errors"
	"github.com/input-output-hk/catalyst-forge-libs/s3report/internal/validation"
)

// Locator identifies where reports are written: a bucket and a key prefix.
type Locator struct {
	// Bucket is the destination bucket name
	Bucket string

	// Prefix is prepended to every object path, without the leading "/" of
	// the location's path
	Prefix string
}

// String renders the locator as an s3:// URL.
func (l Locator) String() string {
	return fmt.Sprintf("s3://%s/%s", l.Bucket, l.Prefix)
}

// ParseLocation parses a location of the form s3://bucket[/prefix].
//
// The scheme must be s3 and the host must be a domain-style bucket name.
// Credentials, ports, query strings and fragments are rejected, even when
// empty. All rejections are BAD_LOCATION errors. The prefix keeps the path's
// percent-encoding so that String re-parses to the same Locator.
func ParseLocation(s string) (Locator, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Locator{}, errors.NewBadLocation(s, err)
	}

	switch {
	case u.Scheme != "s3":
		return Locator{}, errors.NewBadLocation(s, fmt.Errorf("unsupported scheme %q", u.Scheme))
	case u.Opaque != "":
		return Locator{}, errors.NewBadLocation(s, fmt.Errorf("missing bucket host"))
	case u.User != nil:
		return Locator{}, errors.NewBadLocation(s, fmt.Errorf("credentials are not allowed"))
	case u.Port() != "" || strings.HasSuffix(u.Host, ":"):
		return Locator{}, errors.NewBadLocation(s, fmt.Errorf("port is not allowed"))
	case u.RawQuery != "" || u.ForceQuery:
		return Locator{}, errors.NewBadLocation(s, fmt.Errorf("query is not allowed"))
	case u.Fragment != "" || strings.Contains(s, "#"):
		return Locator{}, errors.NewBadLocation(s, fmt.Errorf("fragment is not allowed"))
	}

	if err := validation.ValidateBucketHost(u.Hostname()); err != nil {
		return Locator{}, errors.NewBadLocation(s, err)
	}

	return Locator{
		Bucket: u.Hostname(),
		Prefix: strings.TrimPrefix(u.EscapedPath(), "/"),
	}, nil
}
