// Package s3report writes generated reports to Amazon S3.
//
// A Writer is bound to one bucket and key prefix, usually obtained from an
// s3:// location string:
//
//	loc, err := s3report.ParseLocation("s3://reports-bucket/nightly")
//	if err != nil {
//	    return err
//	}
//
//	w, err := s3report.New(ctx, loc.Bucket, loc.Prefix)
//	if err != nil {
//	    return err
//	}
//
//	err = w.WriteString(ctx, "summary.json", body, "application/json")
//
// Every object is written with the public-read canned ACL under the key
// "{prefix}/{path}". Payloads of 50 MiB or more are sent as a multipart upload
// in 20 MiB parts, one part at a time; smaller payloads use a single PutObject.
// Failures are reported as *errors.Error values of kind BAD_LOCATION or
// WRITE_FAILURE and are never retried.
package s3report
