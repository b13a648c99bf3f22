// Package errors provides the error taxonomy for report storage operations.
// Every failure surfaced by this module is an *Error carrying one of a closed
// set of kinds plus the structured context needed to act on it.
package errors

// Kind identifies the class of failure an *Error represents.
// Kinds are string-based for debuggability and natural log output.
type Kind string

const (
	// KindBadLocation indicates a storage-location string failed to parse or
	// violated one of the locator constraints.
	KindBadLocation Kind = "BAD_LOCATION"

	// KindWriteFailure indicates that writing an object failed, either during
	// input validation or in a call to the storage service.
	KindWriteFailure Kind = "WRITE_FAILURE"
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}
