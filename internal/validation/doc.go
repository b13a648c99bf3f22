// Package validation provides input validation for report writes.
// This includes bucket host validation for parsed locations and object path
// validation before any storage call is made.
package validation
