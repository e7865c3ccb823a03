// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist or is not
// visible to the calling tenant.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates the entity already exists or was modified by a
// concurrent request.
var ErrConflict = errors.New("conflict")

// ErrValidation indicates the request payload failed validation.
var ErrValidation = errors.New("validation failed")

// ErrUnauthenticated indicates a missing, malformed, or expired credential.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrRateLimited indicates the tenant exceeded its request quota for the
// current window.
var ErrRateLimited = errors.New("rate limit exceeded")

// ErrTemplateParse indicates the uploaded bytes are not a readable template.
var ErrTemplateParse = errors.New("template parse failed")

// ErrConversion indicates the PDF conversion step was unavailable.
// Non-fatal: callers fall back to the unconverted format.
var ErrConversion = errors.New("conversion unavailable")

// ErrDecryption indicates an authentication-tag mismatch or a corrupted
// envelope. Fatal; no partial plaintext is ever returned.
var ErrDecryption = errors.New("decryption failed")

// ErrStorage indicates a persistence failure in the object store.
var ErrStorage = errors.New("storage failure")
